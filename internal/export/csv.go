// Package export writes synthesized records as comma-separated tables and
// reads them back.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

// Table file names inside the output directory.
const (
	TransactionsFile = "transactions.csv"
	PricesFile       = "stock_data.csv"
	WeatherFile      = "weather_data.csv"
)

// FileName returns the table file name for a dataset.
func FileName(ds models.Dataset) string {
	switch ds {
	case models.DatasetTransactions:
		return TransactionsFile
	case models.DatasetStocks:
		return PricesFile
	case models.DatasetWeather:
		return WeatherFile
	}
	return string(ds) + ".csv"
}

// WriteTable writes rows to path with a header row taken from the rows'
// csv tags. The table is written to a temporary file in the same directory
// and renamed into place, so path is either fully replaced or untouched.
// The parent directory must already exist and be writable.
func WriteTable[R any](path string, rows []R) (err error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return apperrors.NewExportError(path, "stat", err)
	}
	if !info.IsDir() {
		return apperrors.NewExportError(path, "stat", fmt.Errorf("%s is not a directory", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewExportError(path, "create", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = gocsv.Marshal(rows, bw); err != nil {
		return apperrors.NewExportError(path, "encode", err)
	}
	if err = bw.Flush(); err != nil {
		return apperrors.NewExportError(path, "write", err)
	}
	if err = tmp.Sync(); err != nil {
		return apperrors.NewExportError(path, "sync", err)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewExportError(path, "close", err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return apperrors.NewExportError(path, "chmod", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return apperrors.NewExportError(path, "rename", err)
	}
	return nil
}

// ReadTable decodes the table at path into rows of type R.
func ReadTable[R any](path string) ([]R, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("table", path, "open failed", err)
	}
	defer f.Close()

	var rows []R
	if err := gocsv.Unmarshal(bufio.NewReader(f), &rows); err != nil {
		return nil, apperrors.NewDataError("table", path, "decode failed", err)
	}
	return rows, nil
}

// CSVWriter writes the three tables into one output directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Dir returns the output directory.
func (w *CSVWriter) Dir() string {
	return w.dir
}

// Path returns the table path for a dataset.
func (w *CSVWriter) Path(ds models.Dataset) string {
	return filepath.Join(w.dir, FileName(ds))
}

// WriteTransactions writes transactions.csv and returns its path.
func (w *CSVWriter) WriteTransactions(records []models.Transaction) (string, error) {
	path := w.Path(models.DatasetTransactions)
	return path, WriteTable(path, TransactionRows(records))
}

// WritePrices writes stock_data.csv and returns its path.
func (w *CSVWriter) WritePrices(points []models.PricePoint) (string, error) {
	path := w.Path(models.DatasetStocks)
	return path, WriteTable(path, PriceRows(points))
}

// WriteWeather writes weather_data.csv and returns its path.
func (w *CSVWriter) WriteWeather(obs []models.WeatherObservation) (string, error) {
	path := w.Path(models.DatasetWeather)
	return path, WriteTable(path, WeatherRows(obs))
}

// ReadTransactions reads a transactions table.
func ReadTransactions(path string) ([]models.Transaction, error) {
	rows, err := ReadTable[TransactionRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.Transaction()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ReadPrices reads a stock price table.
func ReadPrices(path string) ([]models.PricePoint, error) {
	rows, err := ReadTable[PriceRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]models.PricePoint, 0, len(rows))
	for _, r := range rows {
		p, err := r.PricePoint()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadWeather reads a weather table.
func ReadWeather(path string) ([]models.WeatherObservation, error) {
	rows, err := ReadTable[WeatherRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]models.WeatherObservation, 0, len(rows))
	for _, r := range rows {
		o, err := r.Observation()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
