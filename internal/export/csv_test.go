package export

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{ID: 1, Date: day(1), Description: "Paycheck Direct Deposit", Amount: decimal.NewFromInt(3500),
			Category: models.CategoryIncome, AccountType: models.AccountChecking},
		{ID: 2, Date: day(1), Description: "Trader Joes", Amount: decimal.RequireFromString("-42.5"),
			Category: models.CategoryGroceries, AccountType: models.AccountCreditCard},
		{ID: 3, Date: day(2), Description: "Pizza Place, Downtown", Amount: decimal.RequireFromString("-8.07"),
			Category: models.CategoryDining, AccountType: models.AccountChecking},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestCSVWriter_Transactions(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	path, err := w.WriteTransactions(sampleTransactions())
	if err != nil {
		t.Fatalf("WriteTransactions: %v", err)
	}
	if path != filepath.Join(dir, TransactionsFile) {
		t.Errorf("path = %s", path)
	}

	lines := readLines(t, path)
	want := []string{
		"id,date,description,amount,category,account_type",
		"1,2024-03-01,Paycheck Direct Deposit,3500.00,Income,Checking",
		"2,2024-03-01,Trader Joes,-42.50,Groceries,Credit Card",
		`3,2024-03-02,"Pizza Place, Downtown",-8.07,Dining,Checking`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	back, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("ReadTransactions: %v", err)
	}
	if len(back) != 3 || back[2].Description != "Pizza Place, Downtown" || !back[1].Amount.Equal(decimal.RequireFromString("-42.5")) {
		t.Errorf("read back %+v", back)
	}
}

func TestCSVWriter_Headers(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	prices := []models.PricePoint{{
		Date: day(4), Symbol: "MSFT", Price: decimal.RequireFromString("381.2"), SharesOwned: 7,
		PortfolioValue: decimal.RequireFromString("2668.4"),
	}}
	weather := []models.WeatherObservation{{
		Date: day(4), Temperature: decimal.RequireFromString("51"), FeelsLike: decimal.RequireFromString("47.3"),
		Humidity: 66, Condition: models.ConditionRain, Description: "light rain",
	}}

	pp, err := w.WritePrices(prices)
	if err != nil {
		t.Fatalf("WritePrices: %v", err)
	}
	wp, err := w.WriteWeather(weather)
	if err != nil {
		t.Fatalf("WriteWeather: %v", err)
	}

	if got := readLines(t, pp); got[0] != "date,symbol,price,shares_owned,portfolio_value" || got[1] != "2024-03-04,MSFT,381.20,7,2668.40" {
		t.Errorf("stock table = %q", got)
	}
	if got := readLines(t, wp); got[0] != "date,temperature,feels_like,humidity,condition,description" || got[1] != "2024-03-04,51.0,47.3,66,Rain,light rain" {
		t.Errorf("weather table = %q", got)
	}
}

func TestWriteTable_MissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", TransactionsFile)
	err := WriteTable(path, TransactionRows(sampleTransactions()))
	if err == nil {
		t.Fatal("WriteTable into a missing directory succeeded")
	}

	var exportErr *apperrors.ExportError
	if !apperrors.As(err, &exportErr) {
		t.Fatalf("error %T is not an ExportError", err)
	}
	if exportErr.Path != path {
		t.Errorf("ExportError.Path = %s", exportErr.Path)
	}
	if !apperrors.IsExportError(err) || !os.IsNotExist(exportErr.Err) {
		t.Errorf("error %v does not wrap ErrExportFailed and ENOENT", err)
	}
}

func TestWriteTable_ParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	err := WriteTable(filepath.Join(parent, WeatherFile), []WeatherRow{})
	if !apperrors.IsExportError(err) {
		t.Fatalf("error = %v, want export error", err)
	}
}

func TestWriteTable_FailedRenameLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	// a non-empty directory sitting at the destination makes the rename fail
	dest := filepath.Join(dir, TransactionsFile)
	if err := os.MkdirAll(filepath.Join(dest, "keep"), 0755); err != nil {
		t.Fatal(err)
	}

	err := WriteTable(dest, TransactionRows(sampleTransactions()))
	if !apperrors.IsExportError(err) {
		t.Fatalf("error = %v, want export error", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestWriteTable_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TransactionsFile)
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteTable(path, TransactionRows(sampleTransactions()[:1])); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	lines := readLines(t, path)
	if len(lines) != 2 || lines[0] != "id,date,description,amount,category,account_type" {
		t.Errorf("lines = %q", lines)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestReadTransactions_BadAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), TransactionsFile)
	body := "id,date,description,amount,category,account_type\n1,2024-03-01,X,abc,Dining,Checking\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadTransactions(path)
	var dataErr *apperrors.DataError
	if !apperrors.As(err, &dataErr) || dataErr.Key != "amount" {
		t.Errorf("error = %v, want amount DataError", err)
	}
}

func TestFileName(t *testing.T) {
	if FileName(models.DatasetStocks) != "stock_data.csv" || FileName(models.DatasetWeather) != "weather_data.csv" {
		t.Error("unexpected table file names")
	}
}
