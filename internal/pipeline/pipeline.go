// Package pipeline runs the synthesizers for one window and seed and writes
// their tables.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"finance-synth/internal/calendar"
	"finance-synth/internal/catalog"
	"finance-synth/internal/config"
	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/export"
	"finance-synth/internal/logging"
	"finance-synth/internal/models"
	"finance-synth/internal/random"
	"finance-synth/internal/store"
	"finance-synth/internal/synth"
	"finance-synth/pkg/utils"
)

// Pipeline generates and exports datasets.
type Pipeline struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	logger    zerolog.Logger
	writer    *export.CSVWriter
	warehouse store.Warehouse
	retry     utils.RetryConfig
	newRunID  func() string
	now       func() time.Time
}

// stagingRetry retries warehouse writes that hit a lock held by a reader.
func stagingRetry() utils.RetryConfig {
	cfg := utils.DefaultRetryConfig()
	cfg.Retryable = store.IsBusy
	return cfg
}

// New creates a pipeline writing into cfg.Generator.OutputDir.
func New(cfg *config.Config, cat *catalog.Catalog, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		catalog:  cat,
		logger:   logger,
		writer:   export.NewCSVWriter(cfg.Generator.OutputDir),
		retry:    stagingRetry(),
		newRunID: uuid.NewString,
		now:      time.Now,
	}
}

// SetWarehouse stages every generated table into w as well.
func (p *Pipeline) SetWarehouse(w store.Warehouse) {
	p.warehouse = w
}

// SetRunIDFunc replaces the uuid run ID generator.
func (p *Pipeline) SetRunIDFunc(fn func() string) {
	p.newRunID = fn
}

// Result summarizes a run.
type Result struct {
	RunID  string
	Seed   int64
	Window calendar.Window
	Tables []TableResult
}

// TableResult describes one written table.
type TableResult struct {
	Dataset models.Dataset
	Path    string
	Rows    int
	Elapsed time.Duration
}

// ParseDatasets resolves dataset names. No names means every dataset.
// Duplicates are dropped; the result keeps generation order.
func ParseDatasets(names []string) ([]models.Dataset, error) {
	if len(names) == 0 {
		return models.AllDatasets, nil
	}
	wanted := make(map[models.Dataset]bool)
	for _, name := range names {
		if name == "all" {
			return models.AllDatasets, nil
		}
		ds, ok := models.ParseDataset(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDataset, name)
		}
		wanted[ds] = true
	}
	out := make([]models.Dataset, 0, len(wanted))
	for _, ds := range models.AllDatasets {
		if wanted[ds] {
			out = append(out, ds)
		}
	}
	return out, nil
}

// Run generates and writes the requested datasets. The context is checked
// between datasets; a table that has started writing is always finished or
// left untouched.
func (p *Pipeline) Run(ctx context.Context, datasets []models.Dataset) (*Result, error) {
	window, err := p.cfg.Window()
	if err != nil {
		return nil, err
	}

	if p.cfg.Generator.CreateOutputDir {
		if err := os.MkdirAll(p.writer.Dir(), 0755); err != nil {
			return nil, apperrors.NewExportError(p.writer.Dir(), "mkdir", err)
		}
	}

	provider := random.NewProvider(p.cfg.Generator.Seed)
	result := &Result{
		RunID:  p.newRunID(),
		Seed:   provider.Seed(),
		Window: window,
	}
	logger := logging.WithRunID(p.logger, result.RunID)
	logger.Info().
		Int64("seed", result.Seed).
		Str("window", window.String()).
		Int("days", window.Len()).
		Str("output_dir", p.writer.Dir()).
		Msg("Generation started")

	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		table, err := p.runDataset(ctx, logging.WithDataset(logger, string(ds)), ds, window, provider)
		if err != nil {
			return result, err
		}
		result.Tables = append(result.Tables, table)
	}

	if p.warehouse != nil {
		run := &store.Run{
			ID:          result.RunID,
			Seed:        result.Seed,
			WindowStart: window.Start,
			WindowEnd:   window.End,
			Datasets:    datasets,
			CreatedAt:   p.now(),
		}
		if err := p.warehouse.RecordRun(ctx, run); err != nil {
			return result, err
		}
	}

	logger.Info().Int("tables", len(result.Tables)).Msg("Generation finished")
	return result, nil
}

func (p *Pipeline) runDataset(ctx context.Context, logger zerolog.Logger, ds models.Dataset, window calendar.Window, provider *random.Provider) (TableResult, error) {
	start := time.Now()
	table := TableResult{Dataset: ds}

	var (
		write func() (string, error)
		stage func() error
	)

	switch ds {
	case models.DatasetTransactions:
		records := synth.NewTransactionSynthesizer(p.catalog.Transactions).
			Generate(window, provider.Stream(synth.TransactionStream))
		table.Rows = len(records)
		write = func() (string, error) { return p.writer.WriteTransactions(records) }
		stage = func() error { return p.warehouse.SaveTransactions(ctx, records) }

	case models.DatasetStocks:
		points := synth.NewMarketSynthesizer(p.catalog.Market).Generate(window, provider)
		table.Rows = len(points)
		write = func() (string, error) { return p.writer.WritePrices(points) }
		stage = func() error { return p.warehouse.SavePrices(ctx, points) }

	case models.DatasetWeather:
		obs := synth.NewWeatherSynthesizer(p.catalog.Weather).
			Generate(window, provider.Stream(synth.WeatherStream))
		table.Rows = len(obs)
		write = func() (string, error) { return p.writer.WriteWeather(obs) }
		stage = func() error { return p.warehouse.SaveWeather(ctx, obs) }

	default:
		return table, fmt.Errorf("%w: %q", apperrors.ErrUnknownDataset, ds)
	}
	logging.LogDataset(logger, string(ds), table.Rows, time.Since(start))

	path, err := write()
	table.Path = path
	logging.LogExport(logger, string(ds), path, table.Rows, err)
	if err != nil {
		return table, err
	}

	if p.warehouse != nil {
		if err := utils.Retry(ctx, p.retry, stage); err != nil {
			logger.Error().Err(err).Msg("Warehouse staging failed")
			return table, err
		}
		logger.Debug().Msg("Staged into warehouse")
	}

	table.Elapsed = time.Since(start)
	return table, nil
}
