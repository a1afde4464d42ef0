// Package store stages generated tables into a local warehouse file that a
// dashboard can query.
package store

import (
	"context"
	"time"

	"finance-synth/internal/models"
)

// Warehouse defines the staging operations used by the generator and the
// summary report.
type Warehouse interface {
	// Tables. Each Save replaces the whole table.
	SaveTransactions(ctx context.Context, records []models.Transaction) error
	SavePrices(ctx context.Context, points []models.PricePoint) error
	SaveWeather(ctx context.Context, obs []models.WeatherObservation) error

	// Runs
	RecordRun(ctx context.Context, run *Run) error
	LastRun(ctx context.Context) (*Run, error)

	// Reports
	MonthlySummary(ctx context.Context) ([]MonthlySummary, error)
	SpendingByWeather(ctx context.Context) ([]WeatherSpending, error)

	// Lifecycle
	Close() error
}

// Run describes one generation run.
type Run struct {
	ID          string
	Seed        int64
	WindowStart time.Time
	WindowEnd   time.Time
	Datasets    []models.Dataset
	CreatedAt   time.Time
}

// MonthlySummary is one row of the monthly_financial_summary view.
type MonthlySummary struct {
	Month            string
	TotalIncome      float64
	TotalExpenses    float64
	NetIncome        float64
	SavingsRate      *float64 // nil when the month has no income
	TransactionCount int
}

// WeatherSpending is one row of the spending_by_weather view.
type WeatherSpending struct {
	Condition        models.Condition
	Days             int
	TotalSpending    float64
	AvgDailySpending float64
}
