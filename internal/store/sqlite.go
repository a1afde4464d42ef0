package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

// SQLiteStore implements Warehouse using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the warehouse file at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", apperrors.ErrDatabaseError, err)
	}

	// one writer at a time; the generator is single-threaded anyway
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %w", apperrors.ErrDatabaseError, err)
	}
	return store, nil
}

// IsBusy reports whether err comes from another connection holding a lock
// on the warehouse file, typically a dashboard reading it.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// initSchema creates all required tables and views.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount REAL NOT NULL,
		category TEXT NOT NULL,
		account_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stock_prices (
		date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		shares_owned INTEGER NOT NULL,
		portfolio_value REAL NOT NULL,
		PRIMARY KEY (symbol, date)
	);

	CREATE TABLE IF NOT EXISTS weather (
		date TEXT PRIMARY KEY,
		temperature REAL NOT NULL,
		feels_like REAL NOT NULL,
		humidity INTEGER NOT NULL,
		condition TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generation_runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL,
		datasets TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

	CREATE VIEW IF NOT EXISTS monthly_financial_summary AS
	SELECT
		substr(date, 1, 7) AS month,
		ROUND(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 2) AS total_income,
		ROUND(-SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 2) AS total_expenses,
		ROUND(SUM(amount), 2) AS net_income,
		CASE WHEN SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END) > 0
			THEN ROUND(100.0 * SUM(amount) / SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 1)
			ELSE NULL END AS savings_rate,
		COUNT(*) AS transaction_count
	FROM transactions
	GROUP BY substr(date, 1, 7);

	CREATE VIEW IF NOT EXISTS spending_by_weather AS
	SELECT
		w.condition AS weather_condition,
		COUNT(DISTINCT d.date) AS days,
		ROUND(SUM(d.total_spent), 2) AS total_spending,
		ROUND(AVG(d.total_spent), 2) AS avg_daily_spending
	FROM (
		SELECT date, -SUM(amount) AS total_spent
		FROM transactions
		WHERE amount < 0
		GROUP BY date
	) d
	JOIN weather w ON w.date = d.date
	GROUP BY w.condition;
	`

	_, err := s.db.Exec(schema)
	return err
}

// replaceTable deletes every row of table and inserts rows with stmt inside
// one transaction.
func (s *SQLiteStore) replaceTable(ctx context.Context, table, stmt string, n int, args func(i int) []interface{}) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin %s: %w", apperrors.ErrDatabaseError, table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("%w: clear %s: %w", apperrors.ErrDatabaseError, table, err)
	}

	insert, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %w", apperrors.ErrDatabaseError, table, err)
	}
	defer insert.Close()

	for i := 0; i < n; i++ {
		if _, err := insert.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("%w: insert %s row %d: %w", apperrors.ErrDatabaseError, table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %w", apperrors.ErrDatabaseError, table, err)
	}
	return nil
}

// SaveTransactions replaces the transactions table.
func (s *SQLiteStore) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	return s.replaceTable(ctx, "transactions", `
		INSERT INTO transactions (id, date, description, amount, category, account_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(records), func(i int) []interface{} {
		r := records[i]
		return []interface{}{
			r.ID, r.Date.Format(models.DateLayout), r.Description,
			r.Amount.InexactFloat64(), string(r.Category), string(r.AccountType),
		}
	})
}

// SavePrices replaces the stock_prices table.
func (s *SQLiteStore) SavePrices(ctx context.Context, points []models.PricePoint) error {
	return s.replaceTable(ctx, "stock_prices", `
		INSERT INTO stock_prices (date, symbol, price, shares_owned, portfolio_value)
		VALUES (?, ?, ?, ?, ?)
	`, len(points), func(i int) []interface{} {
		p := points[i]
		return []interface{}{
			p.Date.Format(models.DateLayout), p.Symbol, p.Price.InexactFloat64(),
			p.SharesOwned, p.PortfolioValue.InexactFloat64(),
		}
	})
}

// SaveWeather replaces the weather table.
func (s *SQLiteStore) SaveWeather(ctx context.Context, obs []models.WeatherObservation) error {
	return s.replaceTable(ctx, "weather", `
		INSERT INTO weather (date, temperature, feels_like, humidity, condition, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(obs), func(i int) []interface{} {
		o := obs[i]
		return []interface{}{
			o.Date.Format(models.DateLayout), o.Temperature.InexactFloat64(), o.FeelsLike.InexactFloat64(),
			o.Humidity, string(o.Condition), o.Description,
		}
	})
}

// RecordRun stores a generation run.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	names := make([]string, len(run.Datasets))
	for i, d := range run.Datasets {
		names[i] = string(d)
	}
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_runs (run_id, seed, window_start, window_end, datasets, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seed, run.WindowStart.Format(models.DateLayout), run.WindowEnd.Format(models.DateLayout),
		strings.Join(names, ","), created.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: record run: %w", apperrors.ErrDatabaseError, err)
	}
	return nil
}

// LastRun returns the most recent generation run.
func (s *SQLiteStore) LastRun(ctx context.Context) (*Run, error) {
	var (
		run                  Run
		start, end, datasets string
		created              string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, seed, window_start, window_end, datasets, created_at
		FROM generation_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&run.ID, &run.Seed, &start, &end, &datasets, &created)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: last run: %w", apperrors.ErrDatabaseError, err)
	}

	run.WindowStart, _ = time.Parse(models.DateLayout, start)
	run.WindowEnd, _ = time.Parse(models.DateLayout, end)
	run.CreatedAt, _ = time.Parse(time.RFC3339, created)
	for _, name := range strings.Split(datasets, ",") {
		if name != "" {
			run.Datasets = append(run.Datasets, models.Dataset(name))
		}
	}
	return &run, nil
}

// MonthlySummary returns the monthly_financial_summary view, newest month first.
func (s *SQLiteStore) MonthlySummary(ctx context.Context) ([]MonthlySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, total_income, total_expenses, net_income, savings_rate, transaction_count
		FROM monthly_financial_summary
		ORDER BY month DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly summary: %w", apperrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []MonthlySummary
	for rows.Next() {
		var m MonthlySummary
		var rate sql.NullFloat64
		if err := rows.Scan(&m.Month, &m.TotalIncome, &m.TotalExpenses, &m.NetIncome, &rate, &m.TransactionCount); err != nil {
			return nil, fmt.Errorf("%w: scan monthly summary: %w", apperrors.ErrDatabaseError, err)
		}
		if rate.Valid {
			v := rate.Float64
			m.SavingsRate = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SpendingByWeather returns the spending_by_weather view ordered by average
// daily spend, highest first.
func (s *SQLiteStore) SpendingByWeather(ctx context.Context) ([]WeatherSpending, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT weather_condition, days, total_spending, avg_daily_spending
		FROM spending_by_weather
		ORDER BY avg_daily_spending DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: spending by weather: %w", apperrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []WeatherSpending
	for rows.Next() {
		var w WeatherSpending
		var cond string
		if err := rows.Scan(&cond, &w.Days, &w.TotalSpending, &w.AvgDailySpending); err != nil {
			return nil, fmt.Errorf("%w: scan spending by weather: %w", apperrors.ErrDatabaseError, err)
		}
		w.Condition = models.Condition(cond)
		out = append(out, w)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
