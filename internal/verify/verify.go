// Package verify checks exported tables against the invariants the
// synthesizers promise.
package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"finance-synth/internal/catalog"
	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/export"
	"finance-synth/internal/models"
)

// Rule names reported in violations.
const (
	RuleDenseIDs       = "dense-ids"
	RuleChronological  = "chronological"
	RuleAmountSign     = "amount-sign"
	RuleAccountType    = "account-type"
	RulePositivePrice  = "positive-price"
	RulePortfolioValue = "portfolio-value"
	RuleConstantShares = "constant-shares"
	RuleHumidityRange  = "humidity-range"
	RuleKnownCondition = "known-condition"
)

// valueTolerance bounds |portfolio_value - price*shares|.
var valueTolerance = decimal.New(1, -2)

// Violation is one broken invariant.
type Violation struct {
	Dataset models.Dataset
	Row     int // 1-based data row, header excluded
	Rule    string
	Detail  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s row %d [%s]: %s", v.Dataset, v.Row, v.Rule, v.Detail)
}

// Report collects row counts and violations per dataset.
type Report struct {
	Rows       map[models.Dataset]int
	Violations []Violation
}

// OK reports whether no violation was found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Checker validates records against catalog bounds.
type Checker struct {
	catalog *catalog.Catalog
}

// New creates a checker.
func New(cat *catalog.Catalog) *Checker {
	return &Checker{catalog: cat}
}

// Transactions checks ID density, date order, amount sign and account type.
func (c *Checker) Transactions(records []models.Transaction) []Violation {
	var out []Violation
	add := func(i int, rule, format string, args ...interface{}) {
		out = append(out, Violation{models.DatasetTransactions, i + 1, rule, fmt.Sprintf(format, args...)})
	}

	for i, r := range records {
		if r.ID != i+1 {
			add(i, RuleDenseIDs, "id %d, want %d", r.ID, i+1)
		}
		if i > 0 && r.Date.Before(records[i-1].Date) {
			add(i, RuleChronological, "%s after %s", r.Date.Format(models.DateLayout), records[i-1].Date.Format(models.DateLayout))
		}
		if r.IsIncome() != r.Amount.IsPositive() {
			add(i, RuleAmountSign, "%s amount %s", r.Category, r.Amount.StringFixed(2))
		}
		if r.AccountType != models.AccountChecking && r.AccountType != models.AccountCreditCard {
			add(i, RuleAccountType, "unknown account type %q", r.AccountType)
		}
	}
	return out
}

// Prices checks positivity, portfolio value consistency and constant share
// counts per symbol.
func (c *Checker) Prices(points []models.PricePoint) []Violation {
	var out []Violation
	add := func(i int, rule, format string, args ...interface{}) {
		out = append(out, Violation{models.DatasetStocks, i + 1, rule, fmt.Sprintf(format, args...)})
	}

	shares := make(map[string]int)
	for i, p := range points {
		if !p.Price.IsPositive() {
			add(i, RulePositivePrice, "%s price %s", p.Symbol, p.Price.StringFixed(2))
		}
		want := p.Price.Mul(decimal.NewFromInt(int64(p.SharesOwned)))
		if p.PortfolioValue.Sub(want).Abs().GreaterThan(valueTolerance) {
			add(i, RulePortfolioValue, "%s value %s, want %s", p.Symbol, p.PortfolioValue.StringFixed(2), want.StringFixed(2))
		}
		if n, ok := shares[p.Symbol]; ok && n != p.SharesOwned {
			add(i, RuleConstantShares, "%s shares %d, earlier %d", p.Symbol, p.SharesOwned, n)
		} else if !ok {
			shares[p.Symbol] = p.SharesOwned
		}
	}
	return out
}

// Weather checks humidity bounds and condition membership.
func (c *Checker) Weather(obs []models.WeatherObservation) []Violation {
	var out []Violation
	lo, hi := c.catalog.Weather.HumidityMin, c.catalog.Weather.HumidityMax
	for i, o := range obs {
		if o.Humidity < lo || o.Humidity > hi {
			out = append(out, Violation{models.DatasetWeather, i + 1, RuleHumidityRange,
				fmt.Sprintf("humidity %d outside [%d, %d]", o.Humidity, lo, hi)})
		}
		if !o.Condition.IsKnown() {
			out = append(out, Violation{models.DatasetWeather, i + 1, RuleKnownCondition,
				fmt.Sprintf("unknown condition %q", o.Condition)})
		}
	}
	return out
}

// Directory reads the tables for datasets from dir and checks them. Missing
// tables are skipped; a directory with none of them is an error.
func (c *Checker) Directory(dir string, datasets []models.Dataset) (*Report, error) {
	report := &Report{Rows: make(map[models.Dataset]int)}

	for _, ds := range datasets {
		path := filepath.Join(dir, export.FileName(ds))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		switch ds {
		case models.DatasetTransactions:
			records, err := export.ReadTransactions(path)
			if err != nil {
				return nil, err
			}
			report.Rows[ds] = len(records)
			report.Violations = append(report.Violations, c.Transactions(records)...)
		case models.DatasetStocks:
			points, err := export.ReadPrices(path)
			if err != nil {
				return nil, err
			}
			report.Rows[ds] = len(points)
			report.Violations = append(report.Violations, c.Prices(points)...)
		case models.DatasetWeather:
			obs, err := export.ReadWeather(path)
			if err != nil {
				return nil, err
			}
			report.Rows[ds] = len(obs)
			report.Violations = append(report.Violations, c.Weather(obs)...)
		}
	}

	if len(report.Rows) == 0 {
		return nil, fmt.Errorf("%w: no tables in %s", apperrors.ErrDataNotFound, dir)
	}
	return report, nil
}
