// Package catalog holds the static lookup tables the synthesizers draw from:
// spending categories and merchants, tracked ticker symbols, season
// temperature bands and weather descriptions.
//
// The defaults are embedded from catalog.toml. A user file with the same
// layout can override any of them.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

//go:embed catalog.toml
var defaultTables []byte

// DefaultActivityProbability is the chance that a given day has any
// discretionary spending at all.
const DefaultActivityProbability = 0.7

// Catalog groups every lookup table.
type Catalog struct {
	Transactions TransactionTable `mapstructure:"transactions"`
	Market       MarketTable      `mapstructure:"market"`
	Weather      WeatherTable     `mapstructure:"weather"`
}

// TransactionTable configures income and discretionary spending.
type TransactionTable struct {
	PaycheckDescription string          `mapstructure:"paycheck_description"`
	PaycheckAmount      float64         `mapstructure:"paycheck_amount"`
	PayPeriods          int             `mapstructure:"pay_periods"`
	PeriodDays          int             `mapstructure:"period_days"`
	PaycheckOffsets     []int           `mapstructure:"paycheck_offsets"`
	ActivityProbability float64         `mapstructure:"activity_probability"`
	MinDaily            int             `mapstructure:"min_daily"`
	MaxDaily            int             `mapstructure:"max_daily"`
	Categories          []CategoryTable `mapstructure:"categories"`
}

// CategoryTable is one category with its merchants and amount range.
type CategoryTable struct {
	Name      string   `mapstructure:"name"`
	Merchants []string `mapstructure:"merchants"`
	MinAmount float64  `mapstructure:"min_amount"`
	MaxAmount float64  `mapstructure:"max_amount"`
	Income    bool     `mapstructure:"income"`
}

// MarketTable configures the tracked symbols.
type MarketTable struct {
	MinShares  int           `mapstructure:"min_shares"`
	MaxShares  int           `mapstructure:"max_shares"`
	PriceFloor float64       `mapstructure:"price_floor"`
	Symbols    []SymbolTable `mapstructure:"symbols"`
}

// SymbolTable is one tracked ticker.
type SymbolTable struct {
	Symbol       string  `mapstructure:"symbol"`
	InitialPrice float64 `mapstructure:"initial_price"`
	Volatility   float64 `mapstructure:"volatility"`
}

// WeatherTable configures season bands and condition descriptions.
type WeatherTable struct {
	TempJitterMin      float64          `mapstructure:"temp_jitter_min"`
	TempJitterMax      float64          `mapstructure:"temp_jitter_max"`
	FeelsLikeJitterMin float64          `mapstructure:"feels_like_jitter_min"`
	FeelsLikeJitterMax float64          `mapstructure:"feels_like_jitter_max"`
	HumidityMin        int              `mapstructure:"humidity_min"`
	HumidityMax        int              `mapstructure:"humidity_max"`
	Seasons            []SeasonBand     `mapstructure:"seasons"`
	Conditions         []ConditionTable `mapstructure:"conditions"`
}

// SeasonBand is a temperature range for a set of calendar months.
type SeasonBand struct {
	Name    string  `mapstructure:"name"`
	Months  []int   `mapstructure:"months"`
	MinTemp float64 `mapstructure:"min_temp"`
	MaxTemp float64 `mapstructure:"max_temp"`
}

// ConditionTable maps a condition to its possible descriptions.
type ConditionTable struct {
	Name         string   `mapstructure:"name"`
	Descriptions []string `mapstructure:"descriptions"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load("")
}

// MustDefault returns the embedded catalog and panics if it is malformed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the embedded catalog and merges the TOML override file at path,
// if any. Keys in the override win; arrays of tables are replaced whole.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(defaultTables)); err != nil {
		return nil, apperrors.Wrap(err, "reading embedded catalog")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading catalog %s: %w", apperrors.ErrCatalogInvalid, path, err)
		}
	}

	c := &Catalog{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog: %w", apperrors.ErrCatalogInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func invalid(field string, value interface{}, msg string) error {
	return fmt.Errorf("%w: %w", apperrors.ErrCatalogInvalid, apperrors.NewValidationError(field, value, msg))
}

// Validate checks the tables for internal consistency.
func (c *Catalog) Validate() error {
	t := c.Transactions
	if t.PayPeriods < 0 {
		return invalid("transactions.pay_periods", t.PayPeriods, "must not be negative")
	}
	if t.PeriodDays <= 0 {
		return invalid("transactions.period_days", t.PeriodDays, "must be positive")
	}
	if t.ActivityProbability < 0 || t.ActivityProbability > 1 {
		return invalid("transactions.activity_probability", t.ActivityProbability, "must be within [0, 1]")
	}
	if t.MinDaily < 1 || t.MaxDaily < t.MinDaily {
		return invalid("transactions.max_daily", t.MaxDaily, "daily count range is empty")
	}
	if len(t.DiscretionaryCategories()) == 0 {
		return invalid("transactions.categories", len(t.Categories), "needs at least one spending category")
	}
	for _, cat := range t.Categories {
		if cat.Income {
			continue
		}
		if len(cat.Merchants) == 0 {
			return invalid("transactions.categories."+cat.Name, 0, "has no merchants")
		}
		if cat.MinAmount < 0 || cat.MaxAmount < cat.MinAmount {
			return invalid("transactions.categories."+cat.Name, cat.MaxAmount, "amount range is inverted or negative")
		}
	}

	m := c.Market
	if m.MinShares < 1 || m.MaxShares < m.MinShares {
		return invalid("market.max_shares", m.MaxShares, "share range is empty")
	}
	if m.PriceFloor <= 0 {
		return invalid("market.price_floor", m.PriceFloor, "must be positive")
	}
	seen := make(map[string]bool, len(m.Symbols))
	for _, s := range m.Symbols {
		if s.Symbol == "" || seen[s.Symbol] {
			return invalid("market.symbols", s.Symbol, "symbol is empty or duplicated")
		}
		seen[s.Symbol] = true
		if s.InitialPrice <= 0 || s.Volatility < 0 {
			return invalid("market.symbols."+s.Symbol, s.InitialPrice, "initial price must be positive and volatility non-negative")
		}
	}

	w := c.Weather
	if w.HumidityMin < 0 || w.HumidityMax > 100 || w.HumidityMax < w.HumidityMin {
		return invalid("weather.humidity_max", w.HumidityMax, "humidity range must lie within [0, 100]")
	}
	if w.TempJitterMax < w.TempJitterMin || w.FeelsLikeJitterMax < w.FeelsLikeJitterMin {
		return invalid("weather.jitter", w.TempJitterMax, "jitter range is inverted")
	}
	covered := make(map[int]bool)
	for _, s := range w.Seasons {
		if s.MaxTemp < s.MinTemp {
			return invalid("weather.seasons."+s.Name, s.MaxTemp, "temperature range is inverted")
		}
		for _, mo := range s.Months {
			if mo < 1 || mo > 12 || covered[mo] {
				return invalid("weather.seasons."+s.Name, mo, "month out of range or assigned twice")
			}
			covered[mo] = true
		}
	}
	if len(covered) != 12 {
		return invalid("weather.seasons", len(covered), "every month needs a season")
	}
	if len(w.Conditions) == 0 {
		return invalid("weather.conditions", 0, "needs at least one condition")
	}
	for _, cond := range w.Conditions {
		if !models.Condition(cond.Name).IsKnown() {
			return invalid("weather.conditions", cond.Name, "unknown condition")
		}
		if len(cond.Descriptions) == 0 {
			return invalid("weather.conditions."+cond.Name, 0, "has no descriptions")
		}
	}
	return nil
}

// DiscretionaryCategories returns the non-income categories in catalog order.
func (t TransactionTable) DiscretionaryCategories() []CategoryTable {
	out := make([]CategoryTable, 0, len(t.Categories))
	for _, c := range t.Categories {
		if !c.Income {
			out = append(out, c)
		}
	}
	return out
}

// SeasonFor returns the band covering the month of d.
func (w WeatherTable) SeasonFor(d time.Time) (SeasonBand, bool) {
	mo := int(d.Month())
	for _, s := range w.Seasons {
		for _, m := range s.Months {
			if m == mo {
				return s, true
			}
		}
	}
	return SeasonBand{}, false
}

// Merchants returns the category to merchant mapping.
func (t TransactionTable) Merchants() map[string][]string {
	out := make(map[string][]string, len(t.Categories))
	for _, c := range t.Categories {
		out[c.Name] = c.Merchants
	}
	return out
}

// Descriptions returns the condition to description mapping.
func (w WeatherTable) Descriptions() map[models.Condition][]string {
	out := make(map[models.Condition][]string, len(w.Conditions))
	for _, c := range w.Conditions {
		out[models.Condition(c.Name)] = c.Descriptions
	}
	return out
}
