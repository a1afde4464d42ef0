package synth

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"finance-synth/internal/calendar"
	"finance-synth/internal/catalog"
	"finance-synth/internal/random"
)

// Property: for any seed, window length and volatility, every generated price
// is strictly positive and the portfolio value equals price x shares within
// one cent.

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())
	return parameters
}

func TestProperty_PricesPositive(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	cent := decimal.New(1, -2)

	properties.Property("prices positive and value consistent", prop.ForAll(
		func(seed int64, days int, initial, volatility float64) bool {
			w, err := calendar.NewWindow(fixedEnd, days)
			if err != nil {
				return false
			}
			table := catalog.MarketTable{
				MinShares:  5,
				MaxShares:  20,
				PriceFloor: 1,
				Symbols: []catalog.SymbolTable{
					{Symbol: "AAA", InitialPrice: initial, Volatility: volatility},
					{Symbol: "BBB", InitialPrice: initial * 2, Volatility: volatility / 2},
				},
			}
			for _, p := range NewMarketSynthesizer(table).Generate(w, random.NewProvider(seed)) {
				if !p.Price.IsPositive() {
					return false
				}
				want := p.Price.Mul(decimal.NewFromInt(int64(p.SharesOwned)))
				if p.PortfolioValue.Sub(want).Abs().GreaterThan(cent) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 120),
		gen.Float64Range(1, 500),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_TransactionIDsDense(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	table := catalog.MustDefault().Transactions

	properties.Property("ids run 1..N and dates never decrease", prop.ForAll(
		func(seed int64, days int) bool {
			w, err := calendar.NewWindow(fixedEnd, days)
			if err != nil {
				return false
			}
			records := NewTransactionSynthesizer(table).Generate(w, random.NewProvider(seed).Stream(TransactionStream))
			for i, r := range records {
				if r.ID != i+1 {
					return false
				}
				if i > 0 && r.Date.Before(records[i-1].Date) {
					return false
				}
				if !w.Contains(r.Date) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 400),
	))

	properties.TestingRun(t)
}

func TestProperty_WeatherBounds(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	table := catalog.MustDefault().Weather

	properties.Property("humidity within [40, 90] and condition known", prop.ForAll(
		func(seed int64, days int) bool {
			w, err := calendar.NewWindow(fixedEnd, days)
			if err != nil {
				return false
			}
			for _, o := range NewWeatherSynthesizer(table).Generate(w, random.NewProvider(seed).Stream(WeatherStream)) {
				if o.Humidity < 40 || o.Humidity > 90 || !o.Condition.IsKnown() {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 400),
	))

	properties.TestingRun(t)
}
