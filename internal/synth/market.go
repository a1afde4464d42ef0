package synth

import (
	"math"

	"github.com/shopspring/decimal"

	"finance-synth/internal/calendar"
	"finance-synth/internal/catalog"
	"finance-synth/internal/models"
	"finance-synth/internal/random"
)

// MarketSynthesizer produces an independent daily random walk per tracked
// symbol.
type MarketSynthesizer struct {
	table catalog.MarketTable
}

// NewMarketSynthesizer creates a synthesizer over the given table.
func NewMarketSynthesizer(table catalog.MarketTable) *MarketSynthesizer {
	return &MarketSynthesizer{table: table}
}

// Generate walks every symbol in catalog order. Each symbol draws from its
// own stream, so adding, removing or reordering symbols leaves the other
// walks untouched.
func (s *MarketSynthesizer) Generate(w calendar.Window, provider *random.Provider) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(s.table.Symbols)*w.Len())
	for _, sym := range s.table.Symbols {
		points = append(points, s.Walk(w, sym, provider.Stream(MarketStream(sym.Symbol)))...)
	}
	return points
}

// Walk produces one symbol's price series over the window.
func (s *MarketSynthesizer) Walk(w calendar.Window, sym catalog.SymbolTable, rng *random.Stream) []models.PricePoint {
	shares := rng.IntRange(s.table.MinShares, s.table.MaxShares)
	sharesDec := decimal.NewFromInt(int64(shares))
	price := sym.InitialPrice

	days := w.Days()
	points := make([]models.PricePoint, 0, len(days))
	for _, day := range days {
		price = math.Max(price+rng.Normal(0, sym.Volatility), s.table.PriceFloor)

		// a floor under half a cent can still round to zero
		rounded := round(price, 2)
		if !rounded.IsPositive() {
			rounded = decimal.New(1, -2)
		}
		points = append(points, models.PricePoint{
			Date:           day,
			Symbol:         sym.Symbol,
			Price:          rounded,
			SharesOwned:    shares,
			PortfolioValue: rounded.Mul(sharesDec),
		})
	}
	return points
}
