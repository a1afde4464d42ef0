// Package synth generates the demo datasets: account transactions, daily
// portfolio prices and daily weather.
//
// Every synthesizer is a pure function of its catalog table, the date window
// and the random stream it is handed. None of them keeps state between calls.
package synth

import (
	"github.com/shopspring/decimal"
)

// Stream names handed to random.Provider. Changing one changes the output of
// the matching dataset for every seed.
const (
	TransactionStream  = "transactions"
	WeatherStream      = "weather"
	marketStreamPrefix = "market/"
)

// MarketStream returns the stream name for a ticker's price walk.
func MarketStream(symbol string) string {
	return marketStreamPrefix + symbol
}

// round converts f to a decimal rounded half away from zero to places digits.
func round(f float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(places)
}
