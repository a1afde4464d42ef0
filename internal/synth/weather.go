package synth

import (
	"finance-synth/internal/calendar"
	"finance-synth/internal/catalog"
	"finance-synth/internal/models"
	"finance-synth/internal/random"
)

// WeatherSynthesizer produces one season-conditioned observation per day.
type WeatherSynthesizer struct {
	table catalog.WeatherTable
}

// NewWeatherSynthesizer creates a synthesizer over the given table.
func NewWeatherSynthesizer(table catalog.WeatherTable) *WeatherSynthesizer {
	return &WeatherSynthesizer{table: table}
}

// Generate returns one observation per window date, in date order.
func (s *WeatherSynthesizer) Generate(w calendar.Window, rng *random.Stream) []models.WeatherObservation {
	t := s.table
	days := w.Days()
	out := make([]models.WeatherObservation, 0, len(days))

	for _, day := range days {
		// catalog validation guarantees every month has a band
		band, _ := t.SeasonFor(day)
		base := rng.Uniform(band.MinTemp, band.MaxTemp)
		cond := random.Choice(rng, t.Conditions)

		temp := base + rng.Uniform(t.TempJitterMin, t.TempJitterMax)
		feels := base + rng.Uniform(t.FeelsLikeJitterMin, t.FeelsLikeJitterMax)
		humidity := rng.IntRange(t.HumidityMin, t.HumidityMax)

		out = append(out, models.WeatherObservation{
			Date:        day,
			Temperature: round(temp, 1),
			FeelsLike:   round(feels, 1),
			Humidity:    humidity,
			Condition:   models.Condition(cond.Name),
			Description: random.Choice(rng, cond.Descriptions),
		})
	}
	return out
}
