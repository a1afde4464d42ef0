package synth

import (
	"sort"

	"finance-synth/internal/calendar"
	"finance-synth/internal/catalog"
	"finance-synth/internal/models"
	"finance-synth/internal/random"
)

// TransactionSynthesizer produces recurring paychecks plus random daily
// spending.
type TransactionSynthesizer struct {
	table catalog.TransactionTable
}

// NewTransactionSynthesizer creates a synthesizer over the given table.
func NewTransactionSynthesizer(table catalog.TransactionTable) *TransactionSynthesizer {
	return &TransactionSynthesizer{table: table}
}

// Generate returns the window's transactions sorted by date with IDs 1..N.
// Same-day records keep generation order, so paychecks precede spending.
func (s *TransactionSynthesizer) Generate(w calendar.Window, rng *random.Stream) []models.Transaction {
	records := s.income(w)
	records = append(records, s.spending(w, rng)...)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	for i := range records {
		records[i].ID = i + 1
	}
	return records
}

// income emits one paycheck per offset per pay period. Paychecks falling past
// the end of the window are dropped.
func (s *TransactionSynthesizer) income(w calendar.Window) []models.Transaction {
	t := s.table
	amount := round(t.PaycheckAmount, 2)
	records := make([]models.Transaction, 0, t.PayPeriods*len(t.PaycheckOffsets))

	for period := 0; period < t.PayPeriods; period++ {
		anchor := w.Start.AddDate(0, 0, period*t.PeriodDays)
		for _, offset := range t.PaycheckOffsets {
			date := anchor.AddDate(0, 0, offset)
			if !w.Contains(date) {
				continue
			}
			records = append(records, models.Transaction{
				Date:        date,
				Description: t.PaycheckDescription,
				Amount:      amount,
				Category:    models.CategoryIncome,
				AccountType: models.AccountChecking,
			})
		}
	}
	return records
}

func (s *TransactionSynthesizer) spending(w calendar.Window, rng *random.Stream) []models.Transaction {
	t := s.table
	categories := t.DiscretionaryCategories()
	var records []models.Transaction

	for _, day := range w.Days() {
		if !rng.Chance(t.ActivityProbability) {
			continue
		}

		n := rng.IntRange(t.MinDaily, t.MaxDaily)
		for i := 0; i < n; i++ {
			category := random.Choice(rng, categories)
			merchant := random.Choice(rng, category.Merchants)
			magnitude := rng.Uniform(category.MinAmount, category.MaxAmount)
			account := random.Choice(rng, models.AccountTypes)

			records = append(records, models.Transaction{
				Date:        day,
				Description: merchant,
				Amount:      round(-magnitude, 2),
				Category:    models.Category(category.Name),
				AccountType: account,
			})
		}
	}
	return records
}
