package export

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "finance-synth/internal/errors"
	"finance-synth/internal/models"
)

// TransactionRow is the flat form of models.Transaction.
type TransactionRow struct {
	ID          int    `csv:"id"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	AccountType string `csv:"account_type"`
}

// PriceRow is the flat form of models.PricePoint.
type PriceRow struct {
	Date           string `csv:"date"`
	Symbol         string `csv:"symbol"`
	Price          string `csv:"price"`
	SharesOwned    int    `csv:"shares_owned"`
	PortfolioValue string `csv:"portfolio_value"`
}

// WeatherRow is the flat form of models.WeatherObservation.
type WeatherRow struct {
	Date        string `csv:"date"`
	Temperature string `csv:"temperature"`
	FeelsLike   string `csv:"feels_like"`
	Humidity    int    `csv:"humidity"`
	Condition   string `csv:"condition"`
	Description string `csv:"description"`
}

// TransactionRows flattens transactions for export.
func TransactionRows(records []models.Transaction) []TransactionRow {
	rows := make([]TransactionRow, len(records))
	for i, r := range records {
		rows[i] = TransactionRow{
			ID:          r.ID,
			Date:        r.Date.Format(models.DateLayout),
			Description: r.Description,
			Amount:      r.Amount.StringFixed(2),
			Category:    string(r.Category),
			AccountType: string(r.AccountType),
		}
	}
	return rows
}

// PriceRows flattens price points for export.
func PriceRows(points []models.PricePoint) []PriceRow {
	rows := make([]PriceRow, len(points))
	for i, p := range points {
		rows[i] = PriceRow{
			Date:           p.Date.Format(models.DateLayout),
			Symbol:         p.Symbol,
			Price:          p.Price.StringFixed(2),
			SharesOwned:    p.SharesOwned,
			PortfolioValue: p.PortfolioValue.StringFixed(2),
		}
	}
	return rows
}

// WeatherRows flattens observations for export.
func WeatherRows(obs []models.WeatherObservation) []WeatherRow {
	rows := make([]WeatherRow, len(obs))
	for i, o := range obs {
		rows[i] = WeatherRow{
			Date:        o.Date.Format(models.DateLayout),
			Temperature: o.Temperature.StringFixed(1),
			FeelsLike:   o.FeelsLike.StringFixed(1),
			Humidity:    o.Humidity,
			Condition:   string(o.Condition),
			Description: o.Description,
		}
	}
	return rows
}

// Transaction converts a row back into a record.
func (r TransactionRow) Transaction() (models.Transaction, error) {
	date, err := parseDate("transactions", r.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := parseDecimal("transactions", "amount", r.Amount)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:          r.ID,
		Date:        date,
		Description: r.Description,
		Amount:      amount,
		Category:    models.Category(r.Category),
		AccountType: models.AccountType(r.AccountType),
	}, nil
}

// PricePoint converts a row back into a record.
func (r PriceRow) PricePoint() (models.PricePoint, error) {
	date, err := parseDate("stocks", r.Date)
	if err != nil {
		return models.PricePoint{}, err
	}
	price, err := parseDecimal("stocks", "price", r.Price)
	if err != nil {
		return models.PricePoint{}, err
	}
	value, err := parseDecimal("stocks", "portfolio_value", r.PortfolioValue)
	if err != nil {
		return models.PricePoint{}, err
	}
	return models.PricePoint{
		Date:           date,
		Symbol:         r.Symbol,
		Price:          price,
		SharesOwned:    r.SharesOwned,
		PortfolioValue: value,
	}, nil
}

// Observation converts a row back into a record.
func (r WeatherRow) Observation() (models.WeatherObservation, error) {
	date, err := parseDate("weather", r.Date)
	if err != nil {
		return models.WeatherObservation{}, err
	}
	temp, err := parseDecimal("weather", "temperature", r.Temperature)
	if err != nil {
		return models.WeatherObservation{}, err
	}
	feels, err := parseDecimal("weather", "feels_like", r.FeelsLike)
	if err != nil {
		return models.WeatherObservation{}, err
	}
	return models.WeatherObservation{
		Date:        date,
		Temperature: temp,
		FeelsLike:   feels,
		Humidity:    r.Humidity,
		Condition:   models.Condition(r.Condition),
		Description: r.Description,
	}, nil
}

func parseDate(dataset, s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewDataError(dataset, "date", "bad date "+s, err)
	}
	return t, nil
}

func parseDecimal(dataset, field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.NewDataError(dataset, field, "bad decimal "+s, err)
	}
	return d, nil
}
