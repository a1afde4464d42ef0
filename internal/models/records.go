// Package models provides the record types produced by the synthesizers.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in every exported table.
const DateLayout = "2006-01-02"

// Category represents a spending or income category.
type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryDining         Category = "Dining"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryIncome         Category = "Income"
)

// AccountType represents the account a transaction posted to.
type AccountType string

const (
	AccountChecking   AccountType = "Checking"
	AccountCreditCard AccountType = "Credit Card"
)

// AccountTypes lists the account types in draw order.
var AccountTypes = []AccountType{AccountChecking, AccountCreditCard}

// Condition represents a weather condition.
type Condition string

const (
	ConditionClear   Condition = "Clear"
	ConditionClouds  Condition = "Clouds"
	ConditionRain    Condition = "Rain"
	ConditionSnow    Condition = "Snow"
	ConditionDrizzle Condition = "Drizzle"
)

// Conditions lists the known weather conditions.
var Conditions = []Condition{ConditionClear, ConditionClouds, ConditionRain, ConditionSnow, ConditionDrizzle}

// IsKnown reports whether c is one of the five known conditions.
func (c Condition) IsKnown() bool {
	for _, k := range Conditions {
		if c == k {
			return true
		}
	}
	return false
}

// Transaction is a single synthesized account transaction.
// Amount is negative for expenses and positive for income.
type Transaction struct {
	ID          int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    Category
	AccountType AccountType
}

// IsIncome returns true for income transactions.
func (t Transaction) IsIncome() bool {
	return t.Category == CategoryIncome
}

// PricePoint is one day's closing price for a tracked symbol.
type PricePoint struct {
	Date           time.Time
	Symbol         string
	Price          decimal.Decimal
	SharesOwned    int
	PortfolioValue decimal.Decimal
}

// WeatherObservation is one day's weather reading.
type WeatherObservation struct {
	Date        time.Time
	Temperature decimal.Decimal
	FeelsLike   decimal.Decimal
	Humidity    int
	Condition   Condition
	Description string
}

// Dataset names a generated table.
type Dataset string

const (
	DatasetTransactions Dataset = "transactions"
	DatasetStocks       Dataset = "stocks"
	DatasetWeather      Dataset = "weather"
)

// AllDatasets lists every dataset in generation order.
var AllDatasets = []Dataset{DatasetTransactions, DatasetStocks, DatasetWeather}

// ParseDataset resolves a dataset name, accepting a few common aliases.
func ParseDataset(name string) (Dataset, bool) {
	switch name {
	case "transactions", "transaction", "txn":
		return DatasetTransactions, true
	case "stocks", "stock", "prices", "portfolio":
		return DatasetStocks, true
	case "weather":
		return DatasetWeather, true
	}
	return "", false
}
