package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Built-in expense categories.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transportation"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryUtilities     = "Utilities"
	CategoryHousing       = "Housing"
	CategoryHealthcare    = "Healthcare"
	CategoryOther         = "Other"
)

// DefaultDescription replaces a blank description.
const DefaultDescription = "Expense"

// Categories returns the built-in categories in display order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryUtilities,
		CategoryHousing,
		CategoryHealthcare,
		CategoryOther,
	}
}

// Expense is one recorded spending event. Records are immutable once created.
type Expense struct {
	ID          string
	Amount      decimal.Decimal // > 0, kept exactly as entered
	Description string
	Category    string
	Date        time.Time
}

// Day returns the local calendar day the expense falls on.
func (e Expense) Day() DayKey {
	return DayKeyOf(e.Date)
}
