package model

import "github.com/shopspring/decimal"

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// BreakdownRow is one line of the category breakdown.
type BreakdownRow struct {
	Category   string
	Amount     decimal.Decimal
	Percentage float64 // share of the total, 0..100
}

// DayGroup is the expenses of one calendar day, ready for display.
type DayGroup struct {
	Key      DayKey
	Label    string // "Today", "Yesterday", "Monday, January 2"
	Expenses []Expense
	Count    int
	Total    decimal.Decimal
}
