// Package aggregate derives grouped, filtered and summarized views from expense snapshots.
// All functions are pure: they never modify their inputs.
package aggregate

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// GroupByDay buckets expenses by local calendar day. Input order is preserved within a day
// and only days that have expenses get a key.
func GroupByDay(expenses []model.Expense) map[model.DayKey][]model.Expense {
	groups := make(map[model.DayKey][]model.Expense)
	for _, e := range expenses {
		k := e.Day()
		groups[k] = append(groups[k], e)
	}
	return groups
}

// SortDaysDescending returns the keys ordered most recent day first.
func SortDaysDescending(keys []model.DayKey) []model.DayKey {
	sorted := slices.Clone(keys)
	// Keys are zero-padded YYYY-MM-DD, so string order is calendar order.
	slices.SortFunc(sorted, func(a, b model.DayKey) int {
		return strings.Compare(string(b), string(a))
	})
	return sorted
}

// DailyTotal sums the amounts of expenses. An empty list sums to zero.
func DailyTotal(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// FilterByRange applies the range as of now. See FilterByRangeAt.
func FilterByRange(expenses []model.Expense, r model.DateRange) []model.Expense {
	return FilterByRangeAt(expenses, r, time.Now())
}

// FilterByRangeAt selects expenses by r:
//
//	From and To set:   From <= date <= To
//	only From set:     From <= date <= From
//	otherwise:         the calendar month of now (local time)
func FilterByRangeAt(expenses []model.Expense, r model.DateRange, now time.Time) []model.Expense {
	var keep func(time.Time) bool
	switch {
	case r.From != nil && r.To != nil:
		from, to := *r.From, *r.To
		keep = func(d time.Time) bool { return within(d, from, to) }
	case r.From != nil:
		from := *r.From
		keep = func(d time.Time) bool { return within(d, from, from) }
	default:
		// An upper bound without a lower one is never produced by front ends and
		// falls back to the monthly view.
		keep = func(d time.Time) bool { return sameMonth(d, now) }
	}

	filtered := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if keep(e.Date) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func within(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func sameMonth(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Totals is the summary of a filtered expense list.
type Totals struct {
	Total       decimal.Decimal
	PerCategory []model.CategoryAmount // first-encounter order; only categories with expenses
}

// Amount returns the subtotal for category.
func (t Totals) Amount(category string) (decimal.Decimal, bool) {
	for _, ca := range t.PerCategory {
		if ca.Category == category {
			return ca.Amount, true
		}
	}
	return decimal.Zero, false
}

// SummaryTotals computes the overall total and per-category subtotals.
func SummaryTotals(filtered []model.Expense) Totals {
	totals := Totals{Total: decimal.Zero}
	index := make(map[string]int)
	for _, e := range filtered {
		totals.Total = totals.Total.Add(e.Amount)
		i, ok := index[e.Category]
		if !ok {
			i = len(totals.PerCategory)
			index[e.Category] = i
			totals.PerCategory = append(totals.PerCategory, model.CategoryAmount{Category: e.Category, Amount: decimal.Zero})
		}
		totals.PerCategory[i].Amount = totals.PerCategory[i].Amount.Add(e.Amount)
	}
	return totals
}

// CategoryBreakdown orders subtotals by amount, largest first, keeping input order on ties,
// and computes each share of total. A non-positive total yields no rows.
func CategoryBreakdown(perCategory []model.CategoryAmount, total decimal.Decimal) []model.BreakdownRow {
	if !total.IsPositive() {
		return nil
	}
	rows := make([]model.BreakdownRow, 0, len(perCategory))
	for _, ca := range perCategory {
		rows = append(rows, model.BreakdownRow{
			Category:   ca.Category,
			Amount:     ca.Amount,
			Percentage: ca.Amount.Div(total).Mul(hundred).InexactFloat64(),
		})
	}
	slices.SortStableFunc(rows, func(a, b model.BreakdownRow) int {
		return b.Amount.Cmp(a.Amount)
	})
	return rows
}
