package aggregate

import (
	"time"

	"github.com/sleekspend/sleekspend/internal/model"
)

// Days groups expenses into display buckets, most recent day first.
func Days(expenses []model.Expense, now time.Time) []model.DayGroup {
	groups := GroupByDay(expenses)
	keys := make([]model.DayKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	days := make([]model.DayGroup, 0, len(keys))
	for _, k := range SortDaysDescending(keys) {
		items := groups[k]
		days = append(days, model.DayGroup{
			Key:      k,
			Label:    DayLabel(k, now),
			Expenses: items,
			Count:    len(items),
			Total:    DailyTotal(items),
		})
	}
	return days
}

// DayLabel names a day relative to now: "Today", "Yesterday" or "Monday, January 2".
func DayLabel(k model.DayKey, now time.Time) string {
	switch k {
	case model.DayKeyOf(now):
		return "Today"
	case model.DayKeyOf(now.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	d := k.Time()
	if d.IsZero() {
		return string(k)
	}
	return d.Format("Monday, January 2")
}

// RangeLabel describes the period a summary covers.
func RangeLabel(r model.DateRange, now time.Time) string {
	switch {
	case r.From != nil && r.To != nil && model.DayKeyOf(*r.From) == model.DayKeyOf(*r.To):
		return r.From.Local().Format("January 2, 2006")
	case r.From != nil && r.To != nil:
		return r.From.Local().Format("Jan 2") + " - " + r.To.Local().Format("Jan 2, 2006")
	case r.From != nil:
		return r.From.Local().Format("January 2, 2006")
	default:
		return now.Local().Format("January 2006")
	}
}
