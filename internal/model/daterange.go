package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrToWithoutFrom is returned by ParseRange for an upper bound with no lower bound.
var ErrToWithoutFrom = errors.New("an end date requires a start date")

// DateRange is an optional-bounded filter over expense timestamps.
// Nil bounds are unset. The model does not enforce From <= To.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// DayRange covers the whole local calendar day of t.
func DayRange(t time.Time) DateRange {
	from := StartOfDay(t)
	to := EndOfDay(t)
	return DateRange{From: &from, To: &to}
}

// SpanRange covers from the start of from's day to the end of to's day.
func SpanRange(from, to time.Time) DateRange {
	f := StartOfDay(from)
	t := EndOfDay(to)
	return DateRange{From: &f, To: &t}
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// EndOfDay returns the last representable instant of t's local day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayKey is a calendar date without a time component, formatted "2006-01-02".
type DayKey string

// DayKeyFormat is the layout of a DayKey.
const DayKeyFormat = "2006-01-02"

// DayKeyOf returns the local calendar day of t.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Local().Format(DayKeyFormat))
}

// Time returns local midnight of the day. The zero time is returned for malformed keys.
func (k DayKey) Time() time.Time {
	t, err := time.ParseInLocation(DayKeyFormat, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseRange builds a filter from user input. A bound is either a day ("2006-01-02"),
// snapped to the start or end of that day, or an RFC 3339 timestamp. A lone from covers its
// whole day. Two blanks give the zero range.
func ParseRange(from, to string) (DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	switch {
	case from == "" && to == "":
		return DateRange{}, nil
	case from == "":
		return DateRange{}, ErrToWithoutFrom
	}

	start, fromDay, err := parseBound(from)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid from date: %w", err)
	}
	if to == "" {
		return DayRange(start), nil
	}
	end, toDay, err := parseBound(to)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid to date: %w", err)
	}

	if fromDay {
		start = StartOfDay(start)
	}
	if toDay {
		end = EndOfDay(end)
	}
	return DateRange{From: &start, To: &end}, nil
}

func parseBound(s string) (t time.Time, dayOnly bool, err error) {
	if t, err := time.ParseInLocation(DayKeyFormat, s, time.Local); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t, false, nil
}
