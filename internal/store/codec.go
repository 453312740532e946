package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/model"
)

// record is the stored shape of one expense.
type record struct {
	ID          string          `json:"id"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// dateLayouts are tried in order when decoding a stored date. Layouts without a zone are
// read as local time.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC1123Z,
	time.RFC1123,
}

// DecodeError describes the first malformed entry in a stored snapshot.
type DecodeError struct {
	Index int
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("entry %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes expenses as a JSON array, in order.
func Encode(expenses []model.Expense) ([]byte, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = record{
			ID:          e.ID,
			Amount:      json.RawMessage(e.Amount.String()),
			Description: e.Description,
			Category:    e.Category,
			Date:        e.Date.Format(time.RFC3339Nano),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding expenses: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot. Blank input or JSON null decodes to no expenses.
// Any malformed entry fails the whole snapshot.
func Decode(data []byte) ([]model.Expense, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding expenses: %w", err)
	}

	expenses := make([]model.Expense, 0, len(records))
	for i, r := range records {
		e, err := fromRecord(i, r)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func fromRecord(i int, r record) (model.Expense, error) {
	if strings.TrimSpace(r.ID) == "" {
		return model.Expense{}, &DecodeError{Index: i, Field: "id", Err: errors.New("missing")}
	}

	// Older snapshots quote the amount.
	raw := strings.Trim(string(r.Amount), `"`)
	if raw == "" || raw == "null" {
		return model.Expense{}, &DecodeError{Index: i, Field: "amount", Err: errors.New("missing")}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Expense{}, &DecodeError{Index: i, Field: "amount", Err: err}
	}
	if !amount.IsPositive() {
		return model.Expense{}, &DecodeError{Index: i, Field: "amount", Err: fmt.Errorf("%s is not positive", amount)}
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		return model.Expense{}, &DecodeError{Index: i, Field: "date", Err: err}
	}

	return model.Expense{
		ID:          r.ID,
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        date,
	}, nil
}

// ParseDate reads an ISO-8601 or common locale date-time string into local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing")
	}
	// Browser Date.toString() appends the zone name in parentheses.
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
