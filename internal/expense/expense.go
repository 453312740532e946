// Package expense creates validated expense records.
package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/id"
	"github.com/sleekspend/sleekspend/internal/model"
)

var (
	ErrMissingAmount   = errors.New("amount is required")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrUnknownCategory = errors.New("unknown category")
)

// CategoryResolver maps a user-supplied category to its canonical name.
type CategoryResolver interface {
	Resolve(name string) (string, bool)
}

// observer is implemented by generators that must not reissue ids seen elsewhere.
type observer interface {
	Observe(id string)
}

// Factory creates expense records with fresh IDs and timestamps.
type Factory struct {
	ids        id.Generator
	clock      func() time.Time
	categories CategoryResolver
}

// NewFactory creates a Factory. A nil clock means time.Now.
func NewFactory(ids id.Generator, clock func() time.Time, categories CategoryResolver) *Factory {
	if clock == nil {
		clock = time.Now
	}
	return &Factory{ids: ids, clock: clock, categories: categories}
}

// Create builds a new expense. It fails without consuming an ID when the amount is not
// positive or the category is unknown.
func (f *Factory) Create(amount decimal.Decimal, description, category string) (model.Expense, error) {
	return f.build("", amount, description, category, f.clock())
}

// Restore builds an expense that already has an id and date, such as an imported row. An
// empty id gets a fresh one; a zero date means now.
func (f *Factory) Restore(expenseID string, amount decimal.Decimal, description, category string, date time.Time) (model.Expense, error) {
	if date.IsZero() {
		date = f.clock()
	}
	return f.build(strings.TrimSpace(expenseID), amount, description, category, date)
}

func (f *Factory) build(expenseID string, amount decimal.Decimal, description, category string, date time.Time) (model.Expense, error) {
	if !amount.IsPositive() {
		return model.Expense{}, ErrInvalidAmount
	}

	cat, err := f.resolveCategory(category)
	if err != nil {
		return model.Expense{}, err
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = model.DefaultDescription
	}

	if expenseID == "" {
		expenseID = f.ids.NewID()
	} else if o, ok := f.ids.(observer); ok {
		o.Observe(expenseID)
	}

	return model.Expense{
		ID:          expenseID,
		Amount:      amount,
		Description: desc,
		Category:    cat,
		Date:        date,
	}, nil
}

func (f *Factory) resolveCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return model.CategoryOther, nil
	}
	if f.categories == nil {
		return category, nil
	}
	canonical, ok := f.categories.Resolve(category)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return canonical, nil
}

// ParseAmount parses user input such as "12.50", "12,50" or "$12.50".
// Only positive amounts are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrMissingAmount
	}
	// A lone comma is a decimal separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals and a currency sign.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
