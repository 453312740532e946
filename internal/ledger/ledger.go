// Package ledger holds the in-memory expense list and the active date filter, persists every
// mutation, and keeps the derived day groups and summary up to date.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/aggregate"
	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/model"
)

// Store loads and saves the full expense snapshot.
type Store interface {
	Load() ([]model.Expense, error)
	Save(expenses []model.Expense) error
}

// Notifier is told about user-visible mutations.
type Notifier interface {
	ExpenseAdded(e model.Expense)
	ExpenseDeleted(e model.Expense)
}

// View is everything derived from the expense list and the filter.
type View struct {
	Days        []model.DayGroup
	Filtered    []model.Expense
	Total       decimal.Decimal
	PerCategory []model.CategoryAmount
	Breakdown   []model.BreakdownRow
	RangeLabel  string
	Count       int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l.WithComponent(log.ComponentLedger) }
}

// WithClock sets the time source used for the current-month filter and day labels.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithNotifier adds a notifier. May be given more than once.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifiers = append(c.notifiers, n) }
}

// Controller owns the expense list (newest first) and the active filter.
type Controller struct {
	store     Store
	logger    *log.Logger
	clock     func() time.Time
	notifiers []Notifier

	mu        sync.Mutex
	expenses  []model.Expense
	filter    model.DateRange
	view      View
	saveErr   error
	listeners []func(View)
}

// New creates a Controller and loads the stored snapshot. A snapshot that cannot be read is
// logged and the controller starts empty.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.Nop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	expenses, err := store.Load()
	if err != nil {
		c.logger.Error("failed to load expenses, starting empty",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err)
		expenses = nil
	}
	c.expenses = expenses
	c.logger.Debug("expenses loaded", log.FieldCount, len(expenses))

	c.view = c.compute()
	return c
}

// Add records a new expense at the front of the list.
func (c *Controller) Add(e model.Expense) {
	c.mu.Lock()
	c.expenses = slices.Insert(slices.Clip(c.expenses), 0, e)
	c.persist(log.OpAdd)
	view := c.recompute()
	c.mu.Unlock()

	c.logger.Info("expense added",
		log.FieldExpenseID, e.ID,
		log.FieldAmount, e.Amount.String(),
		log.FieldCategory, e.Category)
	for _, n := range c.notifiers {
		n.ExpenseAdded(e)
	}
	c.publish(view)
}

// AddAll records a batch of expenses with a single save. The batch is given oldest first, so
// the last one ends up at the front of the list.
func (c *Controller) AddAll(batch []model.Expense) {
	if len(batch) == 0 {
		return
	}

	c.mu.Lock()
	added := slices.Clone(batch)
	slices.Reverse(added)
	c.expenses = append(added, c.expenses...)
	c.persist(log.OpImport)
	view := c.recompute()
	c.mu.Unlock()

	c.logger.Info("expenses added", log.FieldOperation, log.OpImport, log.FieldCount, len(batch))
	for _, e := range batch {
		for _, n := range c.notifiers {
			n.ExpenseAdded(e)
		}
	}
	c.publish(view)
}

// Delete removes the expense with the given id. It reports false, and saves nothing, when no
// such expense exists.
func (c *Controller) Delete(id string) bool {
	c.mu.Lock()
	i := slices.IndexFunc(c.expenses, func(e model.Expense) bool { return e.ID == id })
	if i < 0 {
		c.mu.Unlock()
		c.logger.Debug("delete of unknown expense ignored", log.FieldExpenseID, id)
		return false
	}
	removed := c.expenses[i]
	c.expenses = slices.Delete(slices.Clone(c.expenses), i, i+1)
	c.persist(log.OpDelete)
	view := c.recompute()
	c.mu.Unlock()

	c.logger.Info("expense deleted", log.FieldExpenseID, id)
	for _, n := range c.notifiers {
		n.ExpenseDeleted(removed)
	}
	c.publish(view)
	return true
}

// SetFilter replaces the active date filter. Filters are never persisted.
func (c *Controller) SetFilter(r model.DateRange) {
	c.mu.Lock()
	c.filter = r
	view := c.recompute()
	c.mu.Unlock()

	c.logger.Debug("filter changed",
		log.FieldOperation, log.OpFilter,
		log.FieldFilterFrom, formatBound(r.From),
		log.FieldFilterTo, formatBound(r.To))
	c.publish(view)
}

// ResetFilter clears the filter, which selects the current month.
func (c *Controller) ResetFilter() {
	c.SetFilter(model.DateRange{})
}

// Refresh recomputes the view against the current clock. Call it when the day rolls over.
func (c *Controller) Refresh() View {
	c.mu.Lock()
	view := c.recompute()
	c.mu.Unlock()

	c.publish(view)
	return view
}

// Expenses returns a copy of the expense list, newest first.
func (c *Controller) Expenses() []model.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.expenses)
}

// Filter returns the active filter.
func (c *Controller) Filter() model.DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// View returns the view computed after the last change.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe registers fn to receive the new view after every change.
func (c *Controller) Subscribe(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SaveErr returns the error from the most recent failed save, or nil if the last save
// succeeded.
func (c *Controller) SaveErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveErr
}

// persist saves the current list. Failures are logged and remembered, never returned.
// Caller must hold c.mu.
func (c *Controller) persist(op string) {
	if err := c.store.Save(c.expenses); err != nil {
		c.saveErr = err
		c.logger.Error("failed to save expenses",
			log.FieldOperation, op,
			log.FieldCount, len(c.expenses),
			log.FieldError, err)
		return
	}
	c.saveErr = nil
}

// recompute rebuilds and stores the view. Caller must hold c.mu.
func (c *Controller) recompute() View {
	c.view = c.compute()
	return c.view
}

func (c *Controller) compute() View {
	now := c.clock()
	filtered := aggregate.FilterByRangeAt(c.expenses, c.filter, now)
	totals := aggregate.SummaryTotals(filtered)
	return View{
		Days:        aggregate.Days(c.expenses, now),
		Filtered:    filtered,
		Total:       totals.Total,
		PerCategory: totals.PerCategory,
		Breakdown:   aggregate.CategoryBreakdown(totals.PerCategory, totals.Total),
		RangeLabel:  aggregate.RangeLabel(c.filter, now),
		Count:       len(filtered),
	}
}

func (c *Controller) publish(v View) {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
