// Package activity keeps an append-only CSV history of expense additions and deletions.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/model"
)

// Actions.
const (
	ActionAdd    = "add"
	ActionDelete = "delete"
)

// FileName is the activity log file inside the data directory.
const FileName = "activity.csv"

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,expense_id,amount,category,description"

const (
	numFields      = 6
	colTimestamp   = 0
	colAction      = 1
	colExpenseID   = 2
	colAmount      = 3
	colCategory    = 4
	colDescription = 5
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp   time.Time
	Action      string
	ExpenseID   string
	Amount      decimal.Decimal
	Category    string
	Description string
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colExpenseID] = e.ExpenseID
	row[colAmount] = e.Amount.String()
	row[colCategory] = e.Category
	row[colDescription] = e.Description
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Entry{
		Timestamp:   ts,
		Action:      record[colAction],
		ExpenseID:   record[colExpenseID],
		Amount:      amount,
		Category:    record[colCategory],
		Description: record[colDescription],
	}, nil
}

// Append writes entries to <dataDir>/activity.csv, creating the file and header if needed.
func Append(dataDir string, entries []Entry) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/activity.csv, oldest first.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log records ledger mutations to the activity file. It satisfies ledger.Notifier.
type Log struct {
	dataDir string
	clock   func() time.Time
	logger  *log.Logger
}

// NewLog creates a Log writing under dataDir. A nil clock means time.Now; a nil logger
// discards write failures.
func NewLog(dataDir string, clock func() time.Time, logger *log.Logger) *Log {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Log{
		dataDir: dataDir,
		clock:   clock,
		logger:  logger.WithComponent(log.ComponentActivity),
	}
}

// ExpenseAdded appends an add row.
func (l *Log) ExpenseAdded(e model.Expense) {
	l.record(ActionAdd, e)
}

// ExpenseDeleted appends a delete row.
func (l *Log) ExpenseDeleted(e model.Expense) {
	l.record(ActionDelete, e)
}

func (l *Log) record(action string, e model.Expense) {
	entry := Entry{
		Timestamp:   l.clock(),
		Action:      action,
		ExpenseID:   e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
	}
	if err := Append(l.dataDir, []Entry{entry}); err != nil {
		l.logger.Warn("failed to append activity",
			log.FieldExpenseID, e.ID,
			log.FieldOperation, action,
			log.FieldError, err)
	}
}
