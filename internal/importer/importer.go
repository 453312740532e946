// Package importer reads expenses from CSV files produced by banks or by sleekspend itself.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/model"
)

// Row is one expense read from an import file. ID is empty when the source has none.
type Row struct {
	ID          string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Category    string
}

// Parser converts an import file into Rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SleekspendParser{})
	r.Register(&ChaseParser{})
	return r
}

// Builder turns a Row into a validated expense. expense.Factory.Restore satisfies it.
type Builder func(id string, amount decimal.Decimal, description, category string, date time.Time) (model.Expense, error)

// Plan converts rows into the expenses to add, oldest first. Rows whose ID is already in
// existing, or repeats an earlier row, are skipped and counted.
func Plan(rows []Row, existing []model.Expense, build Builder) ([]model.Expense, int, error) {
	seen := make(map[string]bool, len(existing)+len(rows))
	for _, e := range existing {
		seen[e.ID] = true
	}

	var planned []model.Expense
	skipped := 0
	for i, row := range rows {
		if row.ID != "" && seen[row.ID] {
			skipped++
			continue
		}
		e, err := build(row.ID, row.Amount, row.Description, row.Category, row.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		seen[e.ID] = true
		planned = append(planned, e)
	}

	slices.SortStableFunc(planned, func(a, b model.Expense) int {
		return a.Date.Compare(b.Date)
	})
	return planned, skipped, nil
}

// importDir is the subdirectory of the data directory watched for CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, importDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
