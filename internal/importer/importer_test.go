package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleekspend/sleekspend/internal/categories"
	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/export"
	"github.com/sleekspend/sleekspend/internal/id"
	"github.com/sleekspend/sleekspend/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func parseChaseFixture(t *testing.T) []Row {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "chase_checking.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return rows
}

func TestChaseParser_Parse(t *testing.T) {
	rows := parseChaseFixture(t)
	require.Len(t, rows, 5, "the payroll credit is skipped")

	first := rows[0]
	assert.Equal(t, "chase_20250103_GITHUBPROS", first.ID)
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", first.Description)
	assert.Equal(t, "4.00", first.Amount.StringFixed(2))
	assert.Equal(t, model.CategoryOther, first.Category)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local), first.Date)

	last := rows[4]
	assert.Equal(t, "CHECK 1042", last.Description)
	assert.True(t, last.Amount.Equal(dec("1200")))
	assert.Equal(t, 22, last.Date.Day())
}

func TestChaseParser_AmountsArePositive(t *testing.T) {
	for _, row := range parseChaseFixture(t) {
		assert.True(t, row.Amount.IsPositive(), "%s", row.Description)
	}
}

func TestChaseParser_SameDayRefsAreUnique(t *testing.T) {
	rows := parseChaseFixture(t)

	assert.Equal(t, "chase_20250105_BLUEBOTTLE", rows[1].ID)
	assert.Equal(t, "chase_20250105_BLUEBOTTLE_2", rows[2].ID)
}

func TestChaseParser_Errors(t *testing.T) {
	header := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"
	tests := []struct {
		name  string
		input string
	}{
		{"bad date", header + "DEBIT,2025-01-03,X,-1.00,ACH_DEBIT,1.00,\n"},
		{"bad amount", header + "DEBIT,01/03/2025,X,lots,ACH_DEBIT,1.00,\n"},
		{"wrong field count", header + "DEBIT,01/03/2025,X\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestChaseParser_HeaderOnly(t *testing.T) {
	rows, err := (&ChaseParser{}).Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMakeChaseRef(t *testing.T) {
	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "chase_20250103_GITHUBPROS", makeChaseRef(date, "GITHUB *PRO SUBSCRIPTION"))
	assert.Equal(t, "chase_20250103_AB", makeChaseRef(date, "A-B"))
}

func TestSleekspendParser_ReadsExport(t *testing.T) {
	exported := []model.Expense{
		{ID: "exp-002", Amount: dec("3.2"), Description: "Bus, downtown", Category: "Transportation", Date: time.Date(2025, 6, 2, 8, 15, 0, 0, time.Local)},
		{ID: "exp-001", Amount: dec("12.5"), Description: "Coffee", Category: "Food", Date: time.Date(2025, 6, 1, 9, 30, 47, 0, time.Local)},
	}
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, exported))

	rows, err := (&SleekspendParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "exp-002", rows[0].ID)
	assert.Equal(t, "Bus, downtown", rows[0].Description)
	assert.Equal(t, "Transportation", rows[0].Category)
	assert.True(t, rows[0].Amount.Equal(dec("3.2")))
	assert.True(t, rows[0].Date.Equal(exported[0].Date))
	assert.True(t, rows[1].Date.Equal(exported[1].Date), "seconds survive the round trip")
}

func TestSleekspendParser_RejectsForeignHeader(t *testing.T) {
	_, err := (&SleekspendParser{}).Parse(strings.NewReader("a,b,c,d,e\n1,2,3,4,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestSleekspendParser_Empty(t *testing.T) {
	rows, err := (&SleekspendParser{}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"chase", "sleekspend"}, r.Formats())
	assert.NotNil(t, r.Get("Chase"))
	assert.Nil(t, r.Get("amex"))
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestPlan(t *testing.T) {
	f := expense.NewFactory(id.NewSequence("exp"), nil, categories.Default())
	rows := []Row{
		{ID: "b", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local), Amount: dec("2"), Category: "food"},
		{ID: "dup", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), Amount: dec("9")},
		{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local), Amount: dec("1"), Description: "no id"},
		{ID: "b", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local), Amount: dec("2")},
	}
	existing := []model.Expense{{ID: "dup"}}

	planned, skipped, err := Plan(rows, existing, f.Restore)
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, planned, 2)
	assert.Equal(t, "exp-001", planned[0].ID, "oldest first")
	assert.Equal(t, "b", planned[1].ID)
	assert.Equal(t, "Food", planned[1].Category)
}

func TestPlan_InvalidRow(t *testing.T) {
	f := expense.NewFactory(id.NewSequence("exp"), nil, categories.Default())
	rows := []Row{
		{ID: "ok", Amount: dec("1")},
		{ID: "bad", Amount: dec("1"), Category: "Yachts"},
	}

	_, _, err := Plan(rows, nil, f.Restore)
	require.Error(t, err)
	assert.ErrorIs(t, err, expense.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "row 2")
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	importPath := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importPath, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importPath, "chase.csv"), []byte("header\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "notes.txt"), []byte("not csv"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(importPath, "processed"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "chase.csv", files[0].Name)
	assert.Equal(t, int64(7), files[0].Size)
}

func TestScan_NoDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importPath := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importPath, "test.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "test.csv"))

	_, err := os.Stat(filepath.Join(importPath, "test.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "test.csv"))
	assert.NoError(t, err)
}
