package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleekspend/sleekspend/internal/model"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:   testTime,
		Action:      ActionAdd,
		ExpenseID:   "exp-001",
		Amount:      decimal.RequireFromString("12.50"),
		Category:    "Food",
		Description: "Coffee, large",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.True(t, len(data) > len(Header))
	assert.Equal(t, Header+"\n", string(data[:len(Header)+1]))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionDelete
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionAdd, entries[0].Action)
	assert.Equal(t, ActionDelete, entries[1].Action)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.ExpenseID, got.ExpenseID)
	assert.True(t, original.Amount.Equal(got.Amount))
	assert.Equal(t, original.Category, got.Category)
	assert.Equal(t, original.Description, got.Description, "commas survive quoting")
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadRow(t *testing.T) {
	dir := t.TempDir()
	content := Header + "\nyesterday,add,exp-001,1,Food,x\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestUnmarshalEntry_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)
}

func TestLog_RecordsMutations(t *testing.T) {
	dir := t.TempDir()
	l := NewLog(dir, func() time.Time { return testTime }, nil)

	e := model.Expense{ID: "exp-007", Amount: decimal.RequireFromString("3.20"), Description: "Bus", Category: "Transportation"}
	l.ExpenseAdded(e)
	l.ExpenseDeleted(e)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionAdd, entries[0].Action)
	assert.Equal(t, ActionDelete, entries[1].Action)
	assert.Equal(t, "exp-007", entries[1].ExpenseID)
	assert.Equal(t, "Transportation", entries[1].Category)
	assert.True(t, testTime.Equal(entries[0].Timestamp))
}

func TestLog_WriteFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	l := NewLog(filepath.Join(blocker, "sub"), nil, nil)
	assert.NotPanics(t, func() { l.ExpenseAdded(model.Expense{ID: "x"}) })
}
