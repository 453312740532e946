package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SlotTestSuite runs the same contract against every backend.
type SlotTestSuite struct {
	suite.Suite
	open func(t *testing.T) Slot
	slot Slot
}

// SetupTest runs before each test
func (s *SlotTestSuite) SetupTest() {
	s.slot = s.open(s.T())
}

// TearDownTest runs after each test
func (s *SlotTestSuite) TearDownTest() {
	if s.slot != nil {
		s.slot.Close()
	}
}

func (s *SlotTestSuite) TestLoadAbsentSlot() {
	got, err := s.slot.Load()
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *SlotTestSuite) TestSaveLoadRoundTrip() {
	s.Require().NoError(s.slot.Save(sampleExpenses()))

	got, err := s.slot.Load()
	s.Require().NoError(err)
	assertSameExpenses(s.T(), sampleExpenses(), got)
}

func (s *SlotTestSuite) TestSaveOverwritesSnapshot() {
	all := sampleExpenses()
	s.Require().NoError(s.slot.Save(all))
	s.Require().NoError(s.slot.Save(all[1:]))

	got, err := s.slot.Load()
	s.Require().NoError(err)
	assertSameExpenses(s.T(), all[1:], got)
}

func (s *SlotTestSuite) TestSaveEmpty() {
	s.Require().NoError(s.slot.Save(sampleExpenses()))
	s.Require().NoError(s.slot.Save(nil))

	got, err := s.slot.Load()
	s.Require().NoError(err)
	s.Empty(got)
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, &SlotTestSuite{open: func(t *testing.T) Slot {
		return NewFileStore(filepath.Join(t.TempDir(), "data"), "expenses")
	}})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &SlotTestSuite{open: func(t *testing.T) Slot {
		st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "sleekspend.db"), "expenses")
		require.NoError(t, err)
		return st
	}})
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &SlotTestSuite{open: func(*testing.T) Slot {
		return NewMemoryStore()
	}})
}

func TestFileStore_Path(t *testing.T) {
	st := NewFileStore("/var/lib/sleekspend", "expenses")
	assert.Equal(t, filepath.Join("/var/lib/sleekspend", "expenses.json"), st.Path())
}

func TestFileStore_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir, "expenses")
	require.NoError(t, os.WriteFile(st.Path(), []byte("[{"), 0o644))

	_, err := st.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), st.Path())
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir, "expenses")
	require.NoError(t, st.Save(sampleExpenses()))
	require.NoError(t, st.Save(sampleExpenses()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "expenses.json", entries[0].Name())
}

func TestSQLiteStore_SlotsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleekspend.db")
	a, err := NewSQLiteStore(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteStore(path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Save(sampleExpenses()))

	got, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = a.Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleekspend.db")
	st, err := NewSQLiteStore(path, "expenses")
	require.NoError(t, err)
	require.NoError(t, st.Save(sampleExpenses()))
	require.NoError(t, st.Close())

	st, err = NewSQLiteStore(path, "expenses")
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Load()
	require.NoError(t, err)
	assertSameExpenses(t, sampleExpenses(), got)
}

func TestMemoryStore_RawAndSaves(t *testing.T) {
	st := NewMemoryStore()
	assert.Empty(t, st.Raw())
	assert.Equal(t, 0, st.Saves())

	require.NoError(t, st.Save(sampleExpenses()))
	assert.Equal(t, 1, st.Saves())
	assert.Contains(t, string(st.Raw()), `"Coffee"`)

	seeded := NewMemoryStoreFrom([]byte("garbage"))
	_, err := seeded.Load()
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	slot, err := Open(Options{Backend: BackendFile, Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, slot)
	assert.Equal(t, filepath.Join(dir, "expenses.json"), slot.(*FileStore).Path())

	slot, err = Open(Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "x.db"), Slot: "custom"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, slot)
	require.NoError(t, slot.Close())

	slot, err = Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, slot)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(Options{Backend: BackendFile})
	assert.Error(t, err)

	_, err = Open(Options{Backend: BackendSQLite})
	assert.Error(t, err)

	_, err = Open(Options{Backend: "redis"})
	assert.Error(t, err)
}
