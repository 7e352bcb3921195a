package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/fcache/lib/db/util"
	"github.com/ValentinKolb/fcache/lib/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func testOptions(clock util.Clock) Options {
	opts := DefaultOptions()
	opts.SyncWrites = false
	opts.Clock = clock
	return opts
}

func openStore(t *testing.T, dir string, opts Options) *Store {
	t.Helper()
	s, err := Open(dir, opts)
	require.NoError(t, err)
	return s
}

func getString(t *testing.T, s *Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(key)
	require.NoError(t, err)
	return string(v), ok
}

// --------------------------------------------------------------------------
// Persistence and recovery
// --------------------------------------------------------------------------

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))
	require.NoError(t, s.Set("a", []byte("3")))
	_, err := s.Delete("b")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openStore(t, dir, opts)
	defer s.Close()

	v, ok := getString(t, s, "a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = getString(t, s, "b")
	assert.False(t, ok, "deleted key must stay deleted")
	assert.Equal(t, uint64(0), s.Stats().FullScans, "clean close should leave a usable checkpoint")
}

func TestRecoveryWithoutCheckpoint(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)
	opts.CheckpointEvery = -1

	s := openStore(t, dir, opts)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("k%d", i), []byte(fmt.Sprintf("v%d", i))))
	}
	_, err := s.Delete("k3")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, indexFile)))

	s = openStore(t, dir, opts)
	defer s.Close()

	assert.Equal(t, uint64(1), s.Stats().FullScans)
	assert.Equal(t, 19, s.Len())
	v, ok := getString(t, s, "k7")
	assert.True(t, ok)
	assert.Equal(t, "v7", v)
	assert.False(t, s.Has("k3"))
}

func TestRecoveryReplaysTailAfterCheckpoint(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)
	opts.CheckpointEvery = -1

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("before", []byte("1")))
	require.NoError(t, s.Checkpoint())
	require.NoError(t, s.Set("after", []byte("2")))
	_, err := s.Delete("before")
	require.NoError(t, err)

	// simulate a crash: no final checkpoint
	require.NoError(t, s.file.Close())

	s = openStore(t, dir, opts)
	defer s.Close()

	assert.Equal(t, uint64(0), s.Stats().FullScans)
	assert.False(t, s.Has("before"))
	v, ok := getString(t, s, "after")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestCorruptCheckpointFallsBackToScan(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Close())

	path := filepath.Join(dir, indexFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s = openStore(t, dir, opts)
	defer s.Close()

	assert.Equal(t, uint64(1), s.Stats().FullScans)
	v, ok := getString(t, s, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestTornTailIsTruncated(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)
	opts.CheckpointEvery = -1

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))
	goodSize := s.logSize
	require.NoError(t, s.file.Close())

	// half a record at the end of the log
	partial := record{kind: kindPut, seq: 99, key: []byte("c"), value: []byte("3")}.encode()
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write(partial[:len(partial)/2])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	s = openStore(t, dir, opts)
	defer s.Close()

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Has("c"))
	assert.Equal(t, goodSize, s.Stats().LogBytes)
	assert.Equal(t, uint64(len(partial)/2), s.Stats().TruncatedBytes)

	info, err := os.Stat(filepath.Join(dir, logFile))
	require.NoError(t, err)
	assert.Equal(t, goodSize, info.Size())

	// new writes land after the cut
	require.NoError(t, s.Set("c", []byte("3")))
	v, ok := getString(t, s, "c")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestCorruptRecordInTailIsTruncated(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)
	opts.CheckpointEvery = -1

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("a", []byte("1")))
	secondOffset := s.logSize
	require.NoError(t, s.Set("b", []byte("2")))
	require.NoError(t, s.file.Close())

	// flip a value byte of the last record
	path := filepath.Join(dir, logFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s = openStore(t, dir, opts)
	defer s.Close()

	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
	assert.Equal(t, secondOffset, s.Stats().LogBytes)
}

func TestCorruptHeaderFailsOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, logFile), []byte("NOTALOG-AT-ALL-XYZ"), 0o644))

	_, err := Open(dir, testOptions(nil))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUnfinishedHeaderStartsEmpty(t *testing.T) {
	tests := map[string][]byte{
		"short":       []byte("FCACHE"),
		"zero filled": make([]byte, logHeaderSize),
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, logFile), content, 0o644))

			s := openStore(t, dir, testOptions(nil))
			assert.Equal(t, 0, s.Len())
			assert.Equal(t, int64(logHeaderSize), s.Stats().LogBytes)
			assert.Equal(t, uint64(len(content)), s.Stats().TruncatedBytes)

			require.NoError(t, s.Set("a", []byte("1")))
			require.NoError(t, s.Close())

			// the rewritten header is valid on the next open
			s = openStore(t, dir, testOptions(nil))
			defer s.Close()
			v, ok := getString(t, s, "a")
			assert.True(t, ok)
			assert.Equal(t, "1", v)
		})
	}
}

func TestCorruptFullLengthHeaderFailsOpen(t *testing.T) {
	dir := t.TempDir()
	header := make([]byte, logHeaderSize)
	copy(header, "FCACHEXX")
	require.NoError(t, os.WriteFile(filepath.Join(dir, logFile), header, 0o644))

	_, err := Open(dir, testOptions(nil))
	assert.ErrorIs(t, err, ErrCorrupt)
}

// --------------------------------------------------------------------------
// Capacity and eviction
// --------------------------------------------------------------------------

func TestRecordLargerThanCapacityIsRejected(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxBytes = 100
	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	err := s.Set("big", make([]byte, 100))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.False(t, s.Has("big"))
	assert.Equal(t, int64(logHeaderSize), s.Stats().LogBytes, "rejected write must not touch the log")
}

func TestEvictsLeastRecentlyAccessed(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	// each record is 37 + 1 + 10 = 48 bytes, two fit
	opts.MaxBytes = 100

	var evicted []string
	opts.OnRemove = func(key string, cause RemovalCause) {
		assert.Equal(t, CauseEvicted, cause)
		evicted = append(evicted, key)
	}

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	value := []byte("0123456789")
	require.NoError(t, s.Set("a", value))
	clock.Advance(time.Second)
	require.NoError(t, s.Set("b", value))
	clock.Advance(time.Second)

	// reading a makes b the oldest
	_, ok := getString(t, s, "a")
	require.True(t, ok)
	clock.Advance(time.Second)

	require.NoError(t, s.Set("c", value))

	assert.Equal(t, []string{"b"}, evicted)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
	assert.True(t, s.Has("c"))
	assert.LessOrEqual(t, s.Stats().LiveBytes, opts.MaxBytes)
	assert.Equal(t, uint64(1), s.Stats().Evictions)
}

func TestEvictionTieBreaksByInsertionOrder(t *testing.T) {
	clock := util.NewManualClock(start) // time never moves
	opts := testOptions(clock)
	opts.MaxBytes = 100

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	value := []byte("0123456789")
	require.NoError(t, s.Set("a", value))
	require.NoError(t, s.Set("b", value))
	require.NoError(t, s.Set("c", value))

	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.True(t, s.Has("c"))
}

func TestNeverEvictsEntryJustWritten(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.MaxBytes = 100

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	require.NoError(t, s.Set("a", []byte("0123456789")))
	clock.Advance(time.Second)

	// 37 + 1 + 60 = 98 bytes: only room for the new entry
	require.NoError(t, s.Set("b", make([]byte, 60)))

	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.Equal(t, 1, s.Len())
}

func TestReopenWithSmallerBoundEvicts(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(util.NewManualClock(start))

	s := openStore(t, dir, opts)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("k%d", i), []byte("0123456789")))
	}
	require.NoError(t, s.Close())

	opts.MaxBytes = 200
	s = openStore(t, dir, opts)
	defer s.Close()

	assert.LessOrEqual(t, s.Stats().LiveBytes, int64(200))
	assert.True(t, s.Has("k9"), "newest entries survive")
	assert.False(t, s.Has("k0"), "oldest entries are evicted")
}

func TestFailedAppendLeavesNoTrace(t *testing.T) {
	s := openStore(t, t.TempDir(), testOptions(nil))
	require.NoError(t, s.Set("a", []byte("1")))
	sizeBefore := s.logSize

	// a closed file makes every write fail
	require.NoError(t, s.file.Close())

	err := s.Set("b", []byte("2"))
	assert.ErrorIs(t, err, ErrWrite)
	assert.False(t, s.Has("b"))
	assert.Equal(t, sizeBefore, s.logSize)

	_, err = s.Delete("a")
	assert.ErrorIs(t, err, ErrWrite)
	assert.True(t, s.Has("a"), "failed delete keeps the entry")
}

// --------------------------------------------------------------------------
// Expiry
// --------------------------------------------------------------------------

func TestTimeToLive(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTL: time.Minute}

	var expired []string
	opts.OnRemove = func(key string, cause RemovalCause) {
		if cause == CauseExpired {
			expired = append(expired, key)
		}
	}

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	require.NoError(t, s.Set("k", []byte("v")))

	clock.Advance(59 * time.Second)
	_, ok := getString(t, s, "k")
	assert.True(t, ok, "reads before the deadline hit")

	clock.Advance(time.Second)
	assert.False(t, s.Has("k"))
	_, ok = getString(t, s, "k")
	assert.False(t, ok, "reads at the deadline miss")

	// without a queue the read removed it inline
	assert.Equal(t, []string{"k"}, expired)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(1), s.Stats().Expirations)
}

func TestTimeToIdleRefreshedByReads(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTI: 10 * time.Second}

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	require.NoError(t, s.Set("k", []byte("v")))
	for i := 0; i < 5; i++ {
		clock.Advance(9 * time.Second)
		_, ok := getString(t, s, "k")
		require.True(t, ok, "read %d should keep the entry alive", i)
	}

	// Has and Peek do not refresh
	clock.Advance(5 * time.Second)
	assert.True(t, s.Has("k"))
	_, ok, err := s.Peek("k")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(5 * time.Second)
	_, ok = getString(t, s, "k")
	assert.False(t, ok)
}

func TestAccessTimeSurvivesCheckpoint(t *testing.T) {
	dir := t.TempDir()
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTI: 10 * time.Second}

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("k", []byte("v")))
	clock.Advance(8 * time.Second)
	_, ok := getString(t, s, "k")
	require.True(t, ok)
	require.NoError(t, s.Close())

	clock.Advance(8 * time.Second) // 16s after the write, 8s after the read
	s = openStore(t, dir, opts)
	defer s.Close()

	_, ok = getString(t, s, "k")
	assert.True(t, ok, "the read before Close must count")
}

func TestExpiredQueueDefersRemoval(t *testing.T) {
	clock := util.NewManualClock(start)
	queue := make(chan string, 1)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTL: time.Second}
	opts.ExpiredQueue = queue

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))
	clock.Advance(time.Second)

	_, ok := getString(t, s, "a")
	assert.False(t, ok)
	_, ok = getString(t, s, "b")
	assert.False(t, ok, "a full queue must not block the read")

	assert.Equal(t, "a", <-queue)
	assert.Equal(t, 2, s.Len(), "removal is left to the queue consumer")
	assert.ElementsMatch(t, []string{"a", "b"}, s.ExpiredKeys(0))

	removed, err := s.RemoveExpired("a")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, s.Len())

	// a live entry is left alone
	require.NoError(t, s.Set("c", []byte("3")))
	removed, err = s.RemoveExpired("c")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRangeSkipsExpired(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTL: time.Minute}

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	require.NoError(t, s.Set("old", []byte("1")))
	clock.Advance(30 * time.Second)
	require.NoError(t, s.Set("new", []byte("2")))
	clock.Advance(30 * time.Second)

	var keys []string
	s.Range(func(key string) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"new"}, keys)
}

// --------------------------------------------------------------------------
// Compaction
// --------------------------------------------------------------------------

func TestCompactKeepsLiveEntries(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)

	s := openStore(t, dir, opts)
	for round := 0; round < 5; round++ {
		for i := 0; i < 50; i++ {
			require.NoError(t, s.Set(fmt.Sprintf("k%d", i), []byte(fmt.Sprintf("v%d-%d", i, round))))
		}
	}
	for i := 0; i < 10; i++ {
		_, err := s.Delete(fmt.Sprintf("k%d", i))
		require.NoError(t, err)
	}

	before := s.Stats()
	require.Greater(t, before.DeadBytes, int64(0))

	require.NoError(t, s.Compact())

	after := s.Stats()
	assert.Equal(t, int64(0), after.DeadBytes)
	assert.Equal(t, after.LiveBytes+logHeaderSize, after.LogBytes)
	assert.NotEqual(t, before.Generation, after.Generation)
	assert.Equal(t, uint64(1), after.Compactions)

	for i := 10; i < 50; i++ {
		v, ok := getString(t, s, fmt.Sprintf("k%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("v%d-4", i), v)
	}
	require.NoError(t, s.Close())

	// the compacted log and its checkpoint reopen cleanly
	s = openStore(t, dir, opts)
	defer s.Close()
	assert.Equal(t, uint64(0), s.Stats().FullScans)
	assert.Equal(t, 40, s.Len())
	assert.False(t, s.Has("k0"))
}

func TestFailedCompactionKeepsExpiredEntriesAccounted(t *testing.T) {
	clock := util.NewManualClock(start)
	opts := testOptions(clock)
	opts.Expiry = policy.Expiry{TTL: time.Minute}
	dir := t.TempDir()

	var removed []string
	opts.OnRemove = func(key string, _ RemovalCause) { removed = append(removed, key) }

	s := openStore(t, dir, opts)
	defer s.Close()

	require.NoError(t, s.Set("old", []byte("1")))
	clock.Advance(45 * time.Second)
	require.NoError(t, s.Set("new", []byte("2")))
	clock.Advance(30 * time.Second)

	// a directory in place of the compaction file makes the rewrite fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, compactFile), 0o755))

	before := s.Stats()
	require.Error(t, s.Compact())

	after := s.Stats()
	assert.Equal(t, before.LiveBytes, after.LiveBytes)
	assert.Equal(t, before.DeadBytes, after.DeadBytes)
	assert.Equal(t, after.LogBytes, after.LiveBytes+after.DeadBytes+logHeaderSize)
	assert.Equal(t, uint64(0), after.Expirations)
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, removed)

	require.NoError(t, os.Remove(filepath.Join(dir, compactFile)))
	require.NoError(t, s.Compact())

	after = s.Stats()
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(1), after.Expirations)
	assert.Equal(t, int64(0), after.DeadBytes)
	assert.Equal(t, after.LogBytes, after.LiveBytes+logHeaderSize)
	assert.Equal(t, []string{"old"}, removed)
}

func TestAutomaticCompaction(t *testing.T) {
	opts := testOptions(nil)
	opts.CompactMinBytes = 4096

	s := openStore(t, t.TempDir(), opts)
	defer s.Close()

	value := make([]byte, 100)
	for i := 0; i < 200; i++ {
		require.NoError(t, s.Set("same-key", value))
	}

	stats := s.Stats()
	assert.GreaterOrEqual(t, stats.Compactions, uint64(1))
	assert.LessOrEqual(t, stats.DeadBytes, opts.CompactMinBytes+stats.LiveBytes)
	assert.True(t, s.Has("same-key"))
}

func TestClearPersists(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(nil)

	s := openStore(t, dir, opts)
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Set("b", []byte("2")))
	require.NoError(t, s.Close())

	s = openStore(t, dir, opts)
	defer s.Close()
	assert.False(t, s.Has("a"))
	assert.True(t, s.Has("b"))
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func TestOperationsAfterClose(t *testing.T) {
	s := openStore(t, t.TempDir(), testOptions(nil))
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	assert.ErrorIs(t, s.Set("a", []byte("1")), ErrClosed)
	_, _, err := s.Get("a")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Delete("a")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Compact(), ErrClosed)
	assert.False(t, s.Has("a"))
}

func TestInvalidOptions(t *testing.T) {
	opts := testOptions(nil)
	opts.MaxBytes = 0
	_, err := Open(t.TempDir(), opts)
	assert.Error(t, err)

	opts = testOptions(nil)
	opts.Expiry = policy.Expiry{TTL: -time.Second}
	_, err = Open(t.TempDir(), opts)
	assert.Error(t, err)
}
