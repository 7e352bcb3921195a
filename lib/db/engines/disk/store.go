package disk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/fcache/lib/db/util"
	"github.com/ValentinKolb/fcache/lib/policy"
	"github.com/hashicorp/go-multierror"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger("disk")

// --------------------------------------------------------------------------
// Core disk store structure
// --------------------------------------------------------------------------

// Store is the durable tier: an append-only log of records plus an in-memory
// index of the live ones.
//
// All structural state (log file, sequence numbers, eviction order, byte totals)
// is guarded by mu. The index itself is an xsync.MapOf so Has, Len and Range can
// run without taking mu.
type Store struct {
	dir  string
	opts Options

	mu         sync.Mutex
	closed     atomic.Bool
	file       *os.File
	logSize    int64  // bytes of data.log that hold valid records
	generation uint64 // identifies the current data.log incarnation
	nextSeq    uint64

	index *xsync.MapOf[string, indexEntry]
	bySeq map[uint64]string
	order *policy.AccessOrder

	liveBytes              int64 // summed size of the records of live entries
	deadBytes              int64 // superseded records and tombstones
	appendsSinceCheckpoint int

	stats counters
}

type counters struct {
	evictions      atomic.Uint64
	expirations    atomic.Uint64
	compactions    atomic.Uint64
	checkpoints    atomic.Uint64
	fullScans      atomic.Uint64
	truncatedBytes atomic.Uint64
}

// --------------------------------------------------------------------------
// Initialization and Recovery
// --------------------------------------------------------------------------

// Open opens or creates the store inside dir. The directory must exist and must
// be locked by the caller for the lifetime of the Store.
//
// A missing, damaged or outdated index.bin is not an error: the index is rebuilt
// by scanning the whole log. A torn record at the end of the log is cut off.
// A log too short to hold more than an unfinished header starts empty, any
// other damaged log header fails with ErrCorrupt.
//
// Thread-safety: the returned Store is safe for concurrent use.
func Open(dir string, opts Options) (*Store, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:   dir,
		opts:  opts,
		index: xsync.NewMapOf[string, indexEntry](),
		bySeq: make(map[uint64]string),
		order: policy.NewAccessOrder(),
	}

	// leftovers of an interrupted compaction or checkpoint
	_ = os.Remove(filepath.Join(dir, compactFile))
	_ = os.Remove(filepath.Join(dir, indexTmpFile))

	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	s.file = f

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recoverLocked(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) recoverLocked() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	s.nextSeq = 1

	// a crash while the first header was written leaves a log that cannot
	// hold a single record, there is nothing to recover
	if size > 0 && size <= logHeaderSize {
		torn, err := s.tornHeaderLocked(size)
		if err != nil {
			return err
		}
		if torn {
			log.Warningf("log header in %s was never completed (%d bytes), starting empty", s.dir, size)
			if err := s.file.Truncate(0); err != nil {
				return err
			}
			s.stats.truncatedBytes.Add(uint64(size))
			size = 0
		}
	}

	// fresh store
	if size == 0 {
		s.generation = newGeneration()
		if _, err := s.file.WriteAt(encodeLogHeader(s.generation), 0); err != nil {
			return err
		}
		if err := s.file.Sync(); err != nil {
			return err
		}
		s.logSize = logHeaderSize
		// an index.bin without its log belongs to nothing
		_ = os.Remove(filepath.Join(s.dir, indexFile))
		return nil
	}

	header := make([]byte, logHeaderSize)
	if _, err := s.file.ReadAt(header, 0); err != nil {
		return fmt.Errorf("%w: cannot read log header: %v", ErrCorrupt, err)
	}
	if s.generation, err = decodeLogHeader(header); err != nil {
		return err
	}

	from := int64(logHeaderSize)
	cp, err := readCheckpoint(s.dir)
	switch {
	case errors.Is(err, errNoCheckpoint):
		log.Infof("no index checkpoint in %s, scanning log", s.dir)
	case err != nil:
		log.Warningf("index checkpoint unusable (%v), rebuilding from log", err)
	case cp.generation != s.generation:
		log.Warningf("index checkpoint belongs to another log generation, rebuilding from log")
	case cp.logSize < int64(logHeaderSize) || cp.logSize > size:
		log.Warningf("index checkpoint covers %d bytes but log has %d, rebuilding from log", cp.logSize, size)
	default:
		if err := s.applyCheckpointLocked(cp); err != nil {
			log.Warningf("index checkpoint inconsistent (%v), rebuilding from log", err)
			s.resetLocked()
		} else {
			from = cp.logSize
		}
	}
	if from == logHeaderSize {
		s.stats.fullScans.Add(1)
	}

	end, err := s.scanLocked(from, size)
	if err != nil {
		return err
	}
	if end < size {
		log.Warningf("truncating %d bytes of torn records at offset %d", size-end, end)
		if err := s.file.Truncate(end); err != nil {
			return err
		}
		s.stats.truncatedBytes.Add(uint64(size - end))
	}

	s.logSize = end
	s.deadBytes = s.logSize - logHeaderSize - s.liveBytes

	// the bound may have shrunk since the last run
	s.enforceBoundLocked(0)

	log.Infof("opened %s: %d entries, %d live bytes, %d dead bytes", s.dir, s.index.Size(), s.liveBytes, s.deadBytes)
	return nil
}

// tornHeaderLocked reports whether a log of at most logHeaderSize bytes is the
// remains of an interrupted header write: shorter than a header, or a full
// header length of zeros.
func (s *Store) tornHeaderLocked(size int64) (bool, error) {
	if size < logHeaderSize {
		return true, nil
	}
	header := make([]byte, logHeaderSize)
	if _, err := s.file.ReadAt(header, 0); err != nil {
		return false, err
	}
	for _, b := range header {
		if b != 0 {
			return false, nil
		}
	}
	return true, nil
}

// applyCheckpointLocked loads the entries of a checkpoint into the empty index
func (s *Store) applyCheckpointLocked(cp checkpoint) error {
	for i, e := range cp.entries {
		if e.offset < logHeaderSize || e.offset+e.size > cp.logSize || e.size < recordHeaderSize {
			return fmt.Errorf("entry %d points outside the log", i)
		}
		if e.seq >= cp.nextSeq {
			return fmt.Errorf("entry %d has sequence %d beyond %d", i, e.seq, cp.nextSeq)
		}
		s.insertLocked(cp.keys[i], e)
	}
	s.nextSeq = cp.nextSeq
	return nil
}

// scanLocked replays the records in [from, size) and returns the end of the last
// intact record
func (s *Store) scanLocked(from, size int64) (int64, error) {
	r := bufio.NewReaderSize(io.NewSectionReader(s.file, from, size-from), 1024*1024) // 1 MB buffer
	pos := from
	for {
		rec, n, err := readRecord(r, size-pos)
		if err == io.EOF || errors.Is(err, errTornRecord) {
			return pos, nil
		}
		if err != nil {
			return pos, fmt.Errorf("reading log at offset %d: %w", pos, err)
		}
		s.replayLocked(rec, pos, n)
		pos += n
	}
}

// replayLocked applies one log record to the in-memory state
func (s *Store) replayLocked(rec record, offset, size int64) {
	if rec.seq >= s.nextSeq {
		s.nextSeq = rec.seq + 1
	}

	key := string(rec.key)
	if old, ok := s.index.Load(key); ok {
		if old.seq > rec.seq {
			return
		}
		s.dropLocked(key, old)
	}

	if rec.kind == kindPut {
		s.insertLocked(key, indexEntry{
			offset:     offset,
			size:       size,
			seq:        rec.seq,
			insertedAt: rec.insertedAt,
			lastAccess: rec.lastAccess,
		})
	}
}

func (s *Store) resetLocked() {
	s.index.Clear()
	clear(s.bySeq)
	s.order.Reset()
	s.liveBytes = 0
	s.nextSeq = 1
}

// newGeneration returns a random, non-zero log generation
func newGeneration() uint64 {
	return util.GenerateSeed() | 1
}

// --------------------------------------------------------------------------
// In-memory State Helpers (mu must be held)
// --------------------------------------------------------------------------

func (s *Store) insertLocked(key string, e indexEntry) {
	s.index.Store(key, e)
	s.bySeq[e.seq] = key
	s.order.Touch(e.seq, fromNanos(e.lastAccess))
	s.liveBytes += e.size
}

func (s *Store) dropLocked(key string, e indexEntry) {
	s.index.Delete(key)
	delete(s.bySeq, e.seq)
	s.order.Remove(e.seq)
	s.liveBytes -= e.size
}

func (s *Store) expired(e indexEntry) bool {
	if !s.opts.Expiry.Enabled() {
		return false
	}
	return s.opts.Expiry.Expired(fromNanos(e.insertedAt), fromNanos(e.lastAccess), s.opts.Clock.Now())
}

// appendLocked writes buf at the end of the log. On failure the log is cut back
// to its previous size, so a failed write leaves no trace.
func (s *Store) appendLocked(buf []byte) (int64, error) {
	offset := s.logSize
	if _, err := s.file.WriteAt(buf, offset); err != nil {
		s.rollbackLocked(offset)
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if s.opts.SyncWrites {
		if err := s.file.Sync(); err != nil {
			s.rollbackLocked(offset)
			return 0, fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	s.logSize += int64(len(buf))
	s.appendsSinceCheckpoint++
	return offset, nil
}

func (s *Store) rollbackLocked(size int64) {
	if err := s.file.Truncate(size); err != nil {
		log.Errorf("failed to roll back log to %d bytes: %v", size, err)
	}
}

// appendTombstoneLocked records the removal of key in the log
func (s *Store) appendTombstoneLocked(key string) error {
	now := toNanos(s.opts.Clock.Now())
	rec := record{kind: kindTombstone, seq: s.nextSeq, insertedAt: now, lastAccess: now, key: []byte(key)}
	if _, err := s.appendLocked(rec.encode()); err != nil {
		return err
	}
	s.nextSeq++
	s.deadBytes += rec.size()
	return nil
}

// removeLocked drops an entry that leaves the store on its own (eviction or expiry).
// These removals never fail: a tombstone that cannot be written is logged, the
// entry is dropped from memory regardless.
func (s *Store) removeLocked(key string, e indexEntry, cause RemovalCause) {
	if err := s.appendTombstoneLocked(key); err != nil {
		log.Warningf("failed to write tombstone for %s entry: %v", cause, err)
	}
	s.dropLocked(key, e)
	s.deadBytes += e.size

	switch cause {
	case CauseEvicted:
		s.stats.evictions.Add(1)
	case CauseExpired:
		s.stats.expirations.Add(1)
	}
	log.Debugf("%s %q (%d bytes)", cause, key, e.size)

	if s.opts.OnRemove != nil {
		s.opts.OnRemove(key, cause)
	}
}

// enforceBoundLocked evicts the least recently accessed entries until the live
// bytes fit the bound. The entry with sequence keep is never evicted.
func (s *Store) enforceBoundLocked(keep uint64) {
	for s.liveBytes > s.opts.MaxBytes {
		seq, ok := s.order.OldestExcept(keep)
		if !ok {
			return
		}
		key := s.bySeq[seq]
		e, _ := s.index.Load(key)
		s.removeLocked(key, e, CauseEvicted)
	}
}

// expireLocked handles an entry a read found expired
func (s *Store) expireLocked(key string, e indexEntry) {
	if s.opts.ExpiredQueue != nil {
		select {
		case s.opts.ExpiredQueue <- key:
		default:
		}
		return
	}
	s.removeLocked(key, e, CauseExpired)
	s.maintainLocked()
}

// maintainLocked runs compaction or a checkpoint when they are due
func (s *Store) maintainLocked() {
	if s.deadBytes > s.opts.CompactMinBytes && s.deadBytes > s.liveBytes {
		if err := s.compactLocked(); err != nil {
			log.Warningf("compaction failed: %v", err)
		}
		return
	}
	if s.opts.CheckpointEvery > 0 && s.appendsSinceCheckpoint >= s.opts.CheckpointEvery {
		if err := s.checkpointLocked(); err != nil {
			log.Warningf("index checkpoint failed: %v", err)
		}
	}
}

// lookupLocked returns the live entry for key. Expired entries are handed to
// expireLocked and reported absent. With touch set, the access time is refreshed.
func (s *Store) lookupLocked(key string, touch bool) (indexEntry, bool) {
	e, ok := s.index.Load(key)
	if !ok {
		return indexEntry{}, false
	}
	if s.expired(e) {
		s.expireLocked(key, e)
		return indexEntry{}, false
	}
	if touch {
		now := s.opts.Clock.Now()
		e.lastAccess = toNanos(now)
		s.index.Store(key, e)
		s.order.Touch(e.seq, now)
	}
	return e, true
}

// readValueLocked reads and verifies the record of e
func (s *Store) readValueLocked(key string, e indexEntry) ([]byte, error) {
	buf := make([]byte, e.size)
	if _, err := s.file.ReadAt(buf, e.offset); err != nil {
		return nil, fmt.Errorf("%w: offset %d: %v", ErrRead, e.offset, err)
	}
	rec, err := decodeRecord(buf)
	if err != nil || rec.kind != kindPut || string(rec.key) != key {
		return nil, fmt.Errorf("%w: record at offset %d is damaged", ErrRead, e.offset)
	}
	return rec.value, nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods - Write Operations (docu see db.KVDB)
// --------------------------------------------------------------------------

// Set appends a record for key and makes it the current one. It may evict other
// entries to stay within MaxBytes, never the one just written.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}

	size := recordSize(len(key), len(value))
	if size > s.opts.MaxBytes {
		return fmt.Errorf("%w: %d bytes, capacity is %d", ErrTooLarge, size, s.opts.MaxBytes)
	}

	now := toNanos(s.opts.Clock.Now())
	rec := record{kind: kindPut, seq: s.nextSeq, insertedAt: now, lastAccess: now, key: []byte(key), value: value}
	offset, err := s.appendLocked(rec.encode())
	if err != nil {
		return err
	}
	s.nextSeq++

	if old, ok := s.index.Load(key); ok {
		s.dropLocked(key, old)
		s.deadBytes += old.size
	}
	s.insertLocked(key, indexEntry{offset: offset, size: size, seq: rec.seq, insertedAt: now, lastAccess: now})

	s.enforceBoundLocked(rec.seq)
	s.maintainLocked()
	return nil
}

// Delete appends a tombstone for key. It reports whether a live (unexpired)
// entry was removed. If the tombstone cannot be written the entry stays.
func (s *Store) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false, ErrClosed
	}

	e, ok := s.index.Load(key)
	if !ok {
		return false, nil
	}
	if err := s.appendTombstoneLocked(key); err != nil {
		return false, err
	}
	live := !s.expired(e)
	s.dropLocked(key, e)
	s.deadBytes += e.size

	s.maintainLocked()
	return live, nil
}

// Clear replaces the log with an empty one of a new generation
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}

	if err := s.rewriteLocked(nil); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	s.resetLocked()
	if err := s.checkpointLocked(); err != nil {
		log.Warningf("index checkpoint after clear failed: %v", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods - Query Operations (docu see db.KVDB)
// --------------------------------------------------------------------------

// Get returns the value of key and refreshes its access time
func (s *Store) Get(key string) ([]byte, bool, error) {
	return s.read(key, true)
}

// Peek returns the value of key without refreshing its access time
func (s *Store) Peek(key string) ([]byte, bool, error) {
	return s.read(key, false)
}

func (s *Store) read(key string, touch bool) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, false, ErrClosed
	}

	e, ok := s.lookupLocked(key, touch)
	if !ok {
		return nil, false, nil
	}
	value, err := s.readValueLocked(key, e)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Touch refreshes the access time of key without reading its value.
// It reports whether key holds a live entry.
func (s *Store) Touch(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false, ErrClosed
	}
	_, ok := s.lookupLocked(key, true)
	return ok, nil
}

// Has reports whether key holds a live entry. It takes no lock and never
// changes access times.
func (s *Store) Has(key string) bool {
	if s.closed.Load() {
		return false
	}
	e, ok := s.index.Load(key)
	return ok && !s.expired(e)
}

// Len returns the number of indexed entries, including expired entries that
// were not removed yet.
func (s *Store) Len() int {
	return s.index.Size()
}

// Range visits the keys of all unexpired entries in no particular order.
// fn may call back into the Store.
func (s *Store) Range(fn func(key string) bool) {
	if s.closed.Load() {
		return
	}
	s.index.Range(func(key string, e indexEntry) bool {
		if s.expired(e) {
			return true
		}
		return fn(key)
	})
}

// --------------------------------------------------------------------------
// Expiry
// --------------------------------------------------------------------------

// ExpiredKeys returns up to limit keys of entries that are expired but still
// indexed (limit <= 0 = no limit). It takes no lock.
func (s *Store) ExpiredKeys(limit int) []string {
	var keys []string
	s.index.Range(func(key string, e indexEntry) bool {
		if s.expired(e) {
			keys = append(keys, key)
		}
		return limit <= 0 || len(keys) < limit
	})
	return keys
}

// RemoveExpired removes key if its entry is expired and reports whether it did
func (s *Store) RemoveExpired(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false, ErrClosed
	}

	e, ok := s.index.Load(key)
	if !ok || !s.expired(e) {
		return false, nil
	}
	s.removeLocked(key, e, CauseExpired)
	s.maintainLocked()
	return true, nil
}

// --------------------------------------------------------------------------
// Compaction and Checkpoints
// --------------------------------------------------------------------------

// Compact rewrites the log so it only holds the records of live entries
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}
	return s.compactLocked()
}

func (s *Store) compactLocked() error {
	// oldest records first, so the new log keeps the write order
	seqs := make([]uint64, 0, len(s.bySeq))
	for seq := range s.bySeq {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)

	keys := make([]string, 0, len(seqs))
	var expired []string
	for _, seq := range seqs {
		key := s.bySeq[seq]
		e, _ := s.index.Load(key)
		if s.expired(e) {
			// the new log simply does not contain it
			expired = append(expired, key)
			continue
		}
		keys = append(keys, key)
	}

	before := s.logSize
	if err := s.rewriteLocked(keys); err != nil {
		// the old log is still in place, expired entries stay indexed
		return err
	}

	for _, key := range expired {
		e, _ := s.index.Load(key)
		s.dropLocked(key, e)
		s.stats.expirations.Add(1)
		if s.opts.OnRemove != nil {
			s.opts.OnRemove(key, CauseExpired)
		}
	}
	s.stats.compactions.Add(1)
	log.Infof("compacted %s from %d to %d bytes", s.dir, before, s.logSize)

	return s.checkpointLocked()
}

// rewriteLocked writes the records of keys into a new log of a fresh generation
// and swaps it in. Entries whose record cannot be read are dropped.
func (s *Store) rewriteLocked(keys []string) error {
	path := filepath.Join(s.dir, compactFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}

	generation := newGeneration()
	bw := bufio.NewWriterSize(f, 1024*1024) // 1 MB buffer
	if _, err := bw.Write(encodeLogHeader(generation)); err != nil {
		return fail(err)
	}

	pos := int64(logHeaderSize)
	moved := make([]indexEntry, 0, len(keys))
	kept := make([]string, 0, len(keys))
	var damaged []string
	for _, key := range keys {
		e, _ := s.index.Load(key)
		value, err := s.readValueLocked(key, e)
		if err != nil {
			log.Warningf("dropping unreadable entry %q during compaction: %v", key, err)
			damaged = append(damaged, key)
			continue
		}

		// the record carries the current access time, so it survives a full scan
		rec := record{kind: kindPut, seq: e.seq, insertedAt: e.insertedAt, lastAccess: e.lastAccess, key: []byte(key), value: value}
		buf := rec.encode()
		if _, err := bw.Write(buf); err != nil {
			return fail(err)
		}
		e.offset = pos
		pos += int64(len(buf))
		moved = append(moved, e)
		kept = append(kept, key)
	}

	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := os.Rename(path, filepath.Join(s.dir, logFile)); err != nil {
		return fail(err)
	}
	if err := syncDir(s.dir); err != nil {
		log.Warningf("failed to sync %s after compaction: %v", s.dir, err)
	}

	if err := s.file.Close(); err != nil {
		log.Warningf("failed to close replaced log: %v", err)
	}
	s.file = f
	s.generation = generation
	s.logSize = pos
	s.deadBytes = 0

	for _, key := range damaged {
		e, _ := s.index.Load(key)
		s.dropLocked(key, e)
	}
	for i, key := range kept {
		s.index.Store(key, moved[i])
	}
	return nil
}

// Checkpoint writes index.bin so the next Open only replays the log tail
func (s *Store) Checkpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}
	return s.checkpointLocked()
}

func (s *Store) checkpointLocked() error {
	// the checkpoint must not cover log bytes that are not on disk yet
	if !s.opts.SyncWrites {
		if err := s.file.Sync(); err != nil {
			return err
		}
	}

	cp := checkpoint{
		generation: s.generation,
		logSize:    s.logSize,
		nextSeq:    s.nextSeq,
		keys:       make([]string, 0, len(s.bySeq)),
		entries:    make([]indexEntry, 0, len(s.bySeq)),
	}
	s.index.Range(func(key string, e indexEntry) bool {
		cp.keys = append(cp.keys, key)
		cp.entries = append(cp.entries, e)
		return true
	})

	if err := writeCheckpoint(s.dir, cp); err != nil {
		return err
	}
	s.appendsSinceCheckpoint = 0
	s.stats.checkpoints.Add(1)
	return nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Close writes a final checkpoint and closes the log. Calling it again is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil
	}
	s.closed.Store(true)

	var result *multierror.Error
	if err := s.checkpointLocked(); err != nil {
		result = multierror.Append(result, fmt.Errorf("final checkpoint: %w", err))
	}
	if err := s.file.Sync(); err != nil {
		result = multierror.Append(result, fmt.Errorf("sync log: %w", err))
	}
	if err := s.file.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close log: %w", err))
	}
	return result.ErrorOrNil()
}

// Dir returns the directory of the store
func (s *Store) Dir() string {
	return s.dir
}
