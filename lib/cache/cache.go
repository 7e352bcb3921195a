package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/fcache/lib/codec"
	"github.com/ValentinKolb/fcache/lib/db/engines/disk"
	"github.com/ValentinKolb/fcache/lib/db/engines/heap"
	"github.com/ValentinKolb/fcache/lib/db/util"
	"github.com/ValentinKolb/fcache/lib/lockmgr"
	"github.com/ValentinKolb/fcache/lib/tempdir"
	"github.com/hashicorp/go-multierror"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("cache")

// expiredQueueSize is the capacity of the channel between the disk tier and the reaper
const expiredQueueSize = 1024

// --------------------------------------------------------------------------
// Core cache structure
// --------------------------------------------------------------------------

// Cache is a two-tier key-value cache. Every entry lives in the disk tier,
// the encoded values of the most recently used entries are also kept in the heap tier.
//
// Operations on the same key are serialized by a striped lock, operations on
// different keys run in parallel. The heap tier is only read after the disk
// tier confirmed the entry is live, so an evicted or expired entry is never
// served from memory.
//
// Thread-safety: all methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	dir    string
	cfg    Config
	keys   codec.Codec[K]
	values codec.Codec[V]

	// lifecycle is held shared by every operation and exclusively by Clear and Close
	lifecycle sync.RWMutex
	closed    atomic.Bool

	stripes []sync.Mutex
	seed    uint64

	heap *heap.Store
	disk *disk.Store

	locks   lockmgr.ILockManager
	ownerID []byte

	metrics *cacheMetrics

	expired    chan string
	stopReaper context.CancelFunc
	reaperWG   sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// Open opens or creates the cache stored in dir.
//
// The directory is locked for the lifetime of the cache, a second Open of the
// same directory fails with ErrLockContention once cfg.LockTimeout passed.
// Entries written by a previous cache are recovered, including their access
// times when a checkpoint exists.
func Open[K comparable, V any](dir string, cfg Config, keyCodec codec.Codec[K], valueCodec codec.Codec[V]) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keyCodec == nil || valueCodec == nil {
		return nil, NewError(RetCConfiguration, "key and value codec are required", nil)
	}
	if dir == "" {
		return nil, NewError(RetCConfiguration, "directory is required", nil)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewError(RetCConfiguration, "cannot create directory", err)
	}
	if info, err := os.Stat(dir); err != nil {
		return nil, NewError(RetCConfiguration, "cannot stat directory", err)
	} else if !info.IsDir() {
		return nil, NewError(RetCConfiguration, fmt.Sprintf("%s is not a directory", dir), nil)
	}

	c := &Cache[K, V]{
		dir:     dir,
		cfg:     cfg,
		keys:    keyCodec,
		values:  valueCodec,
		stripes: make([]sync.Mutex, util.NextPowerOfTwo(16*runtime.NumCPU())),
		seed:    util.GenerateSeed(),
		locks:   lockmgr.NewLockManager(),
	}

	ok, ownerID, err := c.locks.AcquireLock(dir, cfg.LockTimeout)
	if err != nil {
		return nil, NewError(RetCConfiguration, "cannot lock directory", err)
	}
	if !ok {
		return nil, NewError(RetCLockContention, fmt.Sprintf("%s is locked by another cache", dir), nil)
	}
	c.ownerID = ownerID

	// the heap tier must exist before the disk tier, recovery may already evict
	if c.heap, err = heap.New(cfg.MaxHeapEntries); err != nil {
		c.releaseLock()
		return nil, NewError(RetCConfiguration, "cannot create heap tier", err)
	}

	opts := disk.DefaultOptions()
	opts.MaxBytes = cfg.MaxDiskBytes
	opts.Expiry = cfg.expiry()
	opts.Clock = cfg.Clock
	opts.SyncWrites = cfg.SyncWrites
	opts.CheckpointEvery = cfg.CheckpointEvery
	opts.OnRemove = c.onRemove
	if cfg.ReapInterval > 0 {
		c.expired = make(chan string, expiredQueueSize)
		opts.ExpiredQueue = c.expired
	}

	if c.disk, err = disk.Open(dir, opts); err != nil {
		c.releaseLock()
		if errors.Is(err, disk.ErrCorrupt) {
			return nil, NewError(RetCCorruptStore, "cannot recover disk tier", err)
		}
		return nil, NewError(RetCCacheLoad, "cannot open disk tier", err)
	}

	c.metrics = newCacheMetrics(cfg.MetricsPrefix, c.heap, c.disk)

	if cfg.ReapInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.stopReaper = cancel
		c.reaperWG.Add(1)
		go c.reap(ctx)
	}

	log.Infof("opened cache in %s with %d entries", dir, c.disk.Len())
	return c, nil
}

// OpenTemp opens the cache stored in the subdirectory id of the system temp
// directory. id must be 1 to 20 ASCII letters, digits or underscores.
func OpenTemp[K comparable, V any](id string, cfg Config, keyCodec codec.Codec[K], valueCodec codec.Codec[V]) (*Cache[K, V], error) {
	dir, err := tempdir.ToTempSubdir(id)
	if err != nil {
		return nil, NewError(RetCConfiguration, "invalid temp directory id", err)
	}
	return Open(dir, cfg, keyCodec, valueCodec)
}

// Close stops the reaper, writes a final checkpoint and releases the
// directory lock. Every call returns only after the first one finished and
// reports its result.
func (c *Cache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.close()
	})
	return c.closeErr
}

func (c *Cache[K, V]) close() error {
	// waits for in-flight operations
	c.lifecycle.Lock()
	c.closed.Store(true)
	c.lifecycle.Unlock()

	if c.stopReaper != nil {
		c.stopReaper()
		c.reaperWG.Wait()
	}

	var result *multierror.Error
	if err := c.disk.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.heap.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.releaseLock(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Errorf("closing cache in %s: %v", c.dir, err)
		return NewError(RetCCacheWrite, "close failed", err)
	}
	log.Infof("closed cache in %s", c.dir)
	return nil
}

// Dir returns the directory of the cache
func (c *Cache[K, V]) Dir() string {
	return c.dir
}

// Config returns the configuration the cache was opened with
func (c *Cache[K, V]) Config() Config {
	return c.cfg
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

func (c *Cache[K, V]) releaseLock() error {
	ok, err := c.locks.ReleaseLock(c.dir, c.ownerID)
	if err != nil {
		return fmt.Errorf("releasing directory lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("releasing directory lock: owner mismatch")
	}
	return nil
}

// enter guards an operation against a concurrent Close. Every successful
// enter must be paired with leave.
func (c *Cache[K, V]) enter() error {
	c.lifecycle.RLock()
	if c.closed.Load() {
		c.lifecycle.RUnlock()
		return ErrClosed
	}
	return nil
}

func (c *Cache[K, V]) leave() {
	c.lifecycle.RUnlock()
}

// stripe returns the lock serializing all operations on the encoded key
func (c *Cache[K, V]) stripe(encKey string) *sync.Mutex {
	return &c.stripes[util.Stripe(util.HashString(encKey, c.seed), len(c.stripes))]
}

// onRemove is called by the disk tier with its lock held
func (c *Cache[K, V]) onRemove(key string, cause disk.RemovalCause) {
	_, _ = c.heap.Delete(key)
	log.Debugf("removed %q from cache in %s (%s)", key, c.dir, cause)
}

func (c *Cache[K, V]) encodeKey(key K) (string, error) {
	b, err := c.keys.Encode(key)
	if err != nil {
		return "", NewError(RetCKeyRejected, "cannot encode key", err)
	}
	if len(b) == 0 {
		return "", NewError(RetCKeyRejected, "key encodes to zero bytes", nil)
	}
	return string(b), nil
}

func (c *Cache[K, V]) encodeValue(value V) ([]byte, error) {
	b, err := c.values.Encode(value)
	if err != nil {
		return nil, NewError(RetCCacheWrite, "cannot encode value", err)
	}
	return b, nil
}

func (c *Cache[K, V]) decodeValue(b []byte) (V, error) {
	v, err := c.values.Decode(b)
	if err != nil {
		var zero V
		return zero, NewError(RetCCacheLoad, "cannot decode value", err)
	}
	return v, nil
}

func loadErr(err error) error {
	if errors.Is(err, disk.ErrClosed) {
		return ErrClosed
	}
	return NewError(RetCCacheLoad, "disk tier read failed", err)
}

func writeErr(err error) error {
	if errors.Is(err, disk.ErrClosed) {
		return ErrClosed
	}
	return NewError(RetCCacheWrite, "disk tier write failed", err)
}

// --------------------------------------------------------------------------
// Per-key primitives (caller holds the stripe of encKey)
// --------------------------------------------------------------------------

// getLocked returns the encoded value of encKey and refreshes its access time.
// The disk tier is asked first, so a heap copy is only served for live entries.
func (c *Cache[K, V]) getLocked(encKey string) ([]byte, bool, error) {
	live, err := c.disk.Touch(encKey)
	if err != nil {
		return nil, false, loadErr(err)
	}
	if !live {
		_, _ = c.heap.Delete(encKey)
		c.metrics.misses.Inc()
		return nil, false, nil
	}

	if v, ok, _ := c.heap.Get(encKey); ok {
		c.metrics.heapHits.Inc()
		return v, true, nil
	}

	v, ok, err := c.disk.Peek(encKey)
	if err != nil {
		return nil, false, loadErr(err)
	}
	if !ok {
		c.metrics.misses.Inc()
		return nil, false, nil
	}
	c.metrics.diskHits.Inc()
	_ = c.heap.Set(encKey, v)
	return v, true, nil
}

// putLocked writes through to the disk tier and then refreshes the heap copy
func (c *Cache[K, V]) putLocked(encKey string, encValue []byte) error {
	if err := c.disk.Set(encKey, encValue); err != nil {
		return writeErr(err)
	}
	_ = c.heap.Set(encKey, encValue)
	c.metrics.writes.Inc()
	return nil
}

func (c *Cache[K, V]) removeLocked(encKey string) (bool, error) {
	existed, err := c.disk.Delete(encKey)
	if err != nil {
		return false, writeErr(err)
	}
	_, _ = c.heap.Delete(encKey)
	if existed {
		c.metrics.removals.Inc()
	}
	return existed, nil
}

// withKey encodes key, takes its stripe and runs fn. The cache must have been entered.
func (c *Cache[K, V]) withKey(key K, fn func(encKey string) error) error {
	encKey, err := c.encodeKey(key)
	if err != nil {
		return err
	}
	mu := c.stripe(encKey)
	mu.Lock()
	defer mu.Unlock()
	return fn(encKey)
}
