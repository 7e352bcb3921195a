package util

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a random seed, used for hash distribution and log generations
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fall back to the current time, only if the system source is broken
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NextPowerOfTwo returns the smallest power of two >= n (and at least 1)
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// UintKey is the digest of an encoded key
type UintKey uint64

// HashKey returns the digest of an encoded key mixed with a seed.
// The digest is used to pick lock stripes, it is never used for equality.
func HashKey(key []byte, seed uint64) UintKey {
	return UintKey(xxhash.Sum64(key) ^ seed)
}

// HashString is HashKey for string keys (no allocation)
func HashString(s string, seed uint64) UintKey {
	return UintKey(xxhash.Sum64String(s) ^ seed)
}

// Stripe maps a digest onto one of n slots. n must be a power of two.
//
// Thread-safety: This function is thread-safe.
func Stripe(key UintKey, n int) int {
	// use the higher bits, the low bits already picked the xsync bucket
	return int((uint64(key) >> 7) & uint64(n-1))
}

// --------------------------------------------------------------------------
// Clocks
// --------------------------------------------------------------------------

// Clock is the time source used for expiry and access tracking
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a clock that only moves when told to. Used in tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
