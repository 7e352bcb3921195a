package disk

import (
	"fmt"

	"github.com/ValentinKolb/fcache/lib/db/util"
	"github.com/ValentinKolb/fcache/lib/policy"
)

// File names inside the cache directory
const (
	logFile      = "data.log"
	compactFile  = "data.log.compact"
	indexFile    = "index.bin"
	indexTmpFile = "index.bin.tmp"
)

const (
	defaultCheckpointEvery = 1024
	defaultCompactMinBytes = 1 << 20 // 1 MiB
)

// RemovalCause tells OnRemove why an entry left the store
type RemovalCause int

const (
	CauseEvicted RemovalCause = iota // capacity bound exceeded
	CauseExpired                     // TTL or TTI elapsed
)

func (c RemovalCause) String() string {
	switch c {
	case CauseEvicted:
		return "Evicted"
	case CauseExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Options configures a Store
type Options struct {
	// MaxBytes bounds the summed record size of all live entries
	MaxBytes int64

	// Expiry decides when entries expire (zero value = never)
	Expiry policy.Expiry

	// Clock is the time source (nil = system clock)
	Clock util.Clock

	// SyncWrites fsyncs the log after every append
	SyncWrites bool

	// CheckpointEvery writes index.bin after this many appends (0 = default, <0 = only on Close and compaction)
	CheckpointEvery int

	// CompactMinBytes is the dead byte count below which compaction never runs (0 = default)
	CompactMinBytes int64

	// OnRemove is called whenever an entry is evicted or expired, with the store lock
	// held. It must not call back into the Store.
	OnRemove func(key string, cause RemovalCause)

	// ExpiredQueue receives the keys of expired entries found by reads. When it is
	// nil, expired entries are removed inline. Sends never block, a full queue
	// drops the key and the entry stays until RemoveExpired or the next read.
	ExpiredQueue chan<- string
}

// DefaultOptions returns options with a 256 MiB bound and synced writes
func DefaultOptions() Options {
	return Options{
		MaxBytes:        256 << 20,
		SyncWrites:      true,
		CheckpointEvery: defaultCheckpointEvery,
		CompactMinBytes: defaultCompactMinBytes,
	}
}

// normalize validates the options and fills in defaults
func (o Options) normalize() (Options, error) {
	if o.MaxBytes <= 0 {
		return o, fmt.Errorf("max bytes must be positive, got %d", o.MaxBytes)
	}
	if err := o.Expiry.Validate(); err != nil {
		return o, err
	}
	if o.Clock == nil {
		o.Clock = util.SystemClock{}
	}
	if o.CheckpointEvery == 0 {
		o.CheckpointEvery = defaultCheckpointEvery
	}
	if o.CompactMinBytes <= 0 {
		o.CompactMinBytes = defaultCompactMinBytes
	}
	return o, nil
}
