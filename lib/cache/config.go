package cache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/fcache/lib/db/util"
	"github.com/ValentinKolb/fcache/lib/policy"
	"github.com/hashicorp/go-multierror"
)

// MaxHeapEntriesCeiling is the largest accepted heap tier bound
const MaxHeapEntriesCeiling = 1 << 24

var metricsPrefixPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// --------------------------------------------------------------------------
// Cache configuration struct
// --------------------------------------------------------------------------

// Config holds the tuning parameters of a Cache.
// Start from DefaultConfig, the zero value does not validate.
type Config struct {
	// MaxHeapEntries bounds the number of values held in memory
	MaxHeapEntries int
	// MaxDiskBytes bounds the summed record size of the disk tier
	MaxDiskBytes int64

	// TimeToLive expires entries this long after their last write (0 = never)
	TimeToLive time.Duration
	// TimeToIdle expires entries this long after their last access (0 = never)
	TimeToIdle time.Duration

	// LockTimeout is how long Open waits for the directory lock
	LockTimeout time.Duration

	// SyncWrites fsyncs the log after every write
	SyncWrites bool
	// CheckpointEvery writes the index after this many appends (<0 = only on close)
	CheckpointEvery int

	// ReapInterval enables the background reaper when > 0
	ReapInterval time.Duration

	// Clock is the time source for expiry (nil = system clock)
	Clock util.Clock

	// MetricsPrefix prefixes all metric names of the cache
	MetricsPrefix string
}

// DefaultConfig returns the configuration used when nothing else is given
func DefaultConfig() Config {
	return Config{
		MaxHeapEntries:  1_000_000,
		MaxDiskBytes:    256 << 20,
		LockTimeout:     5 * time.Second,
		SyncWrites:      true,
		CheckpointEvery: 1024,
		MetricsPrefix:   "fcache",
	}
}

func (c Config) expiry() policy.Expiry {
	return policy.Expiry{TTL: c.TimeToLive, TTI: c.TimeToIdle}
}

// Validate checks all fields and reports every problem at once.
// The returned error matches ErrConfiguration.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.MaxHeapEntries <= 0 || c.MaxHeapEntries > MaxHeapEntriesCeiling {
		result = multierror.Append(result, fmt.Errorf("max heap entries must be in [1, %d], got %d", MaxHeapEntriesCeiling, c.MaxHeapEntries))
	}
	if c.MaxDiskBytes <= 0 {
		result = multierror.Append(result, fmt.Errorf("max disk bytes must be positive, got %d", c.MaxDiskBytes))
	}
	if err := c.expiry().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.LockTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("lock timeout must not be negative, got %s", c.LockTimeout))
	}
	if c.ReapInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("reap interval must not be negative, got %s", c.ReapInterval))
	}
	if !metricsPrefixPattern.MatchString(c.MetricsPrefix) {
		result = multierror.Append(result, fmt.Errorf("metrics prefix %q is not a valid metric name", c.MetricsPrefix))
	}

	if err := result.ErrorOrNil(); err != nil {
		return NewError(RetCConfiguration, "invalid configuration", err)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	durationOrNever := func(d time.Duration) string {
		if d == 0 {
			return "never"
		}
		return d.String()
	}

	addSection("Tiers")
	addField("Max Heap Entries", strconv.Itoa(c.MaxHeapEntries))
	addField("Max Disk Bytes", strconv.FormatInt(c.MaxDiskBytes, 10))

	addSection("Expiry")
	addField("Time To Live", durationOrNever(c.TimeToLive))
	addField("Time To Idle", durationOrNever(c.TimeToIdle))
	if c.ReapInterval > 0 {
		addField("Reap Interval", c.ReapInterval.String())
	} else {
		addField("Reap Interval", "disabled")
	}

	addSection("Durability")
	addField("Sync Writes", strconv.FormatBool(c.SyncWrites))
	addField("Checkpoint Every", strconv.Itoa(c.CheckpointEvery))
	addField("Lock Timeout", c.LockTimeout.String())

	addSection("Metrics")
	addField("Prefix", c.MetricsPrefix)

	return sb.String()
}
