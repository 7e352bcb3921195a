package db

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplHeap Implementation = "heap"
	ImplDisk Implementation = "disk"
)

// Feature represents tier features as bit flags
type Feature uint64

const (
	FeatureSet     Feature = 1 << iota // Support for Set operations
	FeatureGet                         // Support for Get operations
	FeatureHas                         // Support for Has operations
	FeatureDelete                      // Support for Delete operations
	FeatureClear                       // Support for Clear operations
	FeatureRange                       // Support for Range operations
	FeatureExpire                      // Entries can expire (TTL / TTI)
	FeaturePersist                     // Entries survive Close and re-open
	FeatureEvict                       // Entries are evicted when the tier is full
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureHas:
		return "Has"
	case FeatureDelete:
		return "Delete"
	case FeatureClear:
		return "Clear"
	case FeatureRange:
		return "Range"
	case FeatureExpire:
		return "Expire"
	case FeaturePersist:
		return "Persist"
	case FeatureEvict:
		return "Evict"
	default:
		return "Unknown"
	}
}

type DatabaseInfo struct {
	Entries           int            `json:"entries"`
	SizeBytes         int64          `json:"size_bytes"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Tier Interface
// --------------------------------------------------------------------------

// KVDB defines the byte-level interface shared by the cache tiers.
// Keys are the encoded key bytes (as a string), values the encoded value bytes.
// Implementations can vary in their feature support, which can be queried with SupportsFeature.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates the entry for key.
	// If the key already exists, the old value is overwritten.
	// The tier keeps its own copy of value.
	Set(key string, value []byte) (err error)

	// Delete removes the entry for key.
	// It reports whether an entry was removed.
	Delete(key string) (deleted bool, err error)

	// Clear removes all entries.
	Clear() (err error)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for key and refreshes its recency.
	// The returned slice is a copy owned by the caller.
	Get(key string) (value []byte, loaded bool, err error)

	// Has reports whether a live entry exists for key.
	// It never changes the recency of the entry.
	Has(key string) (loaded bool)

	// Len returns the number of live entries.
	Len() int

	// Range calls fn for a snapshot of the keys until fn returns false.
	// Entries written or removed while ranging may or may not be visited.
	Range(fn func(key string) bool)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the implementation supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the tier.
	GetInfo() (info DatabaseInfo)

	// Close releases all resources of the tier.
	Close() (err error)
}
