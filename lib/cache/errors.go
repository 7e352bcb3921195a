package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess        RetCode = iota // 0: Operation succeeded.
	RetCKeyRejected                   // 1: The key codec failed or produced an empty key.
	RetCCacheLoad                     // 2: Reading from the disk tier failed.
	RetCCacheWrite                    // 3: Writing to the disk tier failed.
	RetCBulkLoad                      // 4: Some keys of GetAll failed.
	RetCBulkWrite                     // 5: Some keys of PutAll / RemoveAll failed.
	RetCConfiguration                 // 6: Invalid configuration or directory.
	RetCLockContention                // 7: The directory is locked by another cache.
	RetCCorruptStore                  // 8: The on-disk store cannot be recovered.
	RetCClosed                        // 9: The cache was closed.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCKeyRejected:
		return "KeyRejected"
	case RetCCacheLoad:
		return "CacheLoadFailure"
	case RetCCacheWrite:
		return "CacheWriteFailure"
	case RetCBulkLoad:
		return "BulkLoadFailure"
	case RetCBulkWrite:
		return "BulkWriteFailure"
	case RetCConfiguration:
		return "Configuration"
	case RetCLockContention:
		return "LockContention"
	case RetCCorruptStore:
		return "CorruptStore"
	case RetCClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps a return code, a message and an optional cause.
// errors.Is matches two Errors by code, so callers compare against the
// package sentinels: errors.Is(err, cache.ErrCacheWrite).
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache error (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("cache error (code %s): %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code, message and cause.
func NewError(code RetCode, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// Sentinels for errors.Is
var (
	ErrKeyRejected    = &Error{Code: RetCKeyRejected, Msg: "key rejected"}
	ErrCacheLoad      = &Error{Code: RetCCacheLoad, Msg: "cache load failure"}
	ErrCacheWrite     = &Error{Code: RetCCacheWrite, Msg: "cache write failure"}
	ErrBulkLoad       = &Error{Code: RetCBulkLoad, Msg: "bulk load failure"}
	ErrBulkWrite      = &Error{Code: RetCBulkWrite, Msg: "bulk write failure"}
	ErrConfiguration  = &Error{Code: RetCConfiguration, Msg: "invalid configuration"}
	ErrLockContention = &Error{Code: RetCLockContention, Msg: "cache directory is locked"}
	ErrCorruptStore   = &Error{Code: RetCCorruptStore, Msg: "corrupt store"}
	ErrClosed         = &Error{Code: RetCClosed, Msg: "cache is closed"}
)

// --------------------------------------------------------------------------
// Bulk Error Type
// --------------------------------------------------------------------------

// BulkError is returned by GetAll, PutAll and RemoveAll when some keys failed.
// The other keys were processed normally. It matches ErrBulkLoad or
// ErrBulkWrite, and through Unwrap also the per-key causes.
type BulkError[K comparable] struct {
	Code     RetCode     // RetCBulkLoad or RetCBulkWrite
	Failures map[K]error // per failed key
	errs     *multierror.Error
}

func newBulkError[K comparable](code RetCode) *BulkError[K] {
	return &BulkError[K]{Code: code, Failures: make(map[K]error)}
}

func (e *BulkError[K]) add(key K, err error) {
	e.Failures[key] = err
	e.errs = multierror.Append(e.errs, fmt.Errorf("key %v: %w", key, err))
}

// errorOrNil returns nil if no key failed
func (e *BulkError[K]) errorOrNil() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e
}

func (e *BulkError[K]) Error() string {
	msgs := make([]string, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		msgs = append(msgs, err.Error())
	}
	sort.Strings(msgs)
	return fmt.Sprintf("cache error (code %s): %d keys failed: %s", e.Code, len(e.Failures), strings.Join(msgs, "; "))
}

func (e *BulkError[K]) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *BulkError[K]) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Keys returns the failed keys
func (e *BulkError[K]) Keys() []K {
	keys := make([]K, 0, len(e.Failures))
	for k := range e.Failures {
		keys = append(keys, k)
	}
	return keys
}
