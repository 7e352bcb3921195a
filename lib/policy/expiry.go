package policy

import (
	"fmt"
	"time"
)

// Expiry combines a time-to-live and a time-to-idle. A zero duration disables
// the respective bound.
type Expiry struct {
	TTL time.Duration
	TTI time.Duration
}

// Validate rejects negative durations
func (e Expiry) Validate() error {
	if e.TTL < 0 {
		return fmt.Errorf("time to live must not be negative, got %s", e.TTL)
	}
	if e.TTI < 0 {
		return fmt.Errorf("time to idle must not be negative, got %s", e.TTI)
	}
	return nil
}

// Enabled reports whether any bound is set
func (e Expiry) Enabled() bool {
	return e.TTL > 0 || e.TTI > 0
}

// Expired reports whether an entry written at insertedAt and last read at
// lastAccess is expired at now. The bound is inclusive: an entry is expired
// exactly when its deadline is reached.
func (e Expiry) Expired(insertedAt, lastAccess, now time.Time) bool {
	if e.TTL > 0 && !now.Before(insertedAt.Add(e.TTL)) {
		return true
	}
	if e.TTI > 0 && !now.Before(lastAccess.Add(e.TTI)) {
		return true
	}
	return false
}

// Deadline returns the earliest point in time at which the entry expires and
// false if it never does.
func (e Expiry) Deadline(insertedAt, lastAccess time.Time) (time.Time, bool) {
	var (
		deadline time.Time
		ok       bool
	)
	if e.TTL > 0 {
		deadline, ok = insertedAt.Add(e.TTL), true
	}
	if e.TTI > 0 {
		idle := lastAccess.Add(e.TTI)
		if !ok || idle.Before(deadline) {
			deadline, ok = idle, true
		}
	}
	return deadline, ok
}

func (e Expiry) String() string {
	return fmt.Sprintf("ttl=%s tti=%s", e.TTL, e.TTI)
}
