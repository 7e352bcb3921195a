package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestExpiryDisabled(t *testing.T) {
	e := Expiry{}
	assert.False(t, e.Enabled())
	assert.False(t, e.Expired(t0, t0, t0.Add(1000*time.Hour)))

	_, ok := e.Deadline(t0, t0)
	assert.False(t, ok)
}

func TestExpiryTTL(t *testing.T) {
	e := Expiry{TTL: time.Minute}
	require.True(t, e.Enabled())

	// reads do not extend a TTL
	lastAccess := t0.Add(59 * time.Second)
	assert.False(t, e.Expired(t0, lastAccess, t0.Add(59*time.Second)))
	assert.True(t, e.Expired(t0, lastAccess, t0.Add(time.Minute)), "bound is inclusive")
	assert.True(t, e.Expired(t0, lastAccess, t0.Add(2*time.Minute)))
}

func TestExpiryTTI(t *testing.T) {
	e := Expiry{TTI: 10 * time.Second}

	assert.False(t, e.Expired(t0, t0.Add(time.Hour), t0.Add(time.Hour+9*time.Second)))
	assert.True(t, e.Expired(t0, t0.Add(time.Hour), t0.Add(time.Hour+10*time.Second)))
}

func TestExpiryEitherBound(t *testing.T) {
	e := Expiry{TTL: time.Hour, TTI: time.Minute}

	// idle bound hits first
	assert.True(t, e.Expired(t0, t0, t0.Add(time.Minute)))
	// kept alive by reads, but the TTL still ends it
	assert.True(t, e.Expired(t0, t0.Add(time.Hour-time.Second), t0.Add(time.Hour)))

	deadline, ok := e.Deadline(t0, t0.Add(30*time.Minute))
	require.True(t, ok)
	assert.Equal(t, t0.Add(31*time.Minute), deadline)

	deadline, ok = e.Deadline(t0, t0.Add(59*time.Minute+30*time.Second))
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Hour), deadline)
}

func TestExpiryValidate(t *testing.T) {
	assert.NoError(t, Expiry{}.Validate())
	assert.NoError(t, Expiry{TTL: time.Second, TTI: time.Second}.Validate())
	assert.Error(t, Expiry{TTL: -time.Second}.Validate())
	assert.Error(t, Expiry{TTI: -time.Second}.Validate())
}
