package lockmgr

import "time"

// ILockManager defines the interface for a directory lock provider.
type ILockManager interface {
	// AcquireLock locks the directory dir for exclusive use, waiting up to timeout.
	// It returns whether the lock was acquired and an owner ID needed for the release.
	// ok is false without an error if another holder kept the lock for the whole timeout.
	AcquireLock(dir string, timeout time.Duration) (ok bool, ownerID []byte, err error)

	// ReleaseLock releases the lock on dir.
	// It returns false if the lock is held under a different owner ID.
	// The method will also return true if the lock was not held.
	ReleaseLock(dir string, ownerID []byte) (ok bool, err error)
}
