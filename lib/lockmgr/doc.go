// Package lockmgr implements exclusive directory locks for cache directories.
//
// A cache directory must never be used by two open caches at once, whether they
// live in the same process or in different ones. The lock manager enforces this
// with an advisory flock on a LOCK file inside the directory.
//
// Core Functionality:
//   - Lock acquisition with a timeout, polling a non-blocking flock
//   - Ownership verification on release through a random owner ID
//   - Automatic release by the operating system if the process dies
//
// The LOCK file itself is never deleted, only locked and unlocked. Its content
// (pid and owner ID) is informational.
//
// Usage Example:
//
//	lm := lockmgr.NewLockManager()
//
//	ok, ownerID, err := lm.AcquireLock("/var/cache/app", 5*time.Second)
//	if err != nil {
//	    // Handle error
//	}
//	if !ok {
//	    // Someone else holds the directory
//	}
//
//	// ... use the directory ...
//
//	_, err = lm.ReleaseLock("/var/cache/app", ownerID)
//
// Thread Safety:
//
//	A lock manager is safe for concurrent use. Two managers in one process
//	exclude each other just like two processes do.
package lockmgr
