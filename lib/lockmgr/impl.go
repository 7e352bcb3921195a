package lockmgr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("lockmgr")

// LockFile is the name of the lock file inside a locked directory
const LockFile = "LOCK"

// pollInterval is the pause between two attempts while waiting for a lock
const pollInterval = 10 * time.Millisecond

type heldLock struct {
	file    *os.File
	ownerID []byte
}

type lockMgrImpl struct {
	mu   sync.Mutex
	held map[string]heldLock // by absolute directory path
}

// NewLockManager returns a lock manager backed by advisory file locks.
// Locks are bound to the open lock file, so they conflict across processes
// and also between two acquisitions inside one process.
func NewLockManager() ILockManager {
	return &lockMgrImpl{held: make(map[string]heldLock)}
}

func (lm *lockMgrImpl) AcquireLock(dir string, timeout time.Duration) (bool, []byte, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, nil, err
	}

	ownerID, err := generateOwnerID()
	if err != nil {
		return false, nil, err
	}

	f, err := os.OpenFile(filepath.Join(abs, LockFile), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, nil, err
	}

	deadline := time.Now().Add(timeout)
	waitLogged := false
	for {
		locked, err := tryLock(f)
		if err != nil {
			_ = f.Close()
			return false, nil, fmt.Errorf("lock %s: %w", abs, err)
		}
		if locked {
			break
		}
		if !time.Now().Before(deadline) {
			_ = f.Close()
			return false, nil, nil
		}
		if !waitLogged {
			log.Infof("waiting up to %s for the lock on %s", timeout, abs)
			waitLogged = true
		}
		time.Sleep(min(pollInterval, time.Until(deadline)))
	}

	// the content is informational only, the lock is the flock itself
	if err := f.Truncate(0); err == nil {
		_, _ = fmt.Fprintf(f, "pid=%d owner=%s\n", os.Getpid(), formatOwnerID(ownerID))
	}

	lm.mu.Lock()
	lm.held[abs] = heldLock{file: f, ownerID: ownerID}
	lm.mu.Unlock()

	return true, ownerID, nil
}

func (lm *lockMgrImpl) ReleaseLock(dir string, ownerID []byte) (bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	h, ok := lm.held[abs]
	if !ok {
		return true, nil
	}
	if !bytes.Equal(h.ownerID, ownerID) {
		return false, nil
	}

	delete(lm.held, abs)
	unlockErr := unlock(h.file)
	closeErr := h.file.Close()
	if unlockErr != nil {
		return false, unlockErr
	}
	return closeErr == nil, closeErr
}
