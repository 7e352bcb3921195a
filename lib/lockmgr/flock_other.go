//go:build !unix

package lockmgr

import (
	"os"
	"sync"
)

// Without flock, locks only exclude each other inside this process.
var (
	localMu    sync.Mutex
	localLocks = make(map[string]bool)
)

func tryLock(f *os.File) (bool, error) {
	localMu.Lock()
	defer localMu.Unlock()
	if localLocks[f.Name()] {
		return false, nil
	}
	localLocks[f.Name()] = true
	return true, nil
}

func unlock(f *os.File) error {
	localMu.Lock()
	defer localMu.Unlock()
	delete(localLocks, f.Name())
	return nil
}
