package disk

import "errors"

var (
	// ErrClosed is returned by every operation after Close
	ErrClosed = errors.New("disk store is closed")

	// ErrTooLarge is returned by Set if a single record exceeds the capacity
	ErrTooLarge = errors.New("record exceeds disk capacity")

	// ErrCorrupt is returned by Open if the log header cannot be trusted
	ErrCorrupt = errors.New("disk store is corrupt")

	// ErrWrite wraps I/O failures while appending to the log
	ErrWrite = errors.New("disk write failed")

	// ErrRead wraps I/O and checksum failures while reading a value
	ErrRead = errors.New("disk read failed")
)
