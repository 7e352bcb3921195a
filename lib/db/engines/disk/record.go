package disk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	logMagic   = "FCACHELG" // data.log identifier
	logVersion = 1          // data.log format version

	// logHeaderSize is magic (8) | version u8 | generation u64
	logHeaderSize = 8 + 1 + 8

	// recordHeaderSize is crc u32 | kind u8 | seq u64 | insertedAt i64 | lastAccess i64 | keyLen u32 | valLen u32
	recordHeaderSize = 4 + 1 + 8 + 8 + 8 + 4 + 4
)

// recordKind distinguishes values from deletions in the log
type recordKind uint8

const (
	kindPut       recordKind = 1
	kindTombstone recordKind = 2
)

func (k recordKind) String() string {
	switch k {
	case kindPut:
		return "Put"
	case kindTombstone:
		return "Tombstone"
	default:
		return "Unknown"
	}
}

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// errTornRecord marks a record that is cut off or fails its checksum
var errTornRecord = errors.New("torn record")

// --------------------------------------------------------------------------
// Record Type
// --------------------------------------------------------------------------

// record is one entry of the append-only log
type record struct {
	kind       recordKind
	seq        uint64
	insertedAt int64 // unix nanoseconds
	lastAccess int64 // unix nanoseconds
	key        []byte
	value      []byte
}

// recordSize returns the encoded size of a record with the given key and value length
func recordSize(keyLen, valLen int) int64 {
	return int64(recordHeaderSize + keyLen + valLen)
}

func (r record) size() int64 {
	return recordSize(len(r.key), len(r.value))
}

// encode serializes the record, checksum first
func (r record) encode() []byte {
	buf := make([]byte, r.size())

	buf[4] = byte(r.kind)
	binary.LittleEndian.PutUint64(buf[5:13], r.seq)
	binary.LittleEndian.PutUint64(buf[13:21], uint64(r.insertedAt))
	binary.LittleEndian.PutUint64(buf[21:29], uint64(r.lastAccess))
	binary.LittleEndian.PutUint32(buf[29:33], uint32(len(r.key)))
	binary.LittleEndian.PutUint32(buf[33:37], uint32(len(r.value)))
	copy(buf[recordHeaderSize:], r.key)
	copy(buf[recordHeaderSize+len(r.key):], r.value)

	binary.LittleEndian.PutUint32(buf[0:4], crc32.Checksum(buf[4:], crcTable))
	return buf
}

// decodeRecord parses a complete encoded record and verifies its checksum
func decodeRecord(buf []byte) (record, error) {
	if len(buf) < recordHeaderSize {
		return record{}, errTornRecord
	}
	keyLen := int(binary.LittleEndian.Uint32(buf[29:33]))
	valLen := int(binary.LittleEndian.Uint32(buf[33:37]))
	if int64(len(buf)) != recordSize(keyLen, valLen) {
		return record{}, errTornRecord
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != crc32.Checksum(buf[4:], crcTable) {
		return record{}, errTornRecord
	}

	r := record{
		kind:       recordKind(buf[4]),
		seq:        binary.LittleEndian.Uint64(buf[5:13]),
		insertedAt: int64(binary.LittleEndian.Uint64(buf[13:21])),
		lastAccess: int64(binary.LittleEndian.Uint64(buf[21:29])),
		key:        buf[recordHeaderSize : recordHeaderSize+keyLen],
		value:      buf[recordHeaderSize+keyLen:],
	}
	if r.kind != kindPut && r.kind != kindTombstone {
		return record{}, errTornRecord
	}
	return r, nil
}

// readRecord reads the record starting at the reader's position. remaining is the
// number of bytes left in the log and bounds the lengths a header may claim.
// It returns io.EOF only if the reader is exhausted before the first byte and
// errTornRecord for a cut off or damaged record. Other errors are I/O failures.
func readRecord(r io.Reader, remaining int64) (record, int64, error) {
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return record{}, 0, classifyReadErr(err)
	}

	keyLen := int64(binary.LittleEndian.Uint32(header[29:33]))
	valLen := int64(binary.LittleEndian.Uint32(header[33:37]))
	size := recordHeaderSize + keyLen + valLen
	if size > remaining {
		return record{}, 0, errTornRecord
	}

	buf := make([]byte, size)
	copy(buf, header[:])
	if _, err := io.ReadFull(r, buf[recordHeaderSize:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return record{}, 0, classifyReadErr(err)
	}

	rec, err := decodeRecord(buf)
	if err != nil {
		return record{}, 0, err
	}
	return rec, size, nil
}

// classifyReadErr keeps io.EOF and real I/O errors and maps a short read to errTornRecord
func classifyReadErr(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return errTornRecord
	}
	return err
}

// --------------------------------------------------------------------------
// Log Header
// --------------------------------------------------------------------------

func encodeLogHeader(generation uint64) []byte {
	buf := make([]byte, logHeaderSize)
	copy(buf, logMagic)
	buf[len(logMagic)] = logVersion
	binary.LittleEndian.PutUint64(buf[len(logMagic)+1:], generation)
	return buf
}

func decodeLogHeader(buf []byte) (uint64, error) {
	if len(buf) < logHeaderSize {
		return 0, fmt.Errorf("%w: log header is %d bytes", ErrCorrupt, len(buf))
	}
	if string(buf[:len(logMagic)]) != logMagic {
		return 0, fmt.Errorf("%w: magic number mismatch", ErrCorrupt)
	}
	if v := buf[len(logMagic)]; v != logVersion {
		return 0, fmt.Errorf("%w: unsupported log version %d (expected %d)", ErrCorrupt, v, logVersion)
	}
	return binary.LittleEndian.Uint64(buf[len(logMagic)+1 : logHeaderSize]), nil
}

// --------------------------------------------------------------------------
// Time Helper
// --------------------------------------------------------------------------

func toNanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n) }
