package disk

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

const (
	indexMagic   = "FCACHEIX" // index.bin identifier
	indexVersion = 1          // index.bin format version
)

// indexEntry locates the current record of a live key and carries its timestamps
type indexEntry struct {
	offset     int64  // start of the record in data.log
	size       int64  // encoded record size
	seq        uint64 // sequence number of the record
	insertedAt int64  // unix nanoseconds of the last write
	lastAccess int64  // unix nanoseconds of the last read or write
}

// checkpoint is the decoded content of index.bin
type checkpoint struct {
	generation uint64
	logSize    int64
	nextSeq    uint64
	keys       []string
	entries    []indexEntry
}

// --------------------------------------------------------------------------
// Writing
// --------------------------------------------------------------------------

// writeCheckpoint stores cp as index.bin in dir. The file is written to a
// temporary name, synced and renamed, so a crash leaves either the old or the
// new checkpoint.
func writeCheckpoint(dir string, cp checkpoint) (err error) {
	tmpPath := filepath.Join(dir, indexTmpFile)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	crc := crc32.New(crcTable)
	bw := bufio.NewWriterSize(io.MultiWriter(f, crc), 1024*1024) // 1 MB buffer

	if _, err = bw.WriteString(indexMagic); err != nil {
		return err
	}
	header := []any{uint8(indexVersion), cp.generation, cp.logSize, cp.nextSeq, uint64(len(cp.entries))}
	for _, v := range header {
		if err = binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	var buf [4 + 5*8]byte
	for i, e := range cp.entries {
		key := cp.keys[i]
		binary.LittleEndian.PutUint32(buf[0:4], uint32(len(key)))
		binary.LittleEndian.PutUint64(buf[4:12], uint64(e.offset))
		binary.LittleEndian.PutUint64(buf[12:20], uint64(e.size))
		binary.LittleEndian.PutUint64(buf[20:28], e.seq)
		binary.LittleEndian.PutUint64(buf[28:36], uint64(e.insertedAt))
		binary.LittleEndian.PutUint64(buf[36:44], uint64(e.lastAccess))
		if _, err = bw.Write(buf[:]); err != nil {
			return err
		}
		if _, err = bw.WriteString(key); err != nil {
			return err
		}
	}

	if err = bw.Flush(); err != nil {
		return err
	}

	// the checksum covers everything before it and is not part of itself
	if err = binary.Write(f, binary.LittleEndian, crc.Sum32()); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpPath, filepath.Join(dir, indexFile)); err != nil {
		return err
	}
	return syncDir(dir)
}

// --------------------------------------------------------------------------
// Reading
// --------------------------------------------------------------------------

// errNoCheckpoint is returned by readCheckpoint if index.bin does not exist
var errNoCheckpoint = errors.New("no checkpoint")

// readCheckpoint loads and verifies index.bin from dir
func readCheckpoint(dir string) (checkpoint, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return checkpoint{}, errNoCheckpoint
	}
	if err != nil {
		return checkpoint{}, err
	}

	const fixed = len(indexMagic) + 1 + 4*8
	if len(data) < fixed+4 {
		return checkpoint{}, fmt.Errorf("checkpoint too short (%d bytes)", len(data))
	}

	body, sum := data[:len(data)-4], binary.LittleEndian.Uint32(data[len(data)-4:])
	if crc32.Checksum(body, crcTable) != sum {
		return checkpoint{}, errors.New("checkpoint checksum mismatch")
	}
	if string(body[:len(indexMagic)]) != indexMagic {
		return checkpoint{}, errors.New("checkpoint magic number mismatch")
	}
	if v := body[len(indexMagic)]; v != indexVersion {
		return checkpoint{}, fmt.Errorf("unsupported checkpoint version %d (expected %d)", v, indexVersion)
	}

	pos := len(indexMagic) + 1
	next := func() uint64 {
		v := binary.LittleEndian.Uint64(body[pos : pos+8])
		pos += 8
		return v
	}

	cp := checkpoint{
		generation: next(),
		logSize:    int64(next()),
		nextSeq:    next(),
	}
	count := next()

	// every entry needs at least its fixed part, which bounds the allocation
	const entryFixed = 4 + 5*8
	if count > uint64(len(body)-pos)/entryFixed {
		return checkpoint{}, fmt.Errorf("checkpoint claims %d entries in %d bytes", count, len(body)-pos)
	}

	cp.keys = make([]string, 0, count)
	cp.entries = make([]indexEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(body)-pos < entryFixed {
			return checkpoint{}, errors.New("checkpoint entry truncated")
		}
		keyLen := int(binary.LittleEndian.Uint32(body[pos : pos+4]))
		pos += 4
		e := indexEntry{
			offset:     int64(next()),
			size:       int64(next()),
			seq:        next(),
			insertedAt: int64(next()),
			lastAccess: int64(next()),
		}
		if len(body)-pos < keyLen {
			return checkpoint{}, errors.New("checkpoint key truncated")
		}
		cp.keys = append(cp.keys, string(body[pos:pos+keyLen]))
		pos += keyLen
		cp.entries = append(cp.entries, e)
	}

	if pos != len(body) {
		return checkpoint{}, fmt.Errorf("checkpoint has %d trailing bytes", len(body)-pos)
	}
	return cp, nil
}

// syncDir fsyncs a directory so that renames inside it are durable
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
