package disk

import (
	"bytes"
	"io"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	in := record{kind: kindPut, seq: 7, insertedAt: 100, lastAccess: 200, key: []byte("key"), value: []byte("value")}
	buf := in.encode()

	if int64(len(buf)) != in.size() {
		t.Fatalf("Encoded size %d, expected %d", len(buf), in.size())
	}

	out, err := decodeRecord(buf)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if out.kind != in.kind || out.seq != in.seq || out.insertedAt != in.insertedAt || out.lastAccess != in.lastAccess {
		t.Errorf("Header mismatch: %+v vs %+v", out, in)
	}
	if !bytes.Equal(out.key, in.key) || !bytes.Equal(out.value, in.value) {
		t.Errorf("Payload mismatch")
	}
}

func TestRecordChecksumDetectsDamage(t *testing.T) {
	buf := record{kind: kindTombstone, seq: 1, key: []byte("k")}.encode()
	for i := range buf {
		damaged := append([]byte(nil), buf...)
		damaged[i] ^= 0x01
		if _, err := decodeRecord(damaged); err == nil {
			t.Errorf("Flipping byte %d was not detected", i)
		}
	}
}

func TestReadRecordSequence(t *testing.T) {
	a := record{kind: kindPut, seq: 1, key: []byte("a"), value: []byte("1")}.encode()
	b := record{kind: kindPut, seq: 2, key: []byte("b"), value: []byte("22")}.encode()
	data := append(append([]byte(nil), a...), b...)

	r := bytes.NewReader(data)
	remaining := int64(len(data))

	rec, n, err := readRecord(r, remaining)
	if err != nil || string(rec.key) != "a" || n != int64(len(a)) {
		t.Fatalf("First record: %+v, %d, %v", rec, n, err)
	}
	remaining -= n

	rec, n, err = readRecord(r, remaining)
	if err != nil || string(rec.value) != "22" || n != int64(len(b)) {
		t.Fatalf("Second record: %+v, %d, %v", rec, n, err)
	}

	if _, _, err = readRecord(r, remaining-n); err != io.EOF {
		t.Errorf("Expected io.EOF at the end, got %v", err)
	}
}

func TestReadRecordTorn(t *testing.T) {
	buf := record{kind: kindPut, seq: 1, key: []byte("a"), value: []byte("value")}.encode()

	for _, cut := range []int{1, recordHeaderSize - 1, recordHeaderSize, len(buf) - 1} {
		if _, _, err := readRecord(bytes.NewReader(buf[:cut]), int64(cut)); err != errTornRecord {
			t.Errorf("Cut at %d: expected errTornRecord, got %v", cut, err)
		}
	}
}

func TestLogHeader(t *testing.T) {
	gen, err := decodeLogHeader(encodeLogHeader(42))
	if err != nil || gen != 42 {
		t.Fatalf("Expected generation 42, got %d (%v)", gen, err)
	}

	bad := encodeLogHeader(42)
	bad[len(logMagic)] = 99
	if _, err := decodeLogHeader(bad); err == nil {
		t.Errorf("Expected an error for an unknown version")
	}
}
