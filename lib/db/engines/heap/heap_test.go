package heap

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/fcache/lib/db"
	dbtesting "github.com/ValentinKolb/fcache/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "HeapTier", func(t testing.TB) db.KVDB {
		s, err := New(100_000)
		if err != nil {
			t.Fatalf("Failed to create heap tier: %v", err)
		}
		return s
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "HeapTier", func(t testing.TB) db.KVDB {
		s, err := New(1 << 20)
		if err != nil {
			t.Fatalf("Failed to create heap tier: %v", err)
		}
		return s
	})
}

func TestNewRejectsNonPositiveBound(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Errorf("Expected an error for max entries 0")
	}
	if _, err := New(-1); err == nil {
		t.Errorf("Expected an error for negative max entries")
	}
}

func TestBoundIsEnforced(t *testing.T) {
	s, _ := New(10)

	for i := 0; i < 25; i++ {
		_ = s.Set(fmt.Sprintf("key-%d", i), []byte("v"))
		if s.Len() > 10 {
			t.Fatalf("Tier holds %d entries, bound is 10", s.Len())
		}
	}

	if got := s.Stats().Evictions; got != 15 {
		t.Errorf("Expected 15 evictions, got %d", got)
	}
}

func TestLeastRecentlyUsedIsEvicted(t *testing.T) {
	s, _ := New(2)
	_ = s.Set("a", []byte("1"))
	_ = s.Set("b", []byte("2"))

	// reading a makes b the eviction candidate
	if _, ok, _ := s.Get("a"); !ok {
		t.Fatalf("Expected a to be present")
	}
	_ = s.Set("c", []byte("3"))

	if s.Has("b") {
		t.Errorf("b should have been evicted")
	}
	if !s.Has("a") || !s.Has("c") {
		t.Errorf("a and c should be present")
	}
}

func TestHasDoesNotRefreshRecency(t *testing.T) {
	s, _ := New(2)
	_ = s.Set("a", []byte("1"))
	_ = s.Set("b", []byte("2"))

	s.Has("a")
	_ = s.Set("c", []byte("3"))

	if s.Has("a") {
		t.Errorf("a should have been evicted, Has must not refresh recency")
	}
}

func TestHitMissCounters(t *testing.T) {
	s, _ := New(4)
	_ = s.Set("a", []byte("1"))

	s.Get("a")
	s.Get("a")
	s.Get("missing")

	stats := s.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Expected 2 hits and 1 miss, got %+v", stats)
	}
}

func TestGetInfo(t *testing.T) {
	s, _ := New(8)
	_ = s.Set("a", []byte("12345"))
	_ = s.Set("b", []byte("12345"))

	info := s.GetInfo()
	if info.DbType != db.ImplHeap {
		t.Errorf("Unexpected implementation %s", info.DbType)
	}
	if info.Entries != 2 {
		t.Errorf("Expected 2 entries, got %d", info.Entries)
	}
	if info.SizeBytes != 12 {
		t.Errorf("Expected 12 bytes, got %d", info.SizeBytes)
	}
}
