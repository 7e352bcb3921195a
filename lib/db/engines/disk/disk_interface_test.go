package disk

import (
	"testing"

	"github.com/ValentinKolb/fcache/lib/db"
	dbtesting "github.com/ValentinKolb/fcache/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "DiskTier", func(tb testing.TB) db.KVDB {
		opts := DefaultOptions()
		opts.SyncWrites = false
		s, err := Open(tb.TempDir(), opts)
		if err != nil {
			tb.Fatalf("Failed to open disk tier: %v", err)
		}
		return s
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "DiskTier", func(tb testing.TB) db.KVDB {
		opts := DefaultOptions()
		opts.SyncWrites = false
		opts.MaxBytes = 1 << 30
		s, err := Open(tb.TempDir(), opts)
		if err != nil {
			tb.Fatalf("Failed to open disk tier: %v", err)
		}
		return s
	})
}
