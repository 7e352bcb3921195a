package testing

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/fcache/lib/db"
)

// DBFactory creates a new, empty instance of a KVDB implementation.
// Implementations that need files should place them in tb.TempDir().
type DBFactory func(tb testing.TB) db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory(t))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory(t))
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(t))
		})

		t.Run("CollisionHandling", func(t *testing.T) {
			testCollisionHandling(t, factory(t))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory(t))
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

func mustSet(t testing.TB, database db.KVDB, key string, value []byte) {
	t.Helper()
	if err := database.Set(key, value); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}

func mustGet(t testing.TB, database db.KVDB, key string) ([]byte, bool) {
	t.Helper()
	value, ok, err := database.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return value, ok
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	mustSet(t, database, testKey, testValue1)

	result, exists := mustGet(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	mustSet(t, database, testKey, testValue2)

	result, exists = mustGet(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	if _, exists = mustGet(t, database, "nonexistent-key"); exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// the tier must own its copies
	retrievedValue, _ := mustGet(t, database, testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := mustGet(t, database, testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}

	input := []byte("input-value")
	mustSet(t, database, "input-key", input)
	input[0] = 'X'
	if stored, _ := mustGet(t, database, "input-key"); !bytes.Equal(stored, []byte("input-value")) {
		t.Errorf("Set should copy the value, got %s", stored)
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	mustSet(t, database, "delete-key", []byte("v"))

	deleted, err := database.Delete("delete-key")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Errorf("Expected Delete to report a removed entry")
	}

	if _, exists := mustGet(t, database, "delete-key"); exists {
		t.Errorf("Key should not exist after Delete")
	}

	deleted, err = database.Delete("delete-key")
	if err != nil || deleted {
		t.Errorf("Deleting an absent key should be a no-op, got deleted=%v err=%v", deleted, err)
	}

	// a deleted key can be written again
	mustSet(t, database, "delete-key", []byte("again"))
	if result, exists := mustGet(t, database, "delete-key"); !exists || !bytes.Equal(result, []byte("again")) {
		t.Errorf("Expected re-written key to hold 'again', got %s (exists=%v)", result, exists)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureDelete)

	if database.Has("has-key") {
		t.Errorf("Has should be false for an unknown key")
	}

	mustSet(t, database, "has-key", []byte("v"))
	if !database.Has("has-key") {
		t.Errorf("Has should be true after Set")
	}

	if _, err := database.Delete("has-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if database.Has("has-key") {
		t.Errorf("Has should be false after Delete")
	}
}

func testClear(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureClear)

	for i := 0; i < 100; i++ {
		mustSet(t, database, fmt.Sprintf("clear-%d", i), []byte("v"))
	}
	if database.Len() != 100 {
		t.Errorf("Expected 100 entries, got %d", database.Len())
	}

	if err := database.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if database.Len() != 0 {
		t.Errorf("Expected 0 entries after Clear, got %d", database.Len())
	}
	if _, exists := mustGet(t, database, "clear-1"); exists {
		t.Errorf("Key should not exist after Clear")
	}

	// the tier stays usable
	mustSet(t, database, "after-clear", []byte("v"))
	if _, exists := mustGet(t, database, "after-clear"); !exists {
		t.Errorf("Key written after Clear not found")
	}
}

func testRange(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureRange|db.FeatureDelete)

	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("range-%02d", i)
		mustSet(t, database, key, []byte(key))
		want = append(want, key)
	}
	if _, err := database.Delete("range-00"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	want = want[1:]

	var got []string
	database.Range(func(key string) bool {
		got = append(got, key)
		return true
	})
	sort.Strings(got)

	if len(got) != len(want) {
		t.Fatalf("Range visited %d keys, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Range key %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	visited := 0
	database.Range(func(string) bool {
		visited++
		return visited < 5
	})
	if visited != 5 {
		t.Errorf("Range should stop when fn returns false, visited %d", visited)
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	emptyKeyValue := []byte("value for empty key")
	mustSet(t, database, "", emptyKeyValue)

	result, exists := mustGet(t, database, "")
	if !exists {
		t.Errorf("Empty key not found after Set")
	} else if !bytes.Equal(result, emptyKeyValue) {
		t.Errorf("Value mismatch for empty key")
	}

	mustSet(t, database, "empty-value-key", []byte{})
	result, exists = mustGet(t, database, "empty-value-key")
	if !exists {
		t.Errorf("Key for empty value not found after Set")
	} else if len(result) != 0 {
		t.Errorf("Empty value mismatch: %v", result)
	}

	mustSet(t, database, "nil-value-key", nil)
	result, exists = mustGet(t, database, "nil-value-key")
	if !exists {
		t.Errorf("Key for nil value not found after Set")
	} else if len(result) != 0 {
		t.Errorf("Nil value resulted in non-empty value: %v", result)
	}

	if t.Failed() {
		return
	}

	largeKey := string(make([]byte, 1000))
	largeKeyValue := []byte("value for large key")
	mustSet(t, database, largeKey, largeKeyValue)

	result, exists = mustGet(t, database, largeKey)
	if !exists {
		t.Errorf("Large key not found after Set")
	} else if !bytes.Equal(result, largeKeyValue) {
		t.Errorf("Value mismatch for large key")
	}

	largeValue := make([]byte, 4*1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	mustSet(t, database, "large-value-key", largeValue)

	result, exists = mustGet(t, database, "large-value-key")
	if !exists {
		t.Errorf("Key for large value not found after Set")
	} else if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch: got %d bytes, expected %d", len(result), len(largeValue))
	}
}

func testCollisionHandling(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	prefix := "collision-test-"
	numKeys := 1000

	for i := 0; i < numKeys; i++ {
		mustSet(t, database, fmt.Sprintf("%s%d", prefix, i), []byte(fmt.Sprintf("value-%d", i)))
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("%s%d", prefix, i)
		expectedValue := []byte(fmt.Sprintf("value-%d", i))

		actualValue, exists := mustGet(t, database, key)
		if !exists {
			t.Errorf("Key %s not found", key)
			continue
		}
		if !bytes.Equal(actualValue, expectedValue) {
			t.Errorf("Value for key %s does not match: expected %s, got %s", key, expectedValue, actualValue)
		}
	}

	for i := 0; i < numKeys; i += 2 {
		if _, err := database.Delete(fmt.Sprintf("%s%d", prefix, i)); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("%s%d", prefix, i)
		_, exists := mustGet(t, database, key)

		if i%2 == 0 && exists {
			t.Errorf("Key %s should be deleted", key)
		}
		if i%2 == 1 && !exists {
			t.Errorf("Key %s should still exist", key)
		}
	}

	if database.Len() != numKeys/2 {
		t.Errorf("Expected %d entries, got %d", numKeys/2, database.Len())
	}
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	type operation struct {
		op    string
		key   string
		value []byte
	}

	numOperations := 10_000
	operations := make([]operation, numOperations)

	for i := 0; i < numOperations; i++ {
		var op string
		switch i % 10 {
		case 0, 1, 2, 3, 4, 5, 6:
			op = "set"
		case 7, 8:
			op = "get"
		case 9:
			op = "delete"
		}

		var key string
		if i%5 == 0 {
			key = fmt.Sprintf("hot-key-%d", i%50)
		} else {
			key = fmt.Sprintf("key-%d", i)
		}

		var value []byte
		if op == "set" {
			valueSize := 64
			if i%10 == 0 {
				valueSize = 1024
			}
			value = make([]byte, valueSize)
			for j := 0; j < valueSize; j++ {
				value[j] = byte((i + j) % 256)
			}
		}

		operations[i] = operation{op, key, value}
	}

	numWorkers := 8
	opsPerWorker := numOperations / numWorkers

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		opError error
	)
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()

			start := workerId * opsPerWorker
			end := start + opsPerWorker

			for i := start; i < end; i++ {
				op := operations[i]

				var err error
				switch op.op {
				case "set":
					err = database.Set(op.key, op.value)
				case "get":
					_, _, err = database.Get(op.key)
				case "delete":
					_, err = database.Delete(op.key)
				}
				if err != nil {
					errMu.Lock()
					opError = err
					errMu.Unlock()
				}
			}
		}(w)
	}

	wg.Wait()

	if opError != nil {
		t.Fatalf("Parallel operations failed: %v", opError)
	}

	// every key seen by Range must be readable, twice with the same value
	database.Range(func(key string) bool {
		first, ok := mustGet(t, database, key)
		if !ok {
			t.Errorf("Consistency error: key %s listed by Range but not found", key)
			return true
		}
		second, ok := mustGet(t, database, key)
		if !ok || !bytes.Equal(first, second) {
			t.Errorf("Consistency error: key %s changed between reads", key)
		}
		return true
	})
}

func testInfo(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)

	for i := 0; i < 10; i++ {
		mustSet(t, database, fmt.Sprintf("info-%d", i), []byte("value"))
	}

	info := database.GetInfo()
	if info.Entries != 10 {
		t.Errorf("Expected 10 entries in info, got %d", info.Entries)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("Expected a positive size, got %d", info.SizeBytes)
	}
	if info.DbType == "" {
		t.Errorf("Expected an implementation name")
	}
	for _, f := range info.SupportedFeatures {
		if !database.SupportsFeature(f) {
			t.Errorf("Info lists feature %s, but SupportsFeature denies it", f)
		}
	}
}
