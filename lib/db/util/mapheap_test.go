package util

import (
	"sort"
	"testing"
)

// TestNewMapHeap tests the creation of a new MapHeap
func TestNewMapHeap(t *testing.T) {
	mh := NewMapHeap()

	if mh.Len() != 0 {
		t.Errorf("New heap should be empty, but has length %d", mh.Len())
	}

	if _, ok := mh.Peek(); ok {
		t.Error("Peek on empty heap should return ok=false")
	}

	if _, ok := mh.PopMin(); ok {
		t.Error("PopMin on empty heap should return ok=false")
	}
}

// TestAddItem tests adding items to the heap
func TestAddItem(t *testing.T) {
	mh := NewMapHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)
	mh.AddItem(3, 50)

	if mh.Len() != 3 {
		t.Errorf("Heap should have 3 items, but has %d", mh.Len())
	}

	for _, k := range []uint64{1, 2, 3} {
		if !mh.Contains(k) {
			t.Errorf("Heap should contain key %d", k)
		}
	}

	it, ok := mh.Peek()
	if !ok {
		t.Fatal("Peek() should return an item")
	}
	if it.Key != 3 || it.Priority != 50 {
		t.Errorf("Expected min item to be (3,50), got (%d,%d)", it.Key, it.Priority)
	}
}

// TestUpdateItem tests that AddItem on an existing key moves it
func TestUpdateItem(t *testing.T) {
	mh := NewMapHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)

	// touch item 1 -> item 2 is now the oldest
	mh.AddItem(1, 300)

	it, ok := mh.GetByKey(1)
	if !ok || it.Priority != 300 {
		t.Fatalf("Item 1 should have priority 300, got %v (ok=%v)", it, ok)
	}

	min, _ := mh.Peek()
	if min.Key != 2 {
		t.Errorf("Min item should now be key 2, got %d", min.Key)
	}

	if mh.Len() != 2 {
		t.Errorf("Update must not add items, got length %d", mh.Len())
	}
}

// TestTieBreakByKey tests that equal priorities pop the lower key first
func TestTieBreakByKey(t *testing.T) {
	mh := NewMapHeap()

	mh.AddItem(7, 10)
	mh.AddItem(3, 10)
	mh.AddItem(5, 10)
	mh.AddItem(1, 20)

	want := []uint64{3, 5, 7, 1}
	for i, k := range want {
		it, ok := mh.PopMin()
		if !ok {
			t.Fatalf("PopMin %d: heap unexpectedly empty", i)
		}
		if it.Key != k {
			t.Errorf("PopMin %d: expected key %d, got %d", i, k, it.Key)
		}
	}
}

// TestRemoveByKey tests removing items by key
func TestRemoveByKey(t *testing.T) {
	mh := NewMapHeap()

	mh.AddItem(1, 100)
	mh.AddItem(2, 200)
	mh.AddItem(3, 300)

	prio, ok := mh.RemoveByKey(2)
	if !ok {
		t.Fatal("RemoveByKey should return true for existing key")
	}
	if prio != 200 {
		t.Errorf("RemoveByKey should return priority 200, got %d", prio)
	}
	if mh.Len() != 2 || mh.Contains(2) {
		t.Errorf("Key 2 should be gone, len=%d", mh.Len())
	}

	if _, ok = mh.RemoveByKey(99); ok {
		t.Error("RemoveByKey should return false for non-existent key")
	}
}

// TestPopOrder tests that items are popped in priority order
func TestPopOrder(t *testing.T) {
	mh := NewMapHeap()

	items := []struct {
		key   uint64
		value uint64
	}{
		{5, 50},
		{3, 30},
		{1, 10},
		{4, 40},
		{2, 20},
	}

	for _, it := range items {
		mh.AddItem(it.key, it.value)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].value < items[j].value
	})

	for i, expected := range items {
		it, ok := mh.PopMin()
		if !ok {
			t.Fatalf("Heap empty after %d items, expected %d items", i, len(items))
		}
		if it.Key != expected.key || it.Priority != expected.value {
			t.Errorf("Pop %d: expected (%d,%d), got (%d,%d)",
				i, expected.key, expected.value, it.Key, it.Priority)
		}
	}

	if mh.Len() != 0 {
		t.Errorf("Heap should be empty after popping all items, has %d items", mh.Len())
	}
}

// TestReset tests that Reset empties heap and index
func TestReset(t *testing.T) {
	mh := NewMapHeap()
	for i := uint64(0); i < 100; i++ {
		mh.AddItem(i, 1000-i)
	}

	mh.Reset()

	if mh.Len() != 0 || mh.Contains(5) {
		t.Errorf("Reset should drop everything, len=%d", mh.Len())
	}

	mh.AddItem(5, 1)
	if it, _ := mh.Peek(); it.Key != 5 {
		t.Errorf("Heap should be usable after Reset, got %v", it)
	}
}

// TestLargeNumberOfItems pops many items and checks the order invariant
func TestLargeNumberOfItems(t *testing.T) {
	mh := NewMapHeap()

	const n = 10000
	for i := uint64(0); i < n; i++ {
		// scatter priorities, with plenty of ties
		mh.AddItem(i, (i*7919)%97)
	}

	var prev Item
	for i := 0; i < n; i++ {
		it, ok := mh.PopMin()
		if !ok {
			t.Fatalf("Heap empty after %d items", i)
		}
		if i > 0 && (it.Priority < prev.Priority || (it.Priority == prev.Priority && it.Key < prev.Key)) {
			t.Fatalf("Order violated: %v popped after %v", it, prev)
		}
		prev = it
	}
}
