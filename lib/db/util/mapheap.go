// Package util
//
// This file provides the priority queue behind the disk eviction order.
//
// MapHeap combines a binary min-heap with a hash map, so the entry with the
// lowest priority can be found in O(1) while any entry can still be updated or
// removed by its key in O(log n).
//
// Ordering: items are ordered by Priority and, for equal priorities, by Key.
// Callers that use a monotonically increasing insertion counter as the key get
// a deterministic "older record first" tie-break for free.
//
// Note: MapHeap is not thread-safe, callers must synchronize access.
//
// Example usage:
//
//	order := NewMapHeap()
//
//	// key = insertion sequence, priority = last access (unix nanos)
//	order.AddItem(1, t1)
//	order.AddItem(2, t2)
//
//	// refresh an entry on access
//	order.AddItem(1, t3)
//
//	// the eviction candidate
//	oldest, ok := order.Peek()
package util

import (
	"container/heap"
	"strconv"
)

// Item is a key with its priority, as stored in a MapHeap
type Item struct {
	Key      uint64 // Unique identifier for the item
	Priority uint64 // Ordering value, lower values are popped first
	index    int    // Index in the heap, maintained by the heap package
}

func (i *Item) String() string {
	return "{Key: " + strconv.FormatUint(i.Key, 10) + ", Priority: " + strconv.FormatUint(i.Priority, 10) + "}"
}

// MapHeap is a min-heap with key-based access
type MapHeap struct {
	items    []*Item          // The actual heap slice
	itemsMap map[uint64]*Item // Map for O(1) access by key
}

// NewMapHeap creates an empty MapHeap
func NewMapHeap() *MapHeap {
	return &MapHeap{
		items:    make([]*Item, 0),
		itemsMap: make(map[uint64]*Item),
	}
}

// Len returns the number of items in the queue (part of heap.Interface)
func (mh *MapHeap) Len() int { return len(mh.items) }

// Less orders by priority, then by key (part of heap.Interface)
func (mh *MapHeap) Less(i, j int) bool {
	a, b := mh.items[i], mh.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Key < b.Key
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (mh *MapHeap) Swap(i, j int) {
	mh.items[i], mh.items[j] = mh.items[j], mh.items[i]
	mh.items[i].index = i
	mh.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface, use AddItem instead)
func (mh *MapHeap) Push(x interface{}) {
	it := x.(*Item)
	it.index = len(mh.items)
	mh.items = append(mh.items, it)
	mh.itemsMap[it.Key] = it
}

// Pop removes the last item of the slice (part of heap.Interface, use PopMin instead)
func (mh *MapHeap) Pop() interface{} {
	old := mh.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // avoid memory leak
	it.index = -1
	mh.items = old[:n-1]
	delete(mh.itemsMap, it.Key)
	return it
}

// AddItem adds a new item or updates the priority of an existing one
func (mh *MapHeap) AddItem(key, priority uint64) {
	if it, exists := mh.itemsMap[key]; exists {
		it.Priority = priority
		heap.Fix(mh, it.index)
		return
	}
	heap.Push(mh, &Item{Key: key, Priority: priority})
}

// RemoveByKey removes an item by its key and returns its priority
func (mh *MapHeap) RemoveByKey(key uint64) (uint64, bool) {
	it, exists := mh.itemsMap[key]
	if !exists {
		return 0, false
	}
	heap.Remove(mh, it.index)
	return it.Priority, true
}

// Peek returns the minimum item without removing it
func (mh *MapHeap) Peek() (Item, bool) {
	if len(mh.items) == 0 {
		return Item{}, false
	}
	return *mh.items[0], true
}

// PopMin removes and returns the minimum item
func (mh *MapHeap) PopMin() (Item, bool) {
	if len(mh.items) == 0 {
		return Item{}, false
	}
	return *heap.Pop(mh).(*Item), true
}

// Contains checks if a key exists in the queue
func (mh *MapHeap) Contains(key uint64) bool {
	_, exists := mh.itemsMap[key]
	return exists
}

// GetByKey returns a copy of the item stored for key
func (mh *MapHeap) GetByKey(key uint64) (Item, bool) {
	it, exists := mh.itemsMap[key]
	if !exists {
		return Item{}, false
	}
	return *it, true
}

// Reset drops all items
func (mh *MapHeap) Reset() {
	mh.items = make([]*Item, 0)
	mh.itemsMap = make(map[uint64]*Item)
}
