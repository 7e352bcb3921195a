package policy

import (
	"time"

	"github.com/ValentinKolb/fcache/lib/db/util"
)

// AccessOrder tracks entries by their last access time and yields the least
// recently accessed one first. Entries are identified by their insertion
// sequence number, which also breaks ties between equal access times.
//
// Thread-safety: AccessOrder is not safe for concurrent use. The disk tier
// only touches it with its store lock held.
type AccessOrder struct {
	heap *util.MapHeap
}

// NewAccessOrder creates an empty AccessOrder
func NewAccessOrder() *AccessOrder {
	return &AccessOrder{heap: util.NewMapHeap()}
}

// Touch records an access to seq at the given time, adding it if unknown
func (o *AccessOrder) Touch(seq uint64, at time.Time) {
	o.heap.AddItem(seq, priority(at))
}

// Remove drops seq from the order
func (o *AccessOrder) Remove(seq uint64) {
	o.heap.RemoveByKey(seq)
}

// Oldest returns the sequence number of the least recently accessed entry
func (o *AccessOrder) Oldest() (uint64, bool) {
	item, ok := o.heap.Peek()
	if !ok {
		return 0, false
	}
	return item.Key, true
}

// OldestExcept returns the least recently accessed entry other than skip.
// It is used to never evict the entry that was just written.
func (o *AccessOrder) OldestExcept(skip uint64) (uint64, bool) {
	first, ok := o.heap.PopMin()
	if !ok {
		return 0, false
	}
	defer o.heap.AddItem(first.Key, first.Priority)

	if first.Key != skip {
		return first.Key, true
	}

	second, ok := o.heap.Peek()
	if !ok {
		return 0, false
	}
	return second.Key, true
}

// Len returns the number of tracked entries
func (o *AccessOrder) Len() int {
	return o.heap.Len()
}

// Reset drops all entries
func (o *AccessOrder) Reset() {
	o.heap.Reset()
}

// priority maps a time onto the heap's unsigned priority. Times before the
// epoch clamp to zero.
func priority(at time.Time) uint64 {
	n := at.UnixNano()
	if n <= 0 {
		return 0
	}
	return uint64(n)
}
