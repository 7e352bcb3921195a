// Package heap implements the in-memory tier of the cache on top of
// github.com/hashicorp/golang-lru.
//
// The tier holds encoded values for at most MaxEntries keys. Get and Set refresh
// recency, Has does not. When a Set would exceed the bound the least recently used
// entry is dropped silently and counted in Stats().Evictions. Nothing here touches
// disk, and nothing is kept across Close.
package heap
