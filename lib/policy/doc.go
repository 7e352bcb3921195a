// Package policy holds the eviction and expiry rules of the cache.
//
// Expiry decides from an entry's timestamps whether it is still live: time-to-live
// counts from the last write, time-to-idle from the last access. Either elapsing
// expires the entry.
//
// AccessOrder keeps the disk tier's eviction order: least recently accessed first,
// ties broken by insertion order. It is a thin layer over util.MapHeap.
package policy
