// Package disk implements the durable tier of the cache: an append-only log with a
// checkpointed in-memory index.
//
// Files inside the cache directory:
//
//	data.log   magic "FCACHELG" | version u8 | generation u64, then records:
//	           crc32c u32 | kind u8 | seq u64 | insertedAt i64 | lastAccess i64 |
//	           keyLen u32 | valLen u32 | key | value
//	index.bin  magic "FCACHEIX" | version u8 | generation | logSize | nextSeq | count,
//	           then per entry: keyLen u32 | offset | size | seq | insertedAt | lastAccess | key,
//	           followed by a crc32c of everything before it
//
// All integers are little endian, the record checksum (Castagnoli) covers everything
// after the checksum field.
//
// Writes append a complete record and only then update the index, so after a crash
// every entry is either fully old or fully new. Open loads index.bin and replays the
// log written after it. If index.bin is missing, damaged or belongs to another log
// generation, the whole log is scanned instead. A torn record at the end of the log
// is cut off.
//
// Live bytes are bounded by Options.MaxBytes: a write that exceeds the bound evicts
// the least recently accessed entries (ties: oldest write first) and never the
// entry just written. Removals append tombstones. Once the dead bytes exceed both
// 1 MiB and the live bytes, the live records are copied into a new log of a fresh
// generation which replaces the old one.
//
// Expiry is lazy: reads treat expired entries as absent and either remove them
// right away or hand their keys to Options.ExpiredQueue.
package disk
