// Package cache provides the content-addressable embedding cache.
//
// The cache stores previously computed embedding vectors keyed by file path,
// validated by content hash: a lookup is a hit only when the stored hash
// equals the file's current content hash, so editing a file invalidates its
// entry without any explicit bookkeeping. A second logical table holds
// whole-project snapshots keyed by an aggregate project hash, letting a
// search over an unchanged file set skip per-file lookups entirely.
//
// Layout is two tiers: an in-memory LRU in front of a SQLite-backed
// key-value store. Records are versioned JSON blobs. Every store failure
// (open, read, write, sweep) degrades to a miss or a no-op and is logged;
// cache trouble never fails a search.
//
// A background sweep evicts records older than a fixed TTL, independent of
// query activity. The sweep is scheduled with a cron expression and guarded
// against overlapping runs.
package cache
