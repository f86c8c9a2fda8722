package cache

import (
	"context"
	"errors"
	"time"
)

// Logical tables exposed by the key-value store.
const (
	// TableEmbeddings holds per-file embedding records keyed by path.
	TableEmbeddings = "file_embeddings"
	// TableProjects holds whole-project snapshots keyed by project hash.
	TableProjects = "project_embeddings"
)

// ErrNotFound is returned by Store.Get when no record exists for a key.
var ErrNotFound = errors.New("cache: record not found")

// Store is the injected key-value persistence capability. Implementations
// must make each Put atomic per record (whole-value replace, never a partial
// write).
type Store interface {
	Get(ctx context.Context, table, key string) ([]byte, error)

	// Put writes value under key with the given write time, which SweepBefore
	// compares against its cutoff.
	Put(ctx context.Context, table, key string, value []byte, writtenAt time.Time) error
	Delete(ctx context.Context, table, key string) error
	Clear(ctx context.Context, table string) error
	Count(ctx context.Context, table string) (int64, error)

	// SweepBefore deletes all records in table written before cutoff and
	// returns the number deleted.
	SweepBefore(ctx context.Context, table string, cutoff time.Time) (int64, error)

	Close() error
}
