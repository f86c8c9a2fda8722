package cache

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"ctxrank/internal/metrics"
)

const (
	// DefaultTTL is how long records live before the sweep evicts them.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultMemoryEntries sizes the in-memory LRU tier.
	DefaultMemoryEntries = 4096
)

// EmbeddingCache is the two-tier content-addressable embedding cache: an LRU
// in front of a persistent Store. A lookup hits only on exact content-hash
// equality; everything else (missing record, stale hash, store failure,
// undecodable blob) is a miss.
type EmbeddingCache struct {
	store Store
	mem   *lru.Cache[string, FileRecord]
	ttl   time.Duration
	log   *zap.Logger

	// now is swappable for TTL tests.
	now func() time.Time
}

// Option configures an EmbeddingCache.
type Option func(*EmbeddingCache)

// WithTTL overrides the sweep TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *EmbeddingCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger attaches a logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *EmbeddingCache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *EmbeddingCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds an EmbeddingCache over the given store.
func New(store Store, opts ...Option) *EmbeddingCache {
	mem, err := lru.New[string, FileRecord](DefaultMemoryEntries)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}

	c := &EmbeddingCache{
		store: store,
		mem:   mem,
		ttl:   DefaultTTL,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured record lifetime.
func (c *EmbeddingCache) TTL() time.Duration { return c.ttl }

// Get returns the cached vector for (path, hash). A stale hash is a miss and
// evicts the stale memory entry so repeated lookups stay cheap.
func (c *EmbeddingCache) Get(ctx context.Context, path, hash string) ([]float32, bool) {
	if rec, ok := c.mem.Get(path); ok {
		if rec.Hash == hash {
			metrics.CacheHits.WithLabelValues("memory").Inc()
			return cloneVector(rec.Embedding), true
		}
		c.mem.Remove(path)
	}

	data, err := c.store.Get(ctx, TableEmbeddings, path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("embedding cache read failed", zap.String("path", path), zap.Error(err))
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}

	rec, err := decodeFileRecord(data)
	if err != nil {
		c.log.Warn("embedding cache record undecodable", zap.String("path", path), zap.Error(err))
		metrics.CacheMisses.Inc()
		return nil, false
	}

	if rec.Hash != hash {
		// Content changed since the record was written.
		metrics.CacheMisses.Inc()
		return nil, false
	}

	c.mem.Add(path, rec)
	metrics.CacheHits.WithLabelValues("store").Inc()
	return cloneVector(rec.Embedding), true
}

// Put stores a vector under (path, hash). Failures are logged and swallowed:
// a failed cache write never fails a search.
func (c *EmbeddingCache) Put(ctx context.Context, path, hash string, vector []float32) {
	rec := FileRecord{
		Path:      path,
		Hash:      hash,
		Embedding: cloneVector(vector),
		Timestamp: c.now().Unix(),
	}
	c.mem.Add(path, rec)

	data, err := encodeFileRecord(rec)
	if err != nil {
		c.log.Warn("embedding cache encode failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := c.store.Put(ctx, TableEmbeddings, path, data, c.now()); err != nil {
		c.log.Warn("embedding cache write failed", zap.String("path", path), zap.Error(err))
	}
}

// GetProject returns the whole-project snapshot for projectHash, or a miss.
func (c *EmbeddingCache) GetProject(ctx context.Context, projectHash string) (map[string][]float32, bool) {
	data, err := c.store.Get(ctx, TableProjects, projectHash)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("project cache read failed", zap.String("project", projectHash), zap.Error(err))
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}

	rec, err := decodeProjectRecord(data)
	if err != nil || rec.ProjectHash != projectHash {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("project").Inc()
	vectors := make(map[string][]float32, len(rec.FileEmbeddings))
	for path, vec := range rec.FileEmbeddings {
		vectors[path] = cloneVector(vec)
	}
	return vectors, true
}

// PutProject stores a whole-project snapshot. Failures are logged, never
// propagated.
func (c *EmbeddingCache) PutProject(ctx context.Context, projectHash string, vectors map[string][]float32) {
	rec := ProjectRecord{
		ProjectHash:    projectHash,
		FileEmbeddings: make(map[string][]float32, len(vectors)),
		Timestamp:      c.now().Unix(),
	}
	for path, vec := range vectors {
		rec.FileEmbeddings[path] = cloneVector(vec)
	}

	data, err := encodeProjectRecord(rec)
	if err != nil {
		c.log.Warn("project cache encode failed", zap.String("project", projectHash), zap.Error(err))
		return
	}
	if err := c.store.Put(ctx, TableProjects, projectHash, data, c.now()); err != nil {
		c.log.Warn("project cache write failed", zap.String("project", projectHash), zap.Error(err))
	}
}

// Sweep evicts records older than the TTL from both tables and clears the
// memory tier. Returns the number of persistent records removed.
func (c *EmbeddingCache) Sweep(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl)

	var total int64
	for _, table := range []string{TableEmbeddings, TableProjects} {
		deleted, err := c.store.SweepBefore(ctx, table, cutoff)
		if err != nil {
			c.log.Warn("cache sweep failed", zap.String("table", table), zap.Error(err))
			continue
		}
		total += deleted
	}

	if total > 0 {
		c.mem.Purge()
		metrics.SweepDeletions.Add(float64(total))
	}
	return total, nil
}

// Counts reports the number of persisted file and project records. Store
// failures degrade to zero counts.
func (c *EmbeddingCache) Counts(ctx context.Context) (files, projects int64) {
	files, _ = c.store.Count(ctx, TableEmbeddings)
	projects, _ = c.store.Count(ctx, TableProjects)
	return files, projects
}

// Clear drops every record in both tiers.
func (c *EmbeddingCache) Clear(ctx context.Context) {
	c.mem.Purge()
	for _, table := range []string{TableEmbeddings, TableProjects} {
		if err := c.store.Clear(ctx, table); err != nil {
			c.log.Warn("cache clear failed", zap.String("table", table), zap.Error(err))
		}
	}
}

// Close releases the underlying store.
func (c *EmbeddingCache) Close() error {
	return c.store.Close()
}

func cloneVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
