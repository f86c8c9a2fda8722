package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...Option) *EmbeddingCache {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(store, opts...)
}

func TestGet_MissOnEmptyCache(t *testing.T) {
	c := newTestCache(t)

	_, ok := c.Get(context.Background(), "auth/login.ts", "hash-a")
	assert.False(t, ok)
}

func TestPutGet_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	vec := []float32{0.1, 0.2, 0.3}
	c.Put(ctx, "auth/login.ts", "hash-a", vec)

	got, ok := c.Get(ctx, "auth/login.ts", "hash-a")
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestGet_StaleHashIsMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "auth/login.ts", "hash-a", []float32{1, 2})

	_, ok := c.Get(ctx, "auth/login.ts", "hash-b")
	assert.False(t, ok, "a changed content hash must never hit")

	// The original hash still hits.
	_, ok = c.Get(ctx, "auth/login.ts", "hash-a")
	assert.True(t, ok)
}

func TestGet_SurvivesMemoryTierEviction(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "a.ts", "h", []float32{42})
	c.mem.Purge() // force the persistent tier to serve

	got, ok := c.Get(ctx, "a.ts", "h")
	require.True(t, ok)
	assert.Equal(t, []float32{42}, got)
}

func TestGet_ReturnedVectorIsACopy(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "a.ts", "h", []float32{1, 2, 3})

	got, ok := c.Get(ctx, "a.ts", "h")
	require.True(t, ok)
	got[0] = 99

	again, ok := c.Get(ctx, "a.ts", "h")
	require.True(t, ok)
	assert.Equal(t, float32(1), again[0])
}

func TestProjectSnapshot_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	vectors := map[string][]float32{
		"a.ts": {0.1, 0.2},
		"b.ts": {0.3, 0.4},
	}
	c.PutProject(ctx, "project-hash-1", vectors)

	got, ok := c.GetProject(ctx, "project-hash-1")
	require.True(t, ok)
	assert.Equal(t, vectors, got)

	_, ok = c.GetProject(ctx, "project-hash-2")
	assert.False(t, ok, "a different project hash must miss")
}

func TestSweep_EvictsOnlyExpiredRecords(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }
	c := newTestCache(t, WithTTL(24*time.Hour), WithClock(clock))
	ctx := context.Background()

	c.Put(ctx, "old.ts", "h1", []float32{1})
	c.PutProject(ctx, "old-project", map[string][]float32{"old.ts": {1}})

	// Two days later, write a fresh record and sweep.
	current = current.Add(48 * time.Hour)
	c.Put(ctx, "fresh.ts", "h2", []float32{2})

	deleted, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, ok := c.Get(ctx, "old.ts", "h1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "fresh.ts", "h2")
	assert.True(t, ok)
}

func TestCounts(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	files, projects := c.Counts(ctx)
	assert.EqualValues(t, 0, files)
	assert.EqualValues(t, 0, projects)

	c.Put(ctx, "a.ts", "h", []float32{1})
	c.Put(ctx, "b.ts", "h", []float32{2})
	c.PutProject(ctx, "p", map[string][]float32{})

	files, projects = c.Counts(ctx)
	assert.EqualValues(t, 2, files)
	assert.EqualValues(t, 1, projects)
}

func TestClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "a.ts", "h", []float32{1})
	c.PutProject(ctx, "p", map[string][]float32{"a.ts": {1}})

	c.Clear(ctx)

	files, projects := c.Counts(ctx)
	assert.EqualValues(t, 0, files)
	assert.EqualValues(t, 0, projects)
	_, ok := c.Get(ctx, "a.ts", "h")
	assert.False(t, ok)
}

// failingStore simulates a broken persistence layer.
type failingStore struct{}

var errBroken = errors.New("disk on fire")

func (failingStore) Get(context.Context, string, string) ([]byte, error) { return nil, errBroken }
func (failingStore) Put(context.Context, string, string, []byte, time.Time) error {
	return errBroken
}
func (failingStore) Delete(context.Context, string, string) error { return errBroken }
func (failingStore) Clear(context.Context, string) error          { return errBroken }
func (failingStore) Count(context.Context, string) (int64, error) { return 0, errBroken }
func (failingStore) Close() error                                 { return nil }
func (failingStore) SweepBefore(context.Context, string, time.Time) (int64, error) {
	return 0, errBroken
}

func TestStoreFailures_DegradeToMissAndNoop(t *testing.T) {
	c := New(failingStore{})
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Put(ctx, "a.ts", "h", []float32{1})
		c.PutProject(ctx, "p", map[string][]float32{})
		c.Clear(ctx)

		_, err := c.Sweep(ctx)
		assert.NoError(t, err, "sweep errors are absorbed, not propagated")
	})

	// The memory tier still serves what Put staged there.
	got, ok := c.Get(ctx, "a.ts", "h")
	require.True(t, ok)
	assert.Equal(t, []float32{1}, got)

	// But a cold path is simply a miss.
	_, ok = c.Get(ctx, "other.ts", "h")
	assert.False(t, ok)
	_, ok = c.GetProject(ctx, "p")
	assert.False(t, ok)
}

func TestSQLiteStore_UnknownTableRejected(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.Get(context.Background(), "nope", "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_PutIsWholeRecordReplace(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, TableEmbeddings, "k", []byte("one"), time.Now()))
	require.NoError(t, store.Put(ctx, TableEmbeddings, "k", []byte("two"), time.Now()))

	got, err := store.Get(ctx, TableEmbeddings, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	count, err := store.Count(ctx, TableEmbeddings)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
