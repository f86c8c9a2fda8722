package scorer

import (
	"context"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"ctxrank/internal/cache"
	"ctxrank/internal/embedder"
	"ctxrank/pkg/types"
)

// DefaultContentBudget caps how many bytes of file content are sent to the
// embedding provider. Roughly a 2000-token budget.
const DefaultContentBudget = 8192

// Semantic computes the embedding-similarity signal. Lookups go through the
// cache before any provider call; provider failure degrades the signal to
// zero for the affected file.
type Semantic struct {
	cache    *cache.EmbeddingCache
	provider embedder.Embedder
	budget   int
	log      *zap.Logger
}

// SemanticOption configures a Semantic scorer.
type SemanticOption func(*Semantic)

// WithContentBudget overrides the per-file content budget in bytes.
func WithContentBudget(n int) SemanticOption {
	return func(s *Semantic) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithSemanticLogger attaches a logger.
func WithSemanticLogger(log *zap.Logger) SemanticOption {
	return func(s *Semantic) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSemantic builds the semantic scorer over a cache and a provider. The
// provider may be nil, in which case every score is zero.
func NewSemantic(c *cache.EmbeddingCache, provider embedder.Embedder, opts ...SemanticOption) *Semantic {
	s := &Semantic{
		cache:    c,
		provider: provider,
		budget:   DefaultContentBudget,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session embeds the query once and returns a per-invocation scoring session.
// A failed query embedding yields a session that scores every file zero.
type Session struct {
	parent   *Semantic
	queryVec []float32

	mu       sync.Mutex
	computed map[string][]float32
	preload  map[string][]float32
}

// Session starts a scoring session for one search invocation.
func (s *Semantic) Session(ctx context.Context, query string) *Session {
	sess := &Session{
		parent:   s,
		computed: make(map[string][]float32),
	}

	if s.provider == nil {
		return sess
	}

	// Query embeddings go through the same cache as file embeddings, keyed
	// under a synthetic path, so repeated searches stay provider-silent.
	hash := types.HashContent(query)
	key := "query://" + hash
	if vec, ok := s.cache.Get(ctx, key, hash); ok {
		sess.queryVec = vec
		return sess
	}

	vec, err := s.provider.Embed(ctx, query)
	if err != nil {
		s.log.Warn("query embedding failed, semantic signal disabled for this search", zap.Error(err))
		return sess
	}
	s.cache.Put(ctx, key, hash, vec)
	sess.queryVec = vec
	return sess
}

// Preload supplies a whole-project vector snapshot so files it covers skip
// both the cache and the provider.
func (sess *Session) Preload(vectors map[string][]float32) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.preload = vectors
}

// Vectors returns every file vector this session resolved, for writing a
// project snapshot afterwards.
func (sess *Session) Vectors() map[string][]float32 {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make(map[string][]float32, len(sess.computed))
	for path, vec := range sess.computed {
		out[path] = vec
	}
	return out
}

// Score returns the llmScore for one file: cosine similarity between the
// query vector and the file vector, remapped from [-1,1] to [0,1]. Any
// failure along the way is a zero, never an error.
func (sess *Session) Score(ctx context.Context, path, content, hash string) float64 {
	if sess.queryVec == nil {
		return 0
	}

	vec := sess.fileVector(ctx, path, content, hash)
	if vec == nil {
		return 0
	}

	sess.mu.Lock()
	sess.computed[path] = vec
	sess.mu.Unlock()

	return (embedder.Cosine(sess.queryVec, vec) + 1) / 2
}

func (sess *Session) fileVector(ctx context.Context, path, content, hash string) []float32 {
	sess.mu.Lock()
	preloaded, ok := sess.preload[path]
	sess.mu.Unlock()
	if ok {
		return preloaded
	}

	if vec, ok := sess.parent.cache.Get(ctx, path, hash); ok {
		return vec
	}

	vec, err := sess.parent.provider.Embed(ctx, truncate(content, sess.parent.budget))
	if err != nil {
		sess.parent.log.Warn("file embedding failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	sess.parent.cache.Put(ctx, path, hash, vec)
	return vec
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
