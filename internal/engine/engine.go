// Package engine orchestrates one search invocation: validation, parallel
// per-file scoring, classification, score combination, and deterministic
// ranking, all guarded by an epoch counter so stale invocations never
// deliver results.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ctxrank/internal/cache"
	"ctxrank/internal/classifier"
	"ctxrank/internal/embedder"
	"ctxrank/internal/graph"
	"ctxrank/internal/metrics"
	"ctxrank/internal/parser"
	"ctxrank/internal/scorer"
	"ctxrank/pkg/types"
)

// Validation and supersession errors.
var (
	// ErrNoFiles rejects an invocation before the pipeline starts.
	ErrNoFiles = errors.New("search requires at least one file")

	// ErrSuperseded marks an invocation whose results were dropped because
	// a newer search started before it finished.
	ErrSuperseded = errors.New("search superseded by a newer invocation")
)

// DefaultWorkers bounds per-file scoring concurrency, sized to avoid
// flooding the embedding provider.
const DefaultWorkers = 4

// StageFunc receives pipeline progress: a stage name and a percentage.
type StageFunc func(stage string, percent int)

// Request is one search invocation.
type Request struct {
	Query string
	Files []types.SourceFile

	// EntryPointFile, when set, forces that file's classification.
	EntryPointFile *types.SourceFile

	// OnStage, when set, receives progress callbacks.
	OnStage StageFunc
}

// Engine runs searches. Safe for concurrent use; concurrent invocations
// supersede each other by epoch.
type Engine struct {
	parser   *parser.Parser
	cache    *cache.EmbeddingCache
	semantic *scorer.Semantic
	class    *classifier.Classifier

	weights          Weights
	synergyThreshold float64
	functionCutoff   float64
	workers          int
	log              *zap.Logger

	epoch atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the signal combination weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithWorkers bounds scoring concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSynergyThreshold overrides the signal agreement threshold.
func WithSynergyThreshold(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.synergyThreshold = v
		}
	}
}

// WithFunctionCutoff overrides the relevantFunctions relevance cutoff.
func WithFunctionCutoff(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.functionCutoff = v
		}
	}
}

// WithClassifier substitutes a differently tuned classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.class = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSemantic substitutes a differently tuned semantic scorer. The scorer
// must be built over the same cache handed to New.
func WithSemantic(s *scorer.Semantic) Option {
	return func(e *Engine) {
		if s != nil {
			e.semantic = s
		}
	}
}

// New builds an Engine over a parser, an embedding cache, and an embedding
// provider. The provider may be nil for offline structural-only operation.
func New(p *parser.Parser, c *cache.EmbeddingCache, provider embedder.Embedder, opts ...Option) *Engine {
	e := &Engine{
		parser:           p,
		cache:            c,
		class:            classifier.New(),
		weights:          DefaultWeights(),
		synergyThreshold: DefaultSynergyThreshold,
		functionCutoff:   DefaultFunctionCutoff,
		workers:          DefaultWorkers,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.semantic == nil {
		e.semantic = scorer.NewSemantic(c, provider, scorer.WithSemanticLogger(e.log))
	}
	return e
}

// Search runs the full pipeline and returns ranked results wrapped in the
// keywordSearch envelope. A stale invocation returns ErrSuperseded.
func (e *Engine) Search(ctx context.Context, req Request) (types.SearchEvent, error) {
	if len(req.Files) == 0 {
		return types.SearchEvent{}, ErrNoFiles
	}

	epoch := e.epoch.Add(1)
	metrics.SearchesTotal.Inc()
	stage := req.OnStage
	if stage == nil {
		stage = func(string, int) {}
	}

	stage("parse", 0)
	files := withHashes(req.Files)
	parsed := make(map[string]types.ParsedFile, len(files))
	for _, f := range files {
		parsed[f.Path] = e.parser.Parse(f.Path, f.Content)
	}

	stage("graph", 20)
	deps := graph.Build(files, parsed)

	stage("embed", 35)
	session := e.semantic.Session(ctx, req.Query)
	projectHash := types.HashProject(files)
	snapshot, snapshotHit := e.cache.GetProject(ctx, projectHash)
	if snapshotHit {
		session.Preload(snapshot)
	}

	stage("score", 50)
	results := make([]types.QueryResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = e.scoreFile(gctx, req, f, parsed[f.Path], deps, session)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return types.SearchEvent{}, err
	}

	stage("rank", 85)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].File < results[j].File
	})

	// Results from a superseded epoch are dropped, never merged. In-flight
	// provider work above was allowed to finish; only delivery is gated.
	if e.epoch.Load() != epoch {
		metrics.SearchesSuperseded.Inc()
		return types.SearchEvent{}, ErrSuperseded
	}

	if !snapshotHit {
		if vectors := session.Vectors(); len(vectors) == len(files) {
			e.cache.PutProject(ctx, projectHash, vectors)
		}
	}

	stage("done", 100)
	return types.NewSearchEvent(req.Query, results), nil
}

// scoreFile computes all four signals for one file and combines them.
func (e *Engine) scoreFile(
	ctx context.Context,
	req Request,
	file types.SourceFile,
	parsedFile types.ParsedFile,
	deps *graph.Graph,
	session *scorer.Session,
) types.QueryResult {
	astScore, symbolMatches := scorer.Structural(req.Query, parsedFile)
	syntaxScore, snippets := scorer.Syntax(req.Query, file.Path, file.Content)
	llmScore := session.Score(ctx, file.Path, file.Content, file.ContentHash)

	verdict := e.class.Classify(classifier.Input{
		Path:          file.Path,
		Parsed:        parsedFile,
		InDegree:      deps.InDegree(file.Path),
		OutDegree:     deps.OutDegree(file.Path),
		ASTScore:      astScore,
		LLMScore:      llmScore,
		SyntaxScore:   syntaxScore,
		ExplicitEntry: req.EntryPointFile != nil && req.EntryPointFile.Path == file.Path,
	})

	return e.combine(file.Path, signals{
		ast:     astScore,
		llm:     llmScore,
		syntax:  syntaxScore,
		flan:    verdict.FlanScore,
		matches: symbolMatches,
	}, snippets, verdict)
}

// withHashes fills in any missing content hashes.
func withHashes(files []types.SourceFile) []types.SourceFile {
	out := make([]types.SourceFile, len(files))
	for i, f := range files {
		if f.ContentHash == "" {
			f.ContentHash = types.HashContent(f.Content)
		}
		out[i] = f
	}
	return out
}
