package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"ctxrank/internal/cache"
	"ctxrank/internal/classifier"
	"ctxrank/internal/config"
	"ctxrank/internal/embedder"
	"ctxrank/internal/engine"
	"ctxrank/internal/parser"
	"ctxrank/internal/scorer"
	"ctxrank/internal/source"
)

const (
	// ServerName is the MCP server name
	ServerName = "ctxrank"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	engine   *engine.Engine
	loader   *source.Loader
	cache    *cache.EmbeddingCache
	provider embedder.Embedder
	cfg      *config.Config
	log      *zap.Logger
}

// NewServer wires the cache, embedder, and engine from configuration and
// registers the tools.
func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	embCache := cache.New(store,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithLogger(log))

	provider, err := embedder.New(cfg.Embedder.Provider, cfg.Embedder.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	eng := engine.New(parser.New(), embCache, provider,
		engine.WithWeights(cfg.Scoring.Weights),
		engine.WithWorkers(cfg.Workers),
		engine.WithSynergyThreshold(cfg.Scoring.SynergyThreshold),
		engine.WithFunctionCutoff(cfg.Scoring.FunctionCutoff),
		engine.WithClassifier(classifier.New(classifier.WithUnrelatedFloor(cfg.Scoring.UnrelatedFloor))),
		engine.WithSemantic(scorer.NewSemantic(embCache, provider,
			scorer.WithContentBudget(cfg.Embedder.ContentBudget),
			scorer.WithSemanticLogger(log))),
		engine.WithLogger(log))

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		engine:   eng,
		loader:   source.New(source.WithLogger(log)),
		cache:    embCache,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
	s.registerTools()
	return s, nil
}

// Cache exposes the embedding cache, for wiring the TTL sweeper.
func (s *Server) Cache() *cache.EmbeddingCache { return s.cache }

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.cache.Close() }()
	defer func() { _ = s.provider.Close() }()
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchContextTool(), s.handleSearchContext)
	s.mcp.AddTool(cacheStatusTool(), s.handleCacheStatus)
	s.mcp.AddTool(clearCacheTool(), s.handleClearCache)
}
