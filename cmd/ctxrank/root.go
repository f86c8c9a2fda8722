package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctxrank/internal/cache"
	"ctxrank/internal/classifier"
	"ctxrank/internal/config"
	"ctxrank/internal/embedder"
	"ctxrank/internal/engine"
	"ctxrank/internal/parser"
	"ctxrank/internal/scorer"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ctxrank",
	Short: "Multi-signal code context relevance ranking",
	Long: `ctxrank ranks the files of a project by relevance to a natural-language
query, combining structural, semantic, and syntax signals with an
architectural-role classification per file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func buildLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

// stack bundles the wired application dependencies for a command run.
type stack struct {
	cfg      *config.Config
	log      *zap.Logger
	cache    *cache.EmbeddingCache
	provider embedder.Embedder
	engine   *engine.Engine
}

func (s *stack) close() {
	_ = s.cache.Close()
	_ = s.provider.Close()
	_ = s.log.Sync()
}

func buildStack() (*stack, error) {
	log, err := buildLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	embCache := cache.New(store,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithLogger(log))

	provider, err := embedder.New(cfg.Embedder.Provider, cfg.Embedder.APIKey)
	if err != nil {
		_ = embCache.Close()
		return nil, fmt.Errorf("initialize embedder: %w", err)
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

	return &stack{
		cfg:      cfg,
		log:      log,
		cache:    embCache,
		provider: provider,
		engine:   eng,
	}, nil
}
