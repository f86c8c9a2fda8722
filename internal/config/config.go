// Package config loads the TOML configuration file and applies defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"ctxrank/internal/cache"
	"ctxrank/internal/engine"
	"ctxrank/internal/scorer"
)

type Config struct {
	Scoring  Scoring  `toml:"scoring"`
	Workers  int      `toml:"workers"`
	Cache    Cache    `toml:"cache"`
	Embedder Embedder `toml:"embedder"`
}

type Scoring struct {
	Weights          engine.Weights `toml:"weights"`
	SynergyThreshold float64        `toml:"synergy_threshold"`
	UnrelatedFloor   float64        `toml:"unrelated_floor"`
	FunctionCutoff   float64        `toml:"function_cutoff"`
}

type Cache struct {
	Path          string        `toml:"path"`
	TTL           time.Duration `toml:"ttl"`
	SweepSchedule string        `toml:"sweep_schedule"`
}

type Embedder struct {
	Provider      string `toml:"provider"`
	APIKey        string `toml:"api_key"`
	ContentBudget int    `toml:"content_budget"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scoring: Scoring{
			Weights:          engine.DefaultWeights(),
			SynergyThreshold: engine.DefaultSynergyThreshold,
			UnrelatedFloor:   0.05,
			FunctionCutoff:   engine.DefaultFunctionCutoff,
		},
		Workers: engine.DefaultWorkers,
		Cache: Cache{
			Path:          defaultCachePath(),
			TTL:           cache.DefaultTTL,
			SweepSchedule: cache.DefaultSweepSchedule,
		},
		Embedder: Embedder{
			ContentBudget: scorer.DefaultContentBudget,
		},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ctxrank.db"
	}
	return home + "/.ctxrank/cache.db"
}

// Load reads a TOML file and fills unset fields with defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot work with.
func (c *Config) Validate() error {
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"ast": w.AST, "llm": w.LLM, "syntax": w.Syntax, "flan": w.Flan,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: weight %s must be in [0,1], got %v", name, v)
		}
	}
	if sum := w.AST + w.LLM + w.Syntax + w.Flan; sum <= 0 || sum > 1.000001 {
		return fmt.Errorf("config: weights must sum to at most 1, got %v", sum)
	}

	if c.Scoring.SynergyThreshold <= 0 || c.Scoring.SynergyThreshold >= 1 {
		return fmt.Errorf("config: synergy_threshold must be in (0,1), got %v", c.Scoring.SynergyThreshold)
	}
	if c.Scoring.UnrelatedFloor <= 0 || c.Scoring.UnrelatedFloor >= 1 {
		return fmt.Errorf("config: unrelated_floor must be in (0,1), got %v", c.Scoring.UnrelatedFloor)
	}
	if c.Scoring.FunctionCutoff < 0 || c.Scoring.FunctionCutoff > 1 {
		return fmt.Errorf("config: function_cutoff must be in [0,1], got %v", c.Scoring.FunctionCutoff)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache ttl must be positive, got %v", c.Cache.TTL)
	}
	return nil
}
