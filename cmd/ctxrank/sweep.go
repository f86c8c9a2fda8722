package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ctxrank/internal/cache"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evict expired embedding cache records now",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0o755); err != nil {
		return err
	}
	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return err
	}
	c := cache.New(store, cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(log))
	defer func() { _ = c.Close() }()

	deleted, err := c.Sweep(cmd.Context())
	if err != nil {
		return err
	}

	files, projects := c.Counts(cmd.Context())
	fmt.Printf("swept %d expired records (%d file embeddings, %d project snapshots remain)\n",
		deleted, files, projects)
	return nil
}
