package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctxrank/internal/cache"
	"ctxrank/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, log)
	if err != nil {
		return err
	}

	// TTL sweeps run on their cron schedule for as long as the server
	// lives.
	sweeper, err := cache.NewSweeper(server.Cache(), cfg.Cache.SweepSchedule, log)
	if err != nil {
		return err
	}
	sweeper.Start(cmd.Context())
	defer sweeper.Stop()

	log.Info("mcp server starting",
		zap.String("cache", cfg.Cache.Path),
		zap.String("sweep_schedule", cfg.Cache.SweepSchedule))
	return server.Serve(cmd.Context())
}
