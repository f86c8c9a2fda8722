package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"ctxrank/internal/cache"
	"ctxrank/internal/embedder"
)

// Version is stamped at release time.
var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ctxrank %s\n", Version)
		fmt.Printf("  go:       %s\n", runtime.Version())
		fmt.Printf("  sqlite:   %s (%s)\n", cache.DriverName, cache.BuildMode)
		fmt.Printf("  embedder: %s\n", embedder.DetectProvider())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
