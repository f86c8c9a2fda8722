package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ctxrank/internal/engine"
	"ctxrank/internal/source"
	"ctxrank/pkg/types"
)

var (
	flagEntryPoint string
	flagLimit      int
	flagJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <path> <query...>",
	Short: "Rank project files by relevance to a query",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagEntryPoint, "entry-point", "", "project-relative file to force-classify as entry-point")
	searchCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the raw keywordSearch envelope as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")

	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.close()

	files, err := source.New(source.WithLogger(s.log)).Load(root)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	req := engine.Request{
		Query: query,
		Files: files,
		OnStage: func(stage string, percent int) {
			if flagVerbose {
				fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
			}
		},
	}
	if flagEntryPoint != "" {
		for i := range files {
			if files[i].Path == flagEntryPoint {
				req.EntryPointFile = &files[i]
				break
			}
		}
		if req.EntryPointFile == nil {
			return fmt.Errorf("entry-point %q not found under %s", flagEntryPoint, root)
		}
	}

	event, err := s.engine.Search(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flagLimit > 0 && len(event.Data.Files) > flagLimit {
		event.Data.Files = event.Data.Files[:flagLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(event)
	}

	printResults(event.Data.Files)
	return nil
}

func printResults(results []types.QueryResult) {
	for i, r := range results {
		synergy := ""
		if r.HasSynergy {
			synergy = " *"
		}
		fmt.Printf("%2d. %3d%%  %-12s %-10s %s%s\n",
			i+1, r.ScorePercentage, r.Classification, r.WorkflowPosition, r.File, synergy)

		for _, f := range r.RelevantFunctions {
			fmt.Printf("          - %s (%.2f)\n", f.Name, f.Relevance)
		}
	}
}
