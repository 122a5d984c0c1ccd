package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

var ingestType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest source exports into fragments",
	Long: `Runs the four-stage ingest pipeline (discover, parse, render, derive
metadata) over a source. With --type and a path, only that ingestor
runs; with no arguments every configured source is ingested.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "ingestor to run (chatgpt, claude, discord, markdown)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	if ingestType != "" {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			path = cfg.SourcePaths()[ingestType]
		}
		if path == "" {
			return fmt.Errorf("no path given and no source configured for %q", ingestType)
		}

		result, err := orchestrator.Ingest(ctx, ingestType, path)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printIngestResult(cmd, ingestType, result)
		return nil
	}

	results, err := orchestrator.IngestAll(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Printf("No sources configured. Available ingestors: %s\n",
			strings.Join(orchestrator.IngestorNames(), ", "))
		return nil
	}
	for _, name := range orchestrator.IngestorNames() {
		if result, ok := results[name]; ok {
			printIngestResult(cmd, name, result)
		}
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, name string, result *domain.IngestResult) {
	cmd.Printf("%s: %d fragment(s), %d provenance record(s), %d error(s)\n",
		name, len(result.Fragments), len(result.Provenance), len(result.Errors))
	for _, msg := range result.Errors {
		cmd.Printf("  error: %s\n", msg)
	}
}
