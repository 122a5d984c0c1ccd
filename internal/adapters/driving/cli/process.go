package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/adapters/driven/vault"
	"github.com/creek-labs/creek-cli/internal/classify"
	"github.com/creek-labs/creek-cli/internal/core/services"
	"github.com/creek-labs/creek-cli/internal/redact"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full pipeline: scan, ingest, classify, write",
	Long: `Processes every configured source end to end. Sources are scanned for
sensitive data, ingested into fragments, classified, and written into
the vault with provenance records.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil {
		return errors.New("ingest service not configured")
	}
	if cfg.VaultPath == "" {
		return errors.New("vault path not configured; run 'creek config init' and set vault_path")
	}

	scanner, err := redact.NewScanner(cfg.Redaction)
	if err != nil {
		return fmt.Errorf("configure scanner: %w", err)
	}

	writer, err := vault.NewWriter(cfg.VaultPath)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	defer writer.Close()

	pipeline := services.NewPipelineService(cfg, orchestrator, scanner, classify.New(), nil, writer)
	status, err := pipeline.Run(context.Background())
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	cmd.Printf("Scan findings:      %d\n", status.ScanFindings)
	cmd.Printf("Fragments ingested: %d\n", status.FragmentsIngested)
	cmd.Printf("Fragments written:  %d\n", status.FragmentsWritten)
	cmd.Printf("Duplicates skipped: %d\n", status.DuplicatesSkipped)
	cmd.Printf("Classified:         %d\n", status.Classified)
	cmd.Printf("Errors:             %d\n", status.ErrorCount)
	return nil
}
