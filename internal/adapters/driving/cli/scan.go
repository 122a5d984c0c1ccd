package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/redact"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan files for sensitive data",
	Long: `Scans a file or directory for API keys, passwords, SSNs, emails and
any configured custom patterns. Findings are reported by type and file
with salted hashes only; the matched text is never stored or printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner, err := redact.NewScanner(cfg.Redaction)
	if err != nil {
		return fmt.Errorf("configure scanner: %w", err)
	}

	matches, err := scanner.ScanDirectory(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cmd.Print(redact.FormatReport(matches))
	return nil
}
