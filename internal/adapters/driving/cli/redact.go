package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/redact"
)

var (
	redactApply bool
	redactTypes []string
)

var redactCmd = &cobra.Command{
	Use:   "redact <path>",
	Short: "Redact sensitive data in place",
	Long: `Scans a file or directory and replaces sensitive matches with
[REDACTED:<type>] markers. Without --apply this is a dry run that only
reports what would change. Every applied redaction is appended to a
JSON log holding salted hashes, never the original text.`,
	Args: cobra.ExactArgs(1),
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().BoolVar(&redactApply, "apply", false, "rewrite files instead of reporting")
	redactCmd.Flags().StringSliceVar(&redactTypes, "types", nil, "pattern types to redact (default all)")
	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	scanner, err := redact.NewScanner(cfg.Redaction)
	if err != nil {
		return fmt.Errorf("configure scanner: %w", err)
	}

	matches, err := scanner.ScanDirectory(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !redactApply {
		cmd.Print(redact.FormatReport(matches))
		if len(matches) > 0 {
			cmd.Println("\nDry run: no files were modified. Re-run with --apply to redact.")
		}
		return nil
	}

	redactor, err := redact.NewRedactor(cfg.Redaction, scanner.Salt())
	if err != nil {
		return fmt.Errorf("configure redactor: %w", err)
	}

	logPath := filepath.Join(filepath.Dir(configStore.Path()), "redaction-log.json")
	seen := make(map[string]bool)
	var applied int
	for _, match := range matches {
		if seen[match.FilePath] {
			continue
		}
		seen[match.FilePath] = true

		entries, err := redactor.RedactFile(ctx, match.FilePath, redactTypes)
		if err != nil {
			return fmt.Errorf("redact %s: %w", match.FilePath, err)
		}
		if len(entries) == 0 {
			continue
		}
		applied += len(entries)

		if err := redact.LogRedactions(logPath, scanner.SaltHex(), entries); err != nil {
			return fmt.Errorf("log redactions: %w", err)
		}
	}

	cmd.Printf("Redacted %d match(es) in %d file(s).\n", applied, len(seen))
	return nil
}
