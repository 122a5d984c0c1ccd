// Package cli provides the cobra command surface for Creek.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/adapters/driven/config/file"
	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/core/ports/driving"
	"github.com/creek-labs/creek-cli/internal/core/services"
	"github.com/creek-labs/creek-cli/internal/ingestors/chatgpt"
	"github.com/creek-labs/creek-cli/internal/ingestors/claude"
	"github.com/creek-labs/creek-cli/internal/ingestors/discord"
	"github.com/creek-labs/creek-cli/internal/ingestors/markdown"
	"github.com/creek-labs/creek-cli/internal/logger"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	verbose   bool
)

// Shared services wired by initServices before any command runs.
var (
	cfg          domain.Config
	configStore  driven.ConfigStore
	orchestrator driving.IngestOrchestrator
)

var rootCmd = &cobra.Command{
	Use:   "creek",
	Short: "Normalise personal data exports into a markdown vault",
	Long: `Creek ingests heterogeneous personal data exports (Claude, ChatGPT,
Discord, existing markdown) into uniform, content-addressed markdown
fragments, scanning for sensitive data before anything enters the vault.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.creek)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// initServices loads configuration and wires the ingest services.
// The ingestor registry is built once here, at the composition root.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store

	cfg, err = configStore.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := normalise.SetZone(cfg.Timezone); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}

	registry := map[string]driven.Ingestor{}
	for _, ingestor := range []driven.Ingestor{
		chatgpt.New(),
		claude.New(),
		discord.New(),
		markdown.New(),
	} {
		registry[ingestor.Name()] = ingestor
	}
	orchestrator = services.NewIngestOrchestrator(registry, cfg.SourcePaths())
	return nil
}
