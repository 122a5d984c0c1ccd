package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Creek configuration",
	Long: `View and edit the Creek configuration file.

Use subcommands to initialise a default config or inspect the current one.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Creates the config file with default settings if it does not already exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Printf("Vault path:  %s\n", orDefault(cfg.VaultPath, "(not set)"))
	cmd.Printf("Timezone:    %s\n", cfg.Timezone)

	cmd.Println("\nSources:")
	paths := cfg.SourcePaths()
	if len(paths) == 0 {
		cmd.Println("  (none configured)")
	}
	for _, name := range []string{"chatgpt", "claude", "discord", "markdown"} {
		if path, ok := paths[name]; ok {
			cmd.Printf("  %-8s %s\n", name, path)
		}
	}

	cmd.Println("\nRedaction:")
	cmd.Printf("  enabled: %t\n", cfg.Redaction.Enabled)
	cmd.Printf("  dry run: %t\n", cfg.Redaction.DryRun)
	if len(cfg.Redaction.CustomPatterns) > 0 {
		cmd.Printf("  custom patterns: %d\n", len(cfg.Redaction.CustomPatterns))
	}

	cmd.Println("\nClassification:")
	cmd.Printf("  confidence threshold: %.2f\n", cfg.Classification.ConfidenceThreshold)
	cmd.Printf("  auto-classify: %s\n", strings.Join(cfg.Classification.AutoClassifySources, ", "))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if _, err := os.Stat(configStore.Path()); err == nil {
		cmd.Printf("Config already exists at %s\n", configStore.Path())
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("probe config: %w", err)
	}

	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Wrote default config to %s\n", configStore.Path())
	cmd.Println("Edit it to set vault_path and your source paths.")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configStore.Path())
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
