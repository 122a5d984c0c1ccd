package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creek-labs/creek-cli/internal/adapters/driven/watch"
	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch configured sources and re-ingest on change",
	Long: `Monitors every configured source directory and re-runs ingestion
whenever files are created or modified. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil {
		return errors.New("ingest service not configured")
	}

	paths := cfg.SourcePaths()
	if len(paths) == 0 {
		return errors.New("no sources configured; run 'creek config init' and set source paths")
	}

	// Map each watched path back to its ingestor so a change only
	// re-runs the source it belongs to.
	sourceByPath := make(map[string]string, len(paths))
	watched := make([]string, 0, len(paths))
	for name, path := range paths {
		sourceByPath[path] = name
		watched = append(watched, path)
	}
	sort.Strings(watched)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %d source(s). Press Ctrl+C to stop.\n", len(watched))

	err := watch.New().Watch(ctx, watched, func(change domain.SourceChange) {
		if change.Type == domain.ChangeDeleted {
			return
		}
		for path, name := range sourceByPath {
			if !withinPath(path, change.Path) {
				continue
			}
			logger.Info("Change in %s source (%s), re-ingesting", name, change.Path)
			result, err := orchestrator.Ingest(ctx, name, path)
			if err != nil {
				logger.Warn("Re-ingest of %s failed: %v", name, err)
				return
			}
			printIngestResult(cmd, name, result)
			return
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// withinPath reports whether child is root itself or lives under it.
func withinPath(root, child string) bool {
	root = filepath.Clean(root)
	child = filepath.Clean(child)
	return child == root || strings.HasPrefix(child, root+string(filepath.Separator))
}
