package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/contextiq-labs/contextiq/internal/logger"
)

// watchSettle is how long a file must be quiet before ingestion. Editors
// and downloads write in bursts.
const watchSettle = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new documents",
	Long: `Watches a directory and ingests supported files as they appear or
change. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	cmd.Printf("Watching %s (ctrl-c to stop)...\n", dir)

	// Pending paths settle before ingestion; repeated writes reset the
	// timer for that path.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, supported := normaliserFor(event.Name); !supported {
				continue
			}
			logger.Debug("File event: %s %s", event.Op, event.Name)
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < watchSettle {
					continue
				}
				delete(pending, path)

				if err := ingestPath(cmd, path); err != nil {
					logger.Warn("Ingestion of %s failed: %v", path, err)
				}
			}

		case <-sigCh:
			cmd.Println("\nStopping.")
			return nil
		}
	}
}

// ingestPath normalises and ingests a single settled file.
func ingestPath(cmd *cobra.Command, path string) error {
	normaliser, ok := normaliserFor(path)
	if !ok {
		return nil
	}

	doc, err := normaliser.Normalise(cmd.Context(), path)
	if err != nil {
		return err
	}

	report, err := ingestService.Ingest(cmd.Context(), doc)
	if err != nil {
		return err
	}

	cmd.Printf("  Ingested %s (%d chunks)\n", path, report.ChunksStored)
	return nil
}
