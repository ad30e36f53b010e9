package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the index",
	Long: `Ingests one or more files or directories. Directories are walked
recursively; files with unsupported extensions are skipped. Supported
formats: PDF, plain text, markdown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("No supported files found.")
		return nil
	}

	docs, err := normaliseFiles(ctx, paths)
	if err != nil {
		return err
	}

	reports, err := ingestService.IngestAll(ctx, docs)

	for _, report := range reports {
		line := fmt.Sprintf("  Ingested %s (%d chunks)", report.DocumentID, report.ChunksStored)
		if report.Truncated {
			line += " [truncated]"
		}
		cmd.Println(line)
	}
	if err != nil {
		return fmt.Errorf("some documents failed: %w", err)
	}

	cmd.Printf("Done: %d documents, index now holds %d chunks.\n",
		len(reports), vectorIndex.Len())
	return nil
}

// collectFiles expands the arguments into supported files. Unsupported
// files named explicitly are an error; inside directories they are skipped.
func collectFiles(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := filepath.Glob(arg)
		if err != nil || len(info) == 0 {
			info = []string{arg}
		}

		for _, path := range info {
			stat, err := statPath(path)
			if err != nil {
				return nil, err
			}

			if !stat.IsDir() {
				if _, ok := normaliserFor(path); !ok {
					return nil, fmt.Errorf("unsupported file type: %s: %w", path, domain.ErrUnsupportedType)
				}
				paths = append(paths, path)
				continue
			}

			err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if _, ok := normaliserFor(p); ok {
					paths = append(paths, p)
				} else {
					logger.Debug("Skipping unsupported file: %s", p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", path, err)
			}
		}
	}

	return paths, nil
}

// normaliseFiles runs each file through its normaliser.
func normaliseFiles(ctx context.Context, paths []string) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0, len(paths))
	for _, path := range paths {
		normaliser, _ := normaliserFor(path)
		doc, err := normaliser.Normalise(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("normalise %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func statPath(path string) (os.FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return stat, nil
}
