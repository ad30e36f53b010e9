// Package cli implements the contextiq command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextiq-labs/contextiq/internal/adapters/driven/config/file"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/embedding/local"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/embedding/ollama"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/embedding/openai"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/llm/gemini"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/llm/groq"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/storage/sqlite"
	"github.com/contextiq-labs/contextiq/internal/adapters/driven/vector/memory"
	"github.com/contextiq-labs/contextiq/internal/chunker"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driving"
	"github.com/contextiq-labs/contextiq/internal/core/services"
	"github.com/contextiq-labs/contextiq/internal/logger"
	"github.com/contextiq-labs/contextiq/internal/normalisers/pdf"
	"github.com/contextiq-labs/contextiq/internal/normalisers/plaintext"
)

var version = "0.1.0"

var (
	verbose   bool
	configDir string
	dataDir   string
)

// Application state wired up in initApp.
var (
	configStore      *file.Store
	docStore         driven.DocumentStore
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	generator        driven.Generator
	normaliserList   []driven.Normaliser

	ingestService   driving.IngestService
	retrieveService driving.RetrieveService
	answerService   driving.AnswerService
)

var rootCmd = &cobra.Command{
	Use:   "contextiq",
	Short: "Ask questions over your own documents",
	Long: `ContextIQ ingests PDF, text and markdown documents, indexes them by
semantic similarity and answers questions grounded in their content,
with page-level attribution.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Nothing to wire for commands that never touch the pipeline.
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initApp(cmd.Context())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		teardownApp()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.contextiq)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.contextiq/data)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp wires configuration, storage, providers and services, then
// rebuilds the vector index from the persisted chunks.
func initApp(ctx context.Context) error {
	logger.Section("Startup")

	var err error
	configStore, err = file.NewStore(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := configStore.Config()
	logger.Debug("Config: %s", configStore.Path())

	embeddingService, err = buildEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	logger.Debug("Embedding: %s (%d dimensions)",
		embeddingService.ModelName(), embeddingService.Dimensions())

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	docStore = store
	logger.Debug("Store: %s", store.Path())

	vectorIndex = memory.NewIndex()
	if err := rebuildIndex(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	logger.Debug("Index: %d entries", vectorIndex.Len())

	generator, err = buildGenerator(ctx, cfg.Generation)
	if err != nil {
		return fmt.Errorf("generation provider: %w", err)
	}

	ch, err := chunker.New(cfg.ChunkConfig())
	if err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	normaliserList = []driven.Normaliser{pdf.New(), plaintext.New()}

	ingestService = services.NewIngestService(ch, embeddingService, vectorIndex, docStore)
	retrieveService = services.NewRetrieveService(embeddingService, vectorIndex, cfg.ConfidenceThresholds())
	if generator != nil {
		answerService = services.NewAnswerService(retrieveService, generator)
	}

	return nil
}

// teardownApp closes whatever initApp opened.
func teardownApp() {
	if embeddingService != nil {
		_ = embeddingService.Close()
	}
	if generator != nil {
		_ = generator.Close()
	}
	if vectorIndex != nil {
		_ = vectorIndex.Close()
	}
	if docStore != nil {
		_ = docStore.Close()
	}
}

// rebuildIndex loads persisted chunks in insertion order, so equal-score
// ranking ties resolve the same way across restarts.
func rebuildIndex(ctx context.Context) error {
	chunks, err := docStore.LoadChunks(ctx)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	entries := make([]driven.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.Entry{
			Meta: driven.EntryMeta{
				DocumentID: chunk.DocumentID,
				Page:       chunk.Page,
				ChunkIndex: chunk.Index,
				Content:    chunk.Content,
			},
			Vector: chunk.Embedding,
		}
	}
	return vectorIndex.Insert(ctx, entries)
}

// buildEmbedder constructs the configured embedding provider.
func buildEmbedder(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", "local":
		return local.NewEmbeddingService(local.Config{Dimensions: cfg.Dimensions})

	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})

	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want local, openai or ollama)", cfg.Provider)
	}
}

// buildGenerator constructs the configured generation provider, or nil
// when generation is disabled.
func buildGenerator(ctx context.Context, cfg file.GenerationConfig) (driven.Generator, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil

	case "groq":
		return groq.NewGenerator(groq.Config{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case "gemini":
		return gemini.NewGenerator(ctx, gemini.Config{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unknown generation provider %q (want groq, gemini or none)", cfg.Provider)
	}
}

// normaliserFor picks the normaliser for a path by extension.
func normaliserFor(path string) (driven.Normaliser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, n := range normaliserList {
		if n.Supports(ext) {
			return n, true
		}
	}
	return nil, false
}
