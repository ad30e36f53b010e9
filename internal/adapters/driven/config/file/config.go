// Package file provides a TOML-backed configuration store.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// Config is the on-disk configuration, stored as TOML in the contextiq
// config directory. Zero values mean "use the default".
type Config struct {
	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
}

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	Size      int `toml:"size"`
	Overlap   int `toml:"overlap"`
	MaxChunks int `toml:"max_chunks"`
}

// RetrievalConfig controls search behaviour and confidence labelling.
type RetrievalConfig struct {
	TopK             int     `toml:"top_k"`
	HighConfidence   float64 `toml:"high_confidence"`
	MediumConfidence float64 `toml:"medium_confidence"`
}

// EmbeddingConfig selects and configures the embedding provider.
// Provider is one of "local", "openai" or "ollama".
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	Dimensions int    `toml:"dimensions"`
}

// GenerationConfig selects and configures the answer generator.
// Provider is one of "groq", "gemini" or "none".
type GenerationConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// DefaultConfig returns a configuration with all defaults filled in.
func DefaultConfig() Config {
	chunkDefaults := domain.DefaultChunkConfig()
	thresholds := domain.DefaultConfidenceThresholds()
	return Config{
		Chunking: ChunkingConfig{
			Size:      chunkDefaults.Size,
			Overlap:   chunkDefaults.Overlap,
			MaxChunks: chunkDefaults.MaxChunks,
		},
		Retrieval: RetrievalConfig{
			TopK:             5,
			HighConfidence:   thresholds.High,
			MediumConfidence: thresholds.Medium,
		},
		Embedding: EmbeddingConfig{
			Provider: "local",
		},
		Generation: GenerationConfig{
			Provider: "none",
		},
	}
}

// ChunkConfig converts the chunking section into domain settings.
func (c Config) ChunkConfig() domain.ChunkConfig {
	return domain.ChunkConfig{
		Size:      c.Chunking.Size,
		Overlap:   c.Chunking.Overlap,
		MaxChunks: c.Chunking.MaxChunks,
	}
}

// ConfidenceThresholds converts the retrieval section into domain settings.
func (c Config) ConfidenceThresholds() domain.ConfidenceThresholds {
	return domain.ConfidenceThresholds{
		High:   c.Retrieval.HighConfidence,
		Medium: c.Retrieval.MediumConfidence,
	}
}

// Store loads and persists a Config as a TOML file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	config   Config
}

// NewStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.contextiq/config.toml.
// A missing file yields the defaults; the file is only created on Save.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".contextiq")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &Store{
		filePath: filepath.Join(configDir, "config.toml"),
		config:   DefaultConfig(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update replaces the configuration and persists it.
func (s *Store) Update(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return s.save()
}

// Save persists the current configuration to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the TOML file (caller must hold lock).
func (s *Store) save() error {
	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Restricted permissions: the file may hold provider settings.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Load reads the TOML file. Fields absent from the file keep their
// defaults; a missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = DefaultConfig()
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	s.config = cfg
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}
