// Package config loads the YAML application configuration, applying defaults
// for anything left unset.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkingConfig configures the segmentation engine. OverlapTokens is a
// pointer so that an explicit zero survives default application.
type ChunkingConfig struct {
	ChunkSizeTokens int    `yaml:"chunk_size_tokens"`
	OverlapTokens   *int   `yaml:"overlap_tokens"`
	TokenizerModel  string `yaml:"tokenizer_model"`
}

// Overlap returns the configured overlap token count.
func (c ChunkingConfig) Overlap() int {
	if c.OverlapTokens == nil {
		return 0
	}
	return *c.OverlapTokens
}

// StoreConfig configures the vector store and its snapshot location.
type StoreConfig struct {
	Directory string `yaml:"directory"`
	Dimension int    `yaml:"dimension"`
	Metric    string `yaml:"metric"`
	Snapshot  string `yaml:"snapshot"`
}

// OpenAIConfig configures the embedding and completion clients.
type OpenAIConfig struct {
	BaseURL             string `yaml:"base_url"`
	APIKeyEnv           string `yaml:"api_key_env"`
	EmbeddingModel      string `yaml:"embedding_model"`
	CompletionModel     string `yaml:"completion_model"`
	EmbedTimeoutSecs    int    `yaml:"embed_timeout_secs"`
	CompleteTimeoutSecs int    `yaml:"complete_timeout_secs"`
	BatchSize           int    `yaml:"batch_size"`
	MaxAnswerTokens     int    `yaml:"max_answer_tokens"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DocsDir  string         `yaml:"docs_dir"`
	TopK     int            `yaml:"top_k"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Store    StoreConfig    `yaml:"store"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
}

// Load reads a config from the given path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml,
// falling back to defaults when neither exists.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), "", nil
	}
	userPath := filepath.Join(home, ".config", "docqa", "config.yaml")
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return defaultConfig(), "", nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.DocsDir == "" {
		cfg.DocsDir = "./docs"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	if cfg.Chunking.ChunkSizeTokens == 0 {
		cfg.Chunking.ChunkSizeTokens = 1000
	}
	if cfg.Chunking.OverlapTokens == nil {
		overlap := 200
		cfg.Chunking.OverlapTokens = &overlap
	}
	if cfg.Chunking.TokenizerModel == "" {
		cfg.Chunking.TokenizerModel = "gpt-4"
	}
	if cfg.Store.Directory == "" {
		cfg.Store.Directory = "./vector_db"
	}
	if cfg.Store.Dimension == 0 {
		cfg.Store.Dimension = 1536
	}
	if cfg.Store.Metric == "" {
		cfg.Store.Metric = "l2"
	}
	if cfg.Store.Snapshot == "" {
		cfg.Store.Snapshot = "vector_store"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.CompletionModel == "" {
		cfg.OpenAI.CompletionModel = "gpt-4o"
	}
	if cfg.OpenAI.EmbedTimeoutSecs == 0 {
		cfg.OpenAI.EmbedTimeoutSecs = 30
	}
	if cfg.OpenAI.CompleteTimeoutSecs == 0 {
		cfg.OpenAI.CompleteTimeoutSecs = 60
	}
	if cfg.OpenAI.BatchSize == 0 {
		cfg.OpenAI.BatchSize = 100
	}
	if cfg.OpenAI.MaxAnswerTokens == 0 {
		cfg.OpenAI.MaxAnswerTokens = 1000
	}
}
