package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg.Chunking.ChunkSizeTokens != 1000 || cfg.Chunking.Overlap() != 200 {
		t.Errorf("chunking defaults = %+v", cfg.Chunking)
	}
	if cfg.Store.Dimension != 1536 || cfg.Store.Metric != "l2" || cfg.Store.Snapshot != "vector_store" {
		t.Errorf("store defaults = %+v", cfg.Store)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" || cfg.OpenAI.CompletionModel != "gpt-4o" {
		t.Errorf("openai defaults = %+v", cfg.OpenAI)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK default = %d", cfg.TopK)
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
docs_dir: ./manuals
chunking:
  chunk_size_tokens: 500
store:
  metric: ip
  dimension: 768
openai:
  embedding_model: custom-embed
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DocsDir != "./manuals" {
		t.Errorf("DocsDir = %q", cfg.DocsDir)
	}
	if cfg.Chunking.ChunkSizeTokens != 500 {
		t.Errorf("ChunkSizeTokens = %d", cfg.Chunking.ChunkSizeTokens)
	}
	// Unset fields still get defaults.
	if cfg.Chunking.Overlap() != 200 {
		t.Errorf("Overlap() = %d, want default", cfg.Chunking.Overlap())
	}
	if cfg.Store.Metric != "ip" || cfg.Store.Dimension != 768 {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.OpenAI.EmbeddingModel != "custom-embed" {
		t.Errorf("EmbeddingModel = %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.CompletionModel != "gpt-4o" {
		t.Errorf("CompletionModel = %q, want default", cfg.OpenAI.CompletionModel)
	}
}

func TestLoad_ExplicitZeroOverlapKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
chunking:
  overlap_tokens: 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chunking.Overlap() != 0 {
		t.Errorf("Overlap() = %d, explicit zero must not be replaced by the default", cfg.Chunking.Overlap())
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunking: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
