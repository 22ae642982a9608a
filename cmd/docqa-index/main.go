package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/service"
	"docqa/internal/token"
	"docqa/internal/vectorstore/flat"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "path to YAML config file (optional)")
	docsDir := flag.String("docs", "", "documentation directory to index (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	root := cfg.DocsDir
	if *docsDir != "" {
		root = *docsDir
	}

	counter := token.NewCounter()
	count, err := counter.ForModel(cfg.Chunking.TokenizerModel)
	if err != nil {
		log.Fatalf("failed to resolve tokenizer: %v", err)
	}

	store, err := flat.New(cfg.Store.Dimension, flat.Metric(cfg.Store.Metric), cfg.Store.Directory)
	if err != nil {
		log.Fatalf("failed to create vector store: %v", err)
	}
	embedder, err := embedding.NewOpenAIEmbedder(embedding.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.EmbeddingModel,
		Dimension: cfg.Store.Dimension,
		Timeout:   time.Duration(cfg.OpenAI.EmbedTimeoutSecs) * time.Second,
		BatchSize: cfg.OpenAI.BatchSize,
	})
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	indexer := service.NewIndexer(embedder, store, cfg.Chunking.ChunkSizeTokens, cfg.Chunking.Overlap(), count)

	log.Printf("indexing %s ...", root)
	stats, err := indexer.Ingest(context.Background(), root)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	log.Printf("indexed %d chunks from %d files (%d skipped)", stats.Chunks, stats.Files, stats.Skipped)

	if err := store.Save(cfg.Store.Snapshot); err != nil {
		log.Fatalf("failed to save snapshot: %v", err)
	}
	log.Printf("snapshot %q saved to %s", cfg.Store.Snapshot, cfg.Store.Directory)
}
