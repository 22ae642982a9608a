package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/completion"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/service"
	"docqa/internal/tui"
	"docqa/internal/vectorstore/flat"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "path to YAML config file (optional)")
	question := flag.String("q", "", "ask a single question and exit instead of starting the TUI")
	topK := flag.Int("k", 0, "number of chunks to retrieve per question")
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

	store, err := flat.New(cfg.Store.Dimension, flat.Metric(cfg.Store.Metric), cfg.Store.Directory)
	if err != nil {
		log.Fatalf("failed to create vector store: %v", err)
	}
	// A missing or unreadable snapshot is not fatal: the assistant answers
	// with its degraded message until the index exists.
	found, err := store.Load(cfg.Store.Snapshot)
	if err != nil {
		log.Printf("snapshot load failed: %v", err)
	} else if !found {
		log.Printf("no snapshot found in %s; run docqa-index first", cfg.Store.Directory)
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
	completer, err := completion.NewOpenAICompleter(completion.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.CompletionModel,
		Timeout:   time.Duration(cfg.OpenAI.CompleteTimeoutSecs) * time.Second,
		MaxTokens: cfg.OpenAI.MaxAnswerTokens,
	})
	if err != nil {
		log.Fatalf("failed to create completer: %v", err)
	}

	assistant := service.NewAssistant(embedder, completer, store)
	k := *topK
	if k <= 0 {
		k = cfg.TopK
	}

	if *question != "" {
		ans, err := assistant.Answer(context.Background(), *question, k)
		if err != nil {
			log.Fatalf("answer failed: %v", err)
		}
		fmt.Println(ans.Text)
		for i, src := range ans.Sources {
			fmt.Printf("\n[%d] %s (score=%.4f)\n%s\n", i+1, src.Metadata["source"], src.Score, src.Content)
		}
		return
	}

	if _, err := tea.NewProgram(tui.New(assistant, k)).Run(); err != nil {
		log.Fatal(err)
	}
}
