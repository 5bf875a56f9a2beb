package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"campus-assist/internal/config"
	"campus-assist/internal/domain"
	"campus-assist/internal/embedding/hashing"
	"campus-assist/internal/embedding/openai"
	"campus-assist/internal/generation"
	"campus-assist/internal/knowledge"
	"campus-assist/internal/retrieval"
	"campus-assist/internal/service"
	"campus-assist/internal/tui"
	"campus-assist/internal/vectorindex/memory"
	"campus-assist/internal/vectorindex/qdrant"
	"campus-assist/internal/vectorindex/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dataPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/campus-assist/config.yaml if not provided)")
	flag.StringVar(&dataPath, "data", "", "Path to the campus data JSON file (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}

	emb := buildEmbedder(cfg)
	index := buildIndex(cfg)
	defer index.Close()

	gen, err := generation.NewAnthropicClient(generation.Config{
		APIKeyEnv: cfg.Generation.APIKeyEnv,
		Model:     cfg.Generation.Model,
		MaxTokens: cfg.Generation.MaxTokens,
		Timeout:   time.Duration(cfg.Generation.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("generation client init failed: %v (add the key to your .env file)", err)
	}

	records, err := knowledge.Load(cfg.Data.Path)
	if err != nil {
		log.Fatalf("failed to load campus data: %v", err)
	}

	ctx := context.Background()
	orch := retrieval.NewOrchestrator(emb, index)
	indexed, skipped, err := orch.IndexRecords(ctx, records)
	if err != nil {
		log.Fatalf("indexing failed: %v", err)
	}
	log.Printf("indexed %d documents (%d skipped)", indexed, skipped)

	assistant := service.NewAssistant(orch, gen, cfg.Retrieval.TopK)
	m := tui.New(assistant, indexed)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func buildEmbedder(cfg *config.AppConfig) domain.Embedder {
	switch cfg.Embedder.Type {
	case "hashing", "":
		return hashing.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		return client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
		return nil
	}
}

func buildIndex(cfg *config.AppConfig) domain.VectorIndex {
	switch cfg.Index.Type {
	case "memory", "":
		return memory.NewIndex()
	case "sqlite":
		path := "data/index.db"
		if cfg.Index.SQLite != nil && cfg.Index.SQLite.Path != "" {
			path = cfg.Index.SQLite.Path
		}
		index, err := sqlite.Open(path)
		if err != nil {
			log.Fatalf("sqlite index init failed: %v", err)
		}
		return index
	case "qdrant":
		if cfg.Index.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		index, err := qdrant.Open(qdrant.Config{
			Host:       cfg.Index.Qdrant.Host,
			Port:       cfg.Index.Qdrant.Port,
			Collection: cfg.Index.Qdrant.Collection,
		})
		if err != nil {
			log.Fatalf("qdrant index init failed: %v", err)
		}
		return index
	default:
		log.Fatalf("unknown vector index: %s", cfg.Index.Type)
		return nil
	}
}
