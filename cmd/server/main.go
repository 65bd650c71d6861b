package main

import (
	"log"
	"log/slog"

	"circuitsight/internal/analyzer"
	"circuitsight/internal/config"
	"circuitsight/internal/enhance"
	"circuitsight/internal/history"
	"circuitsight/internal/llm"
	"circuitsight/internal/server"
	"circuitsight/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	llmProvider, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer store.Close()

	analyzer := analyzer.New(
		enhance.New(),
		llmProvider,
		validation.NewEngine(),
		cfg.Image.MaxSize,
		cfg.Image.MaxDimension,
		cfg.LLM.Timeout,
	)

	srv := server.New(cfg.Server, analyzer, store)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
