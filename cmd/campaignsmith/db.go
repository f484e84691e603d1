package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/llm"
	"campaignsmith/internal/store"
	"campaignsmith/internal/store/postgres"
	"campaignsmith/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Database.DSN
	switch {
	case strings.HasPrefix(dsn, sqlite.Scheme):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, postgres.Scheme), strings.HasPrefix(dsn, postgres.AltScheme):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN scheme: %s", dsn)
	}
}

func loadSchema() (*config.Schema, error) {
	if _, err := os.Stat(config.DefaultSchemaFile); err != nil {
		return config.DefaultSchema(), nil
	}
	return config.LoadSchema(config.DefaultSchemaFile)
}

// newGenerator wires the completion client into the pipeline. Requires the
// OPENAI_API_KEY environment variable.
func newGenerator(cfg *config.ProjectConfig, schema *config.Schema, seed int64) (*generate.Generator, error) {
	apiKey, err := config.APIKeyFromEnv()
	if err != nil {
		return nil, err
	}

	client, err := llm.New(llm.Config{
		APIKey:           apiKey,
		Model:            cfg.OpenAI.Model,
		BaseURL:          cfg.OpenAI.BaseURL,
		Temperature:      cfg.OpenAI.Temperature,
		Timeout:          time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		MaxRetries:       cfg.OpenAI.MaxRetries,
		LogCompletions:   cfg.Generation.LogCompletions,
		CompletionLogDir: cfg.Generation.CompletionLogDir,
	})
	if err != nil {
		return nil, err
	}

	return generate.New(cfg, schema, client, seed), nil
}
