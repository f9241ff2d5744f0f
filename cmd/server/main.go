// Package main is the entry point for the Wordcraft HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/ankiconnect"
	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/llm"
	"github.com/methuz/Wordcraft/internal/server"
	"github.com/methuz/Wordcraft/internal/service"
	"github.com/methuz/Wordcraft/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(os.Getenv("WORDCRAFT_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync fails on stdout/stderr on some platforms.
	defer func() { _ = logger.Sync() }()

	client, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}
	logger.Info("llm backend selected",
		zap.String("provider", client.ProviderName()),
		zap.String("model", client.ModelName()),
	)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	generations := storage.NewGenerationRepository(db)
	cardImports := storage.NewCardImportRepository(db)

	anki := ankiconnect.NewClient(cfg.Anki, logger)
	importer := service.NewImporter(anki, cardImports, cfg.Anki.CheckTimeout, logger)
	generator := service.NewGenerator(client, generations, logger)

	srv := server.New(cfg, server.Deps{
		Generator:   generator,
		Importer:    importer,
		Generations: generations,
		CardImports: cardImports,
	}, logger)

	if len(cfg.Auth.APIKeys) == 0 {
		logger.Warn("no API keys configured, deck endpoints will reject every request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
