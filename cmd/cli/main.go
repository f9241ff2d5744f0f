// Package main is the wordcraft command line tool: generate flashcard decks
// with an LLM and import them into Anki through AnkiConnect.
//
// Run with: go run ./cmd/cli generate
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

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/ankiconnect"
	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/llm"
	"github.com/methuz/Wordcraft/internal/prompt"
	"github.com/methuz/Wordcraft/internal/service"
	"github.com/methuz/Wordcraft/internal/storage"
)

// Swapped out in tests.
var (
	newLogger    = func() (*zap.Logger, error) { return zap.NewDevelopment() }
	newLLMClient = llm.New
	newPrompter  = func() prompt.Prompter { return prompt.NewHuhPrompter() }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

// rootCmd builds the command tree:
// wordcraft generate | import <file> | check | setup | history
func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "wordcraft",
		Short:        "Generate language-learning flashcards and import them into Anki",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading .env: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to a config file (default $WORDCRAFT_CONFIG_PATH)")

	root.AddCommand(
		generateCmd(opts),
		importCmd(opts),
		checkCmd(opts),
		setupCmd(opts),
		historyCmd(opts),
	)
	return root
}

// app holds what every command shares once config is loaded.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *sqlx.DB
	anki        *ankiconnect.Client
	importer    *service.Importer
	generations storage.GenerationRepository
	cardImports storage.CardImportRepository
	decks       *storage.DeckFiles
}

func newApp(opts *rootOptions) (*app, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = os.Getenv("WORDCRAFT_CONFIG_PATH")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	decks, err := storage.NewDeckFiles(cfg.Storage.DeckDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	anki := ankiconnect.NewClient(cfg.Anki, logger)
	cardImports := storage.NewCardImportRepository(db)
	return &app{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		anki:        anki,
		importer:    service.NewImporter(anki, cardImports, cfg.Anki.CheckTimeout, logger),
		generations: storage.NewGenerationRepository(db),
		cardImports: cardImports,
		decks:       decks,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	_ = a.logger.Sync()
}

// knownDecks lists Anki's decks for the deck picker. Failures just mean
// the user types the name instead.
func (a *app) knownDecks(ctx context.Context) []string {
	timeout := a.cfg.Anki.CheckTimeout
	if timeout <= 0 {
		timeout = service.DefaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := a.anki.DeckNames(ctx)
	if err != nil {
		a.logger.Debug("listing decks", zap.Error(err))
		return nil
	}
	return names
}
