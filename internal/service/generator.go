// Package service holds Wordcraft's two pipelines: generating a deck from
// an LLM and importing a deck into Anki.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/llm"
	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/storage"
)

// ErrGenerationFailed wraps every failure of Generate: backend errors and
// reply parsing errors alike. The underlying cause stays reachable with
// errors.Is.
var ErrGenerationFailed = errors.New("flashcard generation failed")

// Generator turns a learner's request into a validated deck.
type Generator struct {
	client      llm.Client
	generations storage.GenerationRepository // nil disables history
	logger      *zap.Logger
}

// NewGenerator creates a Generator. generations may be nil.
func NewGenerator(client llm.Client, generations storage.GenerationRepository, logger *zap.Logger) *Generator {
	return &Generator{
		client:      client,
		generations: generations,
		logger:      logger,
	}
}

// Generate asks the LLM for a deck and parses its reply. It returns either
// a complete deck or an error, never a partial deck.
func (g *Generator) Generate(ctx context.Context, request string) (*model.Deck, error) {
	g.logger.Info("generating flashcards",
		zap.String("provider", g.client.ProviderName()),
		zap.String("model", g.client.ModelName()),
	)

	start := time.Now()
	reply, err := g.client.Complete(ctx, SystemPrompt, request)
	if err != nil {
		g.record(ctx, request, nil, err, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	deck, err := model.ParseDeck(reply)
	g.record(ctx, request, deck, err, time.Since(start))
	if err != nil {
		g.logger.Debug("unparseable reply", zap.String("reply", reply))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	g.logger.Info("deck generated",
		zap.String("deck", deck.DeckName),
		zap.Int("cards", len(deck.Cards)),
		zap.Duration("took", time.Since(start)),
	)
	return deck, nil
}

// record writes the attempt to history. Failures here are logged only.
func (g *Generator) record(ctx context.Context, request string, deck *model.Deck, genErr error, took time.Duration) {
	if g.generations == nil {
		return
	}

	rec := &model.Generation{
		Request:    request,
		Provider:   g.client.ProviderName(),
		Model:      g.client.ModelName(),
		Success:    genErr == nil,
		DurationMs: took.Milliseconds(),
	}
	if deck != nil {
		rec.DeckName = &deck.DeckName
		rec.CardCount = len(deck.Cards)
	}
	if genErr != nil {
		msg := genErr.Error()
		rec.ErrorMessage = &msg
	}

	if err := g.generations.Create(ctx, rec); err != nil {
		g.logger.Error("recording generation", zap.Error(err))
	}
}
