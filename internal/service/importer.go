package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/storage"
)

// DefaultCheckTimeout bounds the AnkiConnect health check.
const DefaultCheckTimeout = 2 * time.Second

// CardStore is the part of the AnkiConnect client the importer needs.
// *ankiconnect.Client satisfies it.
type CardStore interface {
	CheckConnection(ctx context.Context) error
	EnsureModel(ctx context.Context) (bool, error)
	CreateDeck(ctx context.Context, name string) error
	AddCard(ctx context.Context, deck string, card model.Flashcard) (int64, error)
}

// ImportOptions controls where cards go.
type ImportOptions struct {
	// ExistingDeck, when set, receives the cards instead of a new deck
	// named after the generated one. No createDeck call is made for it.
	ExistingDeck string
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Deck         string `json:"deck"`
	Total        int    `json:"total"`
	Added        int    `json:"added"`
	ModelCreated bool   `json:"model_created"`
	DeckCreated  bool   `json:"deck_created"`
}

// Importer materializes a deck in Anki: health check, note type, deck,
// then one card at a time in deck order.
type Importer struct {
	store        CardStore
	imports      storage.CardImportRepository // nil disables history
	checkTimeout time.Duration
	logger       *zap.Logger

	// mu serializes runs so the note type check-then-create never races.
	mu sync.Mutex
}

// NewImporter creates an Importer. A non-positive checkTimeout uses
// DefaultCheckTimeout. imports may be nil.
func NewImporter(store CardStore, imports storage.CardImportRepository, checkTimeout time.Duration, logger *zap.Logger) *Importer {
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}
	return &Importer{
		store:        store,
		imports:      imports,
		checkTimeout: checkTimeout,
		logger:       logger,
	}
}

// CheckConnection runs the health check under the importer's timeout.
func (i *Importer) CheckConnection(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, i.checkTimeout)
	defer cancel()
	return i.store.CheckConnection(checkCtx)
}

// Setup checks the connection and makes sure the note type exists. It
// reports whether the note type had to be created.
func (i *Importer) Setup(ctx context.Context) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.setup(ctx)
}

func (i *Importer) setup(ctx context.Context) (bool, error) {
	if err := i.CheckConnection(ctx); err != nil {
		return false, err
	}
	created, err := i.store.EnsureModel(ctx)
	if err != nil {
		return false, err
	}
	return created, nil
}

// Import writes deck into Anki. It stops at the first card that fails and
// returns the stats gathered so far along with the error.
func (i *Importer) Import(ctx context.Context, deck *model.Deck, opts ImportOptions) (*ImportStats, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	stats := &ImportStats{
		Deck:  deck.DeckName,
		Total: len(deck.Cards),
	}
	if opts.ExistingDeck != "" {
		stats.Deck = opts.ExistingDeck
	}

	created, err := i.setup(ctx)
	if err != nil {
		return stats, err
	}
	stats.ModelCreated = created

	if opts.ExistingDeck == "" {
		if err := i.store.CreateDeck(ctx, stats.Deck); err != nil {
			return stats, err
		}
		stats.DeckCreated = true
	}

	for idx, card := range deck.Cards {
		noteID, err := i.store.AddCard(ctx, stats.Deck, card)
		i.record(ctx, stats.Deck, card, noteID, err)
		if err != nil {
			i.logger.Error("adding card",
				zap.String("deck", stats.Deck),
				zap.Int("index", idx),
				zap.String("front", card.Front),
				zap.Error(err),
			)
			return stats, fmt.Errorf("card %d (%s): %w", idx+1, card.Front, err)
		}
		stats.Added++
	}

	i.logger.Info("import complete",
		zap.String("deck", stats.Deck),
		zap.Int("added", stats.Added),
		zap.Bool("model_created", stats.ModelCreated),
	)
	return stats, nil
}

func (i *Importer) record(ctx context.Context, deck string, card model.Flashcard, noteID int64, addErr error) {
	if i.imports == nil {
		return
	}

	rec := &model.CardImport{
		DeckName: deck,
		Front:    card.Front,
		Status:   model.ImportAdded,
	}
	if addErr != nil {
		msg := addErr.Error()
		rec.Status = model.ImportFailed
		rec.ErrorMessage = &msg
	} else {
		rec.NoteID = &noteID
	}

	if err := i.imports.Create(ctx, rec); err != nil {
		i.logger.Error("recording card import", zap.Error(err))
	}
}
