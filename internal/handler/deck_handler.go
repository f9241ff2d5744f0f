package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/ankiconnect"
	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/service"
)

// DeckGenerator turns a request into a deck. *service.Generator satisfies it.
type DeckGenerator interface {
	Generate(ctx context.Context, request string) (*model.Deck, error)
}

// DeckImporter writes a deck into Anki. *service.Importer satisfies it.
type DeckImporter interface {
	Import(ctx context.Context, deck *model.Deck, opts service.ImportOptions) (*service.ImportStats, error)
}

// DeckHandler serves deck generation and import.
type DeckHandler struct {
	generator DeckGenerator
	importer  DeckImporter
	logger    *zap.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(generator DeckGenerator, importer DeckImporter, logger *zap.Logger) *DeckHandler {
	return &DeckHandler{
		generator: generator,
		importer:  importer,
		logger:    logger,
	}
}

type generateRequest struct {
	NativeLanguage string `json:"native_language"`
	TargetLanguage string `json:"target_language"`
	Topic          string `json:"topic" binding:"required"`
	// Import sends the generated deck straight to Anki.
	Import       bool   `json:"import"`
	ExistingDeck string `json:"existing_deck"`
}

type importRequest struct {
	Deck         json.RawMessage `json:"deck" binding:"required"`
	ExistingDeck string          `json:"existing_deck"`
}

// Generate asks the LLM for a deck and optionally imports it.
// Route: POST /api/v1/decks/generate
func (h *DeckHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	request := service.BuildRequest(req.NativeLanguage, req.TargetLanguage, req.Topic)
	deck, err := h.generator.Generate(c.Request.Context(), request)
	if err != nil {
		h.logger.Warn("generation failed", zap.String("topic", req.Topic), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if !req.Import {
		c.JSON(http.StatusOK, gin.H{"deck": deck})
		return
	}

	stats, err := h.importer.Import(c.Request.Context(), deck, service.ImportOptions{ExistingDeck: req.ExistingDeck})
	if err != nil {
		h.writeImportError(c, deck, stats, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deck": deck, "import": stats})
}

// Import writes a previously generated deck into Anki.
// Route: POST /api/v1/decks/import
func (h *DeckHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	deck, err := model.ParseDeck(string(req.Deck))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck: " + err.Error()})
		return
	}

	stats, err := h.importer.Import(c.Request.Context(), deck, service.ImportOptions{ExistingDeck: req.ExistingDeck})
	if err != nil {
		h.writeImportError(c, deck, stats, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import": stats})
}

func (h *DeckHandler) writeImportError(c *gin.Context, deck *model.Deck, stats *service.ImportStats, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ankiconnect.ErrStoreUnreachable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ankiconnect.ErrModelCreationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, ankiconnect.ErrCardInsertionFailed):
		status = http.StatusConflict
	}

	h.logger.Warn("import failed",
		zap.String("deck", deck.DeckName),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.JSON(status, gin.H{
		"error":  err.Error(),
		"deck":   deck,
		"import": stats,
	})
}
