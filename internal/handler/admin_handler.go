package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/storage"
)

// recentLimit caps the generations listed by Stats.
const recentLimit = 10

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	generations storage.GenerationRepository
	imports     storage.CardImportRepository
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(generations storage.GenerationRepository, imports storage.CardImportRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		generations: generations,
		imports:     imports,
		logger:      logger,
	}
}

// Stats returns generation and card import counts plus the latest
// generations.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.generations.Count(ctx)
	if err != nil {
		h.internalError(c, "counting generations", err)
		return
	}
	succeeded, err := h.generations.CountBySuccess(ctx, true)
	if err != nil {
		h.internalError(c, "counting successful generations", err)
		return
	}
	added, err := h.imports.CountByStatus(ctx, model.ImportAdded)
	if err != nil {
		h.internalError(c, "counting added cards", err)
		return
	}
	failed, err := h.imports.CountByStatus(ctx, model.ImportFailed)
	if err != nil {
		h.internalError(c, "counting failed cards", err)
		return
	}
	recent, err := h.generations.ListRecent(ctx, recentLimit)
	if err != nil {
		h.internalError(c, "listing generations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generations": gin.H{
			"total":     total,
			"succeeded": succeeded,
			"failed":    total - succeeded,
		},
		"cards": gin.H{
			"added":  added,
			"failed": failed,
		},
		"recent": recent,
	})
}

// Generation returns one generation record, including the full request.
// Route: GET /api/v1/admin/generations/:id
func (h *AdminHandler) Generation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generation id"})
		return
	}

	g, err := h.generations.GetByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "generation not found"})
		return
	}
	if err != nil {
		h.internalError(c, "loading generation", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *AdminHandler) internalError(c *gin.Context, what string, err error) {
	h.logger.Error(what, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
