// Package handler contains the Gin handlers for Wordcraft's HTTP API.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectionChecker reports whether AnkiConnect answers.
// *service.Importer satisfies it.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	anki ConnectionChecker
}

// NewHealthHandler creates a new HealthHandler. anki may be nil, in which
// case the AnkiConnect status is omitted.
func NewHealthHandler(anki ConnectionChecker) *HealthHandler {
	return &HealthHandler{anki: anki}
}

// Healthz always answers 200 while the process is up. The anki field says
// whether cards could be imported right now.
// Route: GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "wordcraft",
	}

	if h.anki != nil {
		if err := h.anki.CheckConnection(c.Request.Context()); err != nil {
			body["anki"] = "unreachable"
			body["anki_error"] = err.Error()
		} else {
			body["anki"] = "reachable"
		}
	}

	c.JSON(http.StatusOK, body)
}
