// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/handler"
	"github.com/methuz/Wordcraft/internal/middleware"
	"github.com/methuz/Wordcraft/internal/storage"
)

// Deps holds the services the routes are wired to.
type Deps struct {
	Generator   handler.DeckGenerator
	Importer    Importer
	Generations storage.GenerationRepository
	CardImports storage.CardImportRepository
}

// Importer is what the routes need from *service.Importer.
type Importer interface {
	handler.DeckImporter
	handler.ConnectionChecker
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler(deps.Importer)
	deckHandler := handler.NewDeckHandler(deps.Generator, deps.Importer, logger)
	adminHandler := handler.NewAdminHandler(deps.Generations, deps.CardImports, logger)

	// Engine-level so preflight requests for any path are answered.
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api/v1")

	decks := api.Group("/decks")
	decks.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	decks.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		decks.POST("/generate", deckHandler.Generate)
		decks.POST("/import", deckHandler.Import)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/generations/:id", adminHandler.Generation)
	}
}
