package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/service"
	"github.com/methuz/Wordcraft/internal/storage"
)

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, request string) (*model.Deck, error) {
	return &model.Deck{DeckName: "Colors", Cards: []model.Flashcard{{Front: "rojo", Back: "red"}}}, nil
}

type stubImporter struct{}

func (stubImporter) Import(ctx context.Context, deck *model.Deck, opts service.ImportOptions) (*service.ImportStats, error) {
	return &service.ImportStats{Deck: deck.DeckName, Total: len(deck.Cards), Added: len(deck.Cards)}, nil
}

func (stubImporter) CheckConnection(ctx context.Context) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Auth:      config.AuthConfig{APIKeys: []string{"user-key"}, AdminKeys: []string{"admin-key"}},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10},
	}
	deps := Deps{
		Generator:   stubGenerator{},
		Importer:    stubImporter{},
		Generations: storage.NewGenerationRepository(db),
		CardImports: storage.NewCardImportRepository(db),
	}
	return New(cfg, deps, zap.NewNop())
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		body   string
		status int
	}{
		{"health is public", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"generate needs key", http.MethodPost, "/api/v1/decks/generate", "", `{"topic":"colors"}`, http.StatusUnauthorized},
		{"generate", http.MethodPost, "/api/v1/decks/generate", "user-key", `{"topic":"colors"}`, http.StatusOK},
		{"import", http.MethodPost, "/api/v1/decks/import", "user-key",
			`{"deck":{"deck_name":"Colors","cards":[]}}`, http.StatusOK},
		{"stats rejects user key", http.MethodGet, "/api/v1/admin/stats", "user-key", "", http.StatusForbidden},
		{"stats", http.MethodGet, "/api/v1/admin/stats", "admin-key", "", http.StatusOK},
		{"generation not found", http.MethodGet, "/api/v1/admin/generations/1", "admin-key", "", http.StatusNotFound},
		{"preflight", http.MethodOptions, "/api/v1/decks/generate", "", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Origin", "http://localhost:3000")
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
