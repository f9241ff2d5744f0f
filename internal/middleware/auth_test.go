package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestKeyAuth(t *testing.T) {
	tests := []struct {
		name   string
		admin  bool
		key    string
		status int
	}{
		{"api valid", false, "deck-key", http.StatusOK},
		{"api missing", false, "", http.StatusUnauthorized},
		{"api invalid", false, "nope", http.StatusUnauthorized},
		{"admin valid", true, "deck-key", http.StatusOK},
		{"admin missing", true, "", http.StatusUnauthorized},
		{"admin invalid", true, "nope", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := APIKeyAuth([]string{"deck-key", ""})
			if tt.admin {
				auth = AdminKeyAuth([]string{"deck-key"})
			}

			router := gin.New()
			router.Use(auth)
			router.GET("/decks", func(c *gin.Context) {
				c.String(http.StatusOK, c.GetString(ContextKeyAPIKey))
			})

			headers := map[string]string{}
			if tt.key != "" {
				headers["X-API-Key"] = tt.key
			}
			w := serve(router, http.MethodGet, "/decks", headers)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK && w.Body.String() != tt.key {
				t.Errorf("expected key stored on context, got %q", w.Body.String())
			}
		})
	}
}

func TestKeyAuth_EmptyKeyNeverMatches(t *testing.T) {
	router := gin.New()
	router.Use(APIKeyAuth([]string{""}))
	router.GET("/decks", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/decks", map[string]string{"X-API-Key": ""})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
