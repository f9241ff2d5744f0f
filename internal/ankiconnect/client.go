// Package ankiconnect talks to Anki through the AnkiConnect add-on, a local
// JSON-RPC style HTTP endpoint. Every request is {action, version, params}
// and every response is {result, error}.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/model"
)

// APIVersion is the AnkiConnect protocol version Wordcraft speaks.
const APIVersion = 6

var (
	// ErrStoreUnreachable is returned when the health check fails for any reason.
	ErrStoreUnreachable = errors.New("AnkiConnect unreachable")

	// ErrModelCreationFailed carries the remote error from createModel.
	ErrModelCreationFailed = errors.New("creating Wordcraft model failed")

	// ErrCardInsertionFailed carries the remote error from addNote,
	// duplicates included.
	ErrCardInsertionFailed = errors.New("adding card failed")
)

// RemoteError is the non-null error string from an AnkiConnect response.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Client is an AnkiConnect client. Its configuration is fixed at
// construction; it holds no other state.
type Client struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter // nil when pacing is disabled
	logger  *zap.Logger
}

// NewClient creates a client for the endpoint in cfg.
func NewClient(cfg config.AnkiConfig, logger *zap.Logger) *Client {
	c := &Client{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string { return c.url }

// CheckConnection asks AnkiConnect for its version. Any failure, including
// ctx expiring, is reported as ErrStoreUnreachable.
func (c *Client) CheckConnection(ctx context.Context) error {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return fmt.Errorf("%w at %s: %v", ErrStoreUnreachable, c.url, err)
	}
	c.logger.Debug("AnkiConnect reachable", zap.String("url", c.url), zap.Int("version", version))
	return nil
}

// ModelNames lists the note types that exist in the collection.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "modelNames", nil, &names); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return names, nil
}

// DeckNames lists the decks that exist in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	return names, nil
}

// EnsureModel creates the Wordcraft note type unless it already exists.
// It reports whether a createModel request was sent. The check and the
// create are not atomic; concurrent callers must serialize.
func (c *Client) EnsureModel(ctx context.Context) (bool, error) {
	names, err := c.ModelNames(ctx)
	if err != nil {
		return false, err
	}

	for _, name := range names {
		if name == ModelName {
			c.logger.Debug("note type already exists", zap.String("model", ModelName))
			return false, nil
		}
	}

	nt := WordcraftNoteType()
	params := map[string]any{
		"modelName":     nt.Name,
		"inOrderFields": nt.Fields,
		"css":           nt.CSS,
		"cardTemplates": nt.Templates,
	}
	if err := c.invoke(ctx, "createModel", params, nil); err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return false, fmt.Errorf("%w: %s", ErrModelCreationFailed, remote.Message)
		}
		return false, fmt.Errorf("%w: %v", ErrModelCreationFailed, err)
	}

	c.logger.Info("created note type", zap.String("model", ModelName))
	return true, nil
}

// CreateDeck asks Anki to create a deck. A remote error (typically the deck
// already exists) is logged and swallowed; only a failed exchange with the
// endpoint is returned.
func (c *Client) CreateDeck(ctx context.Context, name string) error {
	var deckID int64
	err := c.invoke(ctx, "createDeck", map[string]any{"deck": name}, &deckID)

	var remote *RemoteError
	switch {
	case errors.As(err, &remote):
		c.logger.Warn("createDeck reported an error, continuing",
			zap.String("deck", name),
			zap.String("error", remote.Message),
		)
		return nil
	case err != nil:
		return fmt.Errorf("creating deck %q: %w", name, err)
	}

	c.logger.Info("deck created", zap.String("deck", name), zap.Int64("deck_id", deckID))
	return nil
}

type note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Options   noteOptions       `json:"options"`
	Tags      []string          `json:"tags"`
}

type noteOptions struct {
	AllowDuplicate bool `json:"allowDuplicate"`
}

// AddCard adds one Wordcraft note to deck and returns its note ID. Any
// remote error, duplicates included, fails with ErrCardInsertionFailed.
func (c *Client) AddCard(ctx context.Context, deck string, card model.Flashcard) (int64, error) {
	n := note{
		DeckName:  deck,
		ModelName: ModelName,
		Fields: map[string]string{
			"Front":              card.Front,
			"Back":               card.Back,
			"Example":            card.Example,
			"ExampleTranslation": card.ExampleTranslate,
		},
		Options: noteOptions{AllowDuplicate: false},
		Tags:    NoteTags,
	}

	var noteID int64
	if err := c.invoke(ctx, "addNote", map[string]any{"note": n}, &noteID); err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return 0, fmt.Errorf("%w: %s", ErrCardInsertionFailed, remote.Message)
		}
		return 0, fmt.Errorf("%w: %v", ErrCardInsertionFailed, err)
	}
	return noteID, nil
}

// invoke performs one request/response exchange. A non-null error field is
// returned as *RemoteError. result may be nil when the caller ignores it.
func (c *Client) invoke(ctx context.Context, action string, params any, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("AnkiConnect returned %d for %s: %s", resp.StatusCode, action, string(snippet))
	}

	var r *response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&r); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if r == nil {
		return fmt.Errorf("decoding %s response: body is not an object", action)
	}

	c.logger.Debug("AnkiConnect call",
		zap.String("action", action),
		zap.Duration("took", time.Since(start)),
	)

	if r.Error != nil {
		return &RemoteError{Action: action, Message: *r.Error}
	}

	if result != nil && len(r.Result) > 0 && string(r.Result) != "null" {
		if err := json.Unmarshal(r.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", action, err)
		}
	}
	return nil
}
