package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/methuz/Wordcraft/internal/ankiconnect"
	"github.com/methuz/Wordcraft/internal/config"
	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/storage"
)

// recordingStore is an in-memory CardStore that logs every call in order.
type recordingStore struct {
	calls      []string
	checkErr   error
	modelErr   error
	failOnCard int // 1-based index of the card that fails, 0 for none
	cardsAdded int
}

func (s *recordingStore) CheckConnection(ctx context.Context) error {
	s.calls = append(s.calls, "check")
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("health check must be bounded by a deadline")
	}
	return s.checkErr
}

func (s *recordingStore) EnsureModel(ctx context.Context) (bool, error) {
	s.calls = append(s.calls, "model")
	return true, s.modelErr
}

func (s *recordingStore) CreateDeck(ctx context.Context, name string) error {
	s.calls = append(s.calls, "deck:"+name)
	return nil
}

func (s *recordingStore) AddCard(ctx context.Context, deck string, card model.Flashcard) (int64, error) {
	s.calls = append(s.calls, "card:"+deck+":"+card.Front)
	s.cardsAdded++
	if s.failOnCard == s.cardsAdded {
		return 0, ankiconnect.ErrCardInsertionFailed
	}
	return int64(1000 + s.cardsAdded), nil
}

func testDeck(fronts ...string) *model.Deck {
	deck := &model.Deck{DeckName: "Spanish Basics"}
	for _, f := range fronts {
		deck.Cards = append(deck.Cards, model.Flashcard{Front: f, Back: f + "-back"})
	}
	return deck
}

func assertCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected call sequence:\n got  %v\n want %v", got, want)
	}
}

func TestImporter_OrderedPipeline(t *testing.T) {
	store := &recordingStore{}
	imp := NewImporter(store, nil, 0, zap.NewNop())

	stats, err := imp.Import(context.Background(), testDeck("Hola", "Adiós", "Gracias"), ImportOptions{})
	if err != nil {
		t.Fatalf("importing: %v", err)
	}

	assertCalls(t, store.calls,
		"check", "model", "deck:Spanish Basics",
		"card:Spanish Basics:Hola", "card:Spanish Basics:Adiós", "card:Spanish Basics:Gracias",
	)
	if stats.Added != 3 || stats.Total != 3 || !stats.DeckCreated || !stats.ModelCreated {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestImporter_ExistingDeckSkipsCreate(t *testing.T) {
	store := &recordingStore{}
	imp := NewImporter(store, nil, time.Second, zap.NewNop())

	stats, err := imp.Import(context.Background(), testDeck("Hola"), ImportOptions{ExistingDeck: "My Spanish"})
	if err != nil {
		t.Fatalf("importing: %v", err)
	}

	assertCalls(t, store.calls, "check", "model", "card:My Spanish:Hola")
	if stats.Deck != "My Spanish" || stats.DeckCreated {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestImporter_EmptyDeck(t *testing.T) {
	store := &recordingStore{}
	imp := NewImporter(store, nil, 0, zap.NewNop())

	stats, err := imp.Import(context.Background(), testDeck(), ImportOptions{})
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	assertCalls(t, store.calls, "check", "model", "deck:Spanish Basics")
	if stats.Added != 0 {
		t.Errorf("expected no cards added, got %d", stats.Added)
	}
}

func TestImporter_UnreachableStopsEarly(t *testing.T) {
	store := &recordingStore{checkErr: ankiconnect.ErrStoreUnreachable}
	imp := NewImporter(store, nil, 0, zap.NewNop())

	_, err := imp.Import(context.Background(), testDeck("Hola"), ImportOptions{})
	if !errors.Is(err, ankiconnect.ErrStoreUnreachable) {
		t.Fatalf("expected ErrStoreUnreachable, got %v", err)
	}
	assertCalls(t, store.calls, "check")
}

func TestImporter_ModelFailureStopsBeforeDeck(t *testing.T) {
	store := &recordingStore{modelErr: ankiconnect.ErrModelCreationFailed}
	imp := NewImporter(store, nil, 0, zap.NewNop())

	_, err := imp.Import(context.Background(), testDeck("Hola"), ImportOptions{})
	if !errors.Is(err, ankiconnect.ErrModelCreationFailed) {
		t.Fatalf("expected ErrModelCreationFailed, got %v", err)
	}
	assertCalls(t, store.calls, "check", "model")
}

func TestImporter_StopsAtFirstFailedCard(t *testing.T) {
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	defer db.Close()
	imports := storage.NewCardImportRepository(db)

	store := &recordingStore{failOnCard: 2}
	imp := NewImporter(store, imports, 0, zap.NewNop())

	stats, err := imp.Import(context.Background(), testDeck("Hola", "Adiós", "Gracias"), ImportOptions{})
	if !errors.Is(err, ankiconnect.ErrCardInsertionFailed) {
		t.Fatalf("expected ErrCardInsertionFailed, got %v", err)
	}
	if stats.Added != 1 {
		t.Errorf("expected 1 card added before failure, got %d", stats.Added)
	}
	assertCalls(t, store.calls,
		"check", "model", "deck:Spanish Basics",
		"card:Spanish Basics:Hola", "card:Spanish Basics:Adiós",
	)

	history, err := imports.ListByDeck(context.Background(), "Spanish Basics")
	if err != nil {
		t.Fatalf("listing imports: %v", err)
	}
	if len(history) != 2 || history[0].Status != model.ImportAdded || history[1].Status != model.ImportFailed {
		t.Errorf("unexpected import history %+v", history)
	}
}

// TestImporter_AgainstAnkiConnect runs the whole pipeline through the real
// client against a scripted AnkiConnect endpoint.
func TestImporter_AgainstAnkiConnect(t *testing.T) {
	var mu sync.Mutex
	var actions []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		actions = append(actions, req.Action)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch req.Action {
		case "version":
			_, _ = w.Write([]byte(`{"result":6,"error":null}`))
		case "modelNames":
			_, _ = w.Write([]byte(`{"result":["Basic","Cloze"],"error":null}`))
		case "createModel":
			_, _ = w.Write([]byte(`{"result":{},"error":null}`))
		case "createDeck":
			_, _ = w.Write([]byte(`{"result":null,"error":"Deck already exists"}`))
		case "addNote":
			_, _ = w.Write([]byte(`{"result":1234567890,"error":null}`))
		default:
			_, _ = w.Write([]byte(`{"result":null,"error":"unsupported action"}`))
		}
	}))
	defer srv.Close()

	client := ankiconnect.NewClient(config.AnkiConfig{URL: srv.URL}, zap.NewNop())
	imp := NewImporter(client, nil, 0, zap.NewNop())

	stats, err := imp.Import(context.Background(), testDeck("Hola", "Adiós"), ImportOptions{})
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if stats.Added != 2 || !stats.ModelCreated {
		t.Errorf("unexpected stats %+v", stats)
	}

	mu.Lock()
	defer mu.Unlock()
	want := "version|modelNames|createModel|createDeck|addNote|addNote"
	if got := strings.Join(actions, "|"); got != want {
		t.Errorf("unexpected actions:\n got  %s\n want %s", got, want)
	}
}
