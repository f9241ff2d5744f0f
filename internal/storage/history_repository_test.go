package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/methuz/Wordcraft/internal/model"
)

type testDeps struct {
	generations GenerationRepository
	imports     CardImportRepository
}

// setupTestDB creates a throwaway SQLite database in a temp directory.
func setupTestDB(t *testing.T) *testDeps {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testDeps{
		generations: NewGenerationRepository(db),
		imports:     NewCardImportRepository(db),
	}
}

func strPtr(s string) *string { return &s }

func TestGenerationRepository_CreateAndGet(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	g := &model.Generation{
		Request:    "Native language: English\nTarget language: Japanese\nTopic: food",
		Provider:   "openai",
		Model:      "gpt-4o",
		DeckName:   strPtr("Food in Japanese"),
		CardCount:  15,
		Success:    true,
		DurationMs: 4200,
	}
	if err := deps.generations.Create(ctx, g); err != nil {
		t.Fatalf("creating generation: %v", err)
	}
	if g.ID == 0 {
		t.Error("expected ID to be set after create")
	}

	got, err := deps.generations.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("getting generation: %v", err)
	}
	if got.DeckName == nil || *got.DeckName != "Food in Japanese" {
		t.Errorf("unexpected deck name %v", got.DeckName)
	}
	if got.CardCount != 15 || !got.Success {
		t.Errorf("unexpected record %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}
}

func TestGenerationRepository_GetByID_NotFound(t *testing.T) {
	deps := setupTestDB(t)

	_, err := deps.generations.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationRepository_ListAndCount(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	outcomes := []bool{true, false, true}
	for i, ok := range outcomes {
		g := &model.Generation{Request: "r", Provider: "ollama", Model: "gemma2", Success: ok}
		if !ok {
			g.ErrorMessage = strPtr("malformed deck JSON")
		}
		if err := deps.generations.Create(ctx, g); err != nil {
			t.Fatalf("creating generation %d: %v", i, err)
		}
	}

	total, err := deps.generations.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 generations, got %d", total)
	}

	failed, err := deps.generations.CountBySuccess(ctx, false)
	if err != nil {
		t.Fatalf("counting failures: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed generation, got %d", failed)
	}

	recent, err := deps.generations.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].ID < recent[1].ID {
		t.Errorf("expected newest first, got ids %d, %d", recent[0].ID, recent[1].ID)
	}
}

func TestCardImportRepository(t *testing.T) {
	deps := setupTestDB(t)
	ctx := context.Background()

	noteID := int64(1496198395707)
	records := []*model.CardImport{
		{DeckName: "Spanish Basics", Front: "Hola", NoteID: &noteID, Status: model.ImportAdded},
		{DeckName: "Spanish Basics", Front: "Adiós", Status: model.ImportFailed, ErrorMessage: strPtr("duplicate")},
		{DeckName: "Other", Front: "x", Status: model.ImportAdded},
	}
	for _, r := range records {
		if err := deps.imports.Create(ctx, r); err != nil {
			t.Fatalf("creating import: %v", err)
		}
	}

	list, err := deps.imports.ListByDeck(ctx, "Spanish Basics")
	if err != nil {
		t.Fatalf("listing imports: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(list))
	}
	if list[0].Front != "Hola" || list[0].NoteID == nil || *list[0].NoteID != noteID {
		t.Errorf("unexpected first import %+v", list[0])
	}

	added, err := deps.imports.CountByStatus(ctx, model.ImportAdded)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 added imports, got %d", added)
	}
}
