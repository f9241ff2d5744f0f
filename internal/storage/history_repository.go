package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/methuz/Wordcraft/internal/model"
)

// ErrNotFound is returned when a history record doesn't exist.
var ErrNotFound = errors.New("record not found")

// GenerationRepository stores one row per LLM generation attempt.
type GenerationRepository interface {
	Create(ctx context.Context, g *model.Generation) error
	GetByID(ctx context.Context, id int64) (*model.Generation, error)
	ListRecent(ctx context.Context, limit int) ([]model.Generation, error)
	Count(ctx context.Context) (int64, error)
	CountBySuccess(ctx context.Context, success bool) (int64, error)
}

// CardImportRepository stores one row per addNote attempt.
type CardImportRepository interface {
	Create(ctx context.Context, ci *model.CardImport) error
	ListByDeck(ctx context.Context, deck string) ([]model.CardImport, error)
	CountByStatus(ctx context.Context, status model.ImportStatus) (int64, error)
}

type sqliteGenerationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository creates a SQLite-backed GenerationRepository.
func NewGenerationRepository(db *sqlx.DB) GenerationRepository {
	return &sqliteGenerationRepository{db: db}
}

func (r *sqliteGenerationRepository) Create(ctx context.Context, g *model.Generation) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generations (request, provider, model, deck_name, card_count, success, error_message, duration_ms)
		VALUES (:request, :provider, :model, :deck_name, :card_count, :success, :error_message, :duration_ms)
	`, g)
	if err != nil {
		return fmt.Errorf("creating generation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	g.ID = id
	return nil
}

func (r *sqliteGenerationRepository) GetByID(ctx context.Context, id int64) (*model.Generation, error) {
	var g model.Generation
	err := r.db.GetContext(ctx, &g, "SELECT * FROM generations WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting generation %d: %w", id, err)
	}
	return &g, nil
}

func (r *sqliteGenerationRepository) ListRecent(ctx context.Context, limit int) ([]model.Generation, error) {
	var gens []model.Generation
	err := r.db.SelectContext(ctx, &gens,
		"SELECT * FROM generations ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	return gens, nil
}

func (r *sqliteGenerationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generations")
	return count, err
}

func (r *sqliteGenerationRepository) CountBySuccess(ctx context.Context, success bool) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generations WHERE success = ?", success)
	return count, err
}

type sqliteCardImportRepository struct {
	db *sqlx.DB
}

// NewCardImportRepository creates a SQLite-backed CardImportRepository.
func NewCardImportRepository(db *sqlx.DB) CardImportRepository {
	return &sqliteCardImportRepository{db: db}
}

func (r *sqliteCardImportRepository) Create(ctx context.Context, ci *model.CardImport) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO card_imports (deck_name, front, note_id, status, error_message)
		VALUES (:deck_name, :front, :note_id, :status, :error_message)
	`, ci)
	if err != nil {
		return fmt.Errorf("creating card import record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	ci.ID = id
	return nil
}

func (r *sqliteCardImportRepository) ListByDeck(ctx context.Context, deck string) ([]model.CardImport, error) {
	var imports []model.CardImport
	err := r.db.SelectContext(ctx, &imports,
		"SELECT * FROM card_imports WHERE deck_name = ? ORDER BY id ASC", deck)
	if err != nil {
		return nil, fmt.Errorf("listing imports for %s: %w", deck, err)
	}
	return imports, nil
}

func (r *sqliteCardImportRepository) CountByStatus(ctx context.Context, status model.ImportStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM card_imports WHERE status = ?", status)
	return count, err
}
