package model

import "time"

// ImportStatus is the outcome of inserting one card into Anki.
type ImportStatus string

const (
	ImportAdded  ImportStatus = "added"
	ImportFailed ImportStatus = "failed"
)

// Generation records one call to the LLM backend. It is an audit trail,
// not a cache: decks are never served back from it.
type Generation struct {
	ID           int64     `db:"id" json:"id"`
	Request      string    `db:"request" json:"request"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	DeckName     *string   `db:"deck_name" json:"deck_name,omitempty"`
	CardCount    int       `db:"card_count" json:"card_count"`
	Success      bool      `db:"success" json:"success"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	DurationMs   int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CardImport records the result of one addNote call.
type CardImport struct {
	ID           int64        `db:"id" json:"id"`
	DeckName     string       `db:"deck_name" json:"deck_name"`
	Front        string       `db:"front" json:"front"`
	NoteID       *int64       `db:"note_id" json:"note_id,omitempty"`
	Status       ImportStatus `db:"status" json:"status"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
