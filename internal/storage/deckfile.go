package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/methuz/Wordcraft/internal/model"
)

// DeckFiles reads and writes generated decks as JSON files under baseDir,
// so a deck can be reviewed or edited before it is imported.
type DeckFiles struct {
	baseDir string
}

// NewDeckFiles creates the deck directory if needed.
func NewDeckFiles(baseDir string) (*DeckFiles, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating deck directory: %w", err)
	}
	return &DeckFiles{baseDir: baseDir}, nil
}

// PathFor returns the file path a deck with this name is saved to.
func (d *DeckFiles) PathFor(deckName string) string {
	return filepath.Join(d.baseDir, slugify(deckName)+".json")
}

// Save writes deck to PathFor(deck.DeckName), replacing any existing file.
func (d *DeckFiles) Save(deck *model.Deck) (string, error) {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding deck: %w", err)
	}

	path := d.PathFor(deck.DeckName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing deck file: %w", err)
	}
	return path, nil
}

// Load reads a deck file from any path. The contents go through the same
// parser as LLM replies, so hand-edited files are held to the same shape.
func (d *DeckFiles) Load(path string) (*model.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deck file not found: %s", path)
		}
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	deck, err := model.ParseDeck(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return deck, nil
}

// slugify keeps letters and digits in any script and folds everything else
// to single dashes: "Places in Japanese" -> "places-in-japanese".
func slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(sb.String(), "-")
	if slug == "" {
		return "deck"
	}
	return slug
}
