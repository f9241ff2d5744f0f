// Package model defines the core data types for Wordcraft: generated decks,
// their flashcards, and the history records kept about them.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoJSONFound is returned when a reply contains no {...} span at all.
	ErrNoJSONFound = errors.New("no JSON found in reply")

	// ErrMalformedJSON is returned when the extracted span is not a deck.
	ErrMalformedJSON = errors.New("malformed deck JSON")
)

// Flashcard is a single study card. Front and Example are in the target
// language, Back and ExampleTranslate in the learner's native language.
type Flashcard struct {
	Front            string `json:"front"`
	Back             string `json:"back"`
	Example          string `json:"example"`
	ExampleTranslate string `json:"example_translate"`
}

// Deck is a named, ordered set of flashcards produced by one generation.
type Deck struct {
	DeckName string      `json:"deck_name"`
	Cards    []Flashcard `json:"cards"`
}

// jsonSpan matches from the first '{' to the last '}' in the text,
// newlines included. Two separate objects are captured as one span.
var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON returns the first-to-last brace span of text. The span is not
// checked for validity.
func ExtractJSON(text string) (string, error) {
	span := jsonSpan.FindString(text)
	if span == "" {
		return "", ErrNoJSONFound
	}
	return span, nil
}

// The wire shapes use pointers so that a missing key can be told apart
// from an empty string. Empty values are accepted as-is.
type deckWire struct {
	DeckName *string     `json:"deck_name" validate:"required"`
	Cards    []*cardWire `json:"cards" validate:"required,dive,required"`
}

type cardWire struct {
	Front            *string `json:"front" validate:"required"`
	Back             *string `json:"back" validate:"required"`
	Example          *string `json:"example" validate:"required"`
	ExampleTranslate *string `json:"example_translate" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseDeck recovers a Deck from an LLM reply that may wrap the JSON in
// prose or code fences.
func ParseDeck(text string) (*Deck, error) {
	span, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var wire deckWire
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if *wire.DeckName == "" {
		return nil, fmt.Errorf("%w: deck_name is empty", ErrMalformedJSON)
	}

	deck := &Deck{
		DeckName: *wire.DeckName,
		Cards:    make([]Flashcard, 0, len(wire.Cards)),
	}
	for _, c := range wire.Cards {
		deck.Cards = append(deck.Cards, Flashcard{
			Front:            *c.Front,
			Back:             *c.Back,
			Example:          *c.Example,
			ExampleTranslate: *c.ExampleTranslate,
		})
	}
	return deck, nil
}
