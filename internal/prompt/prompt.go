// Package prompt asks the learner what to generate and whether to write it
// to Anki. Prompter hides the terminal library so the flow can be tested.
package prompt

import (
	"errors"
	"strings"

	"github.com/methuz/Wordcraft/internal/service"
)

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Input prompts for text, pre-filled with defaultValue. A non-nil
	// validate rejects values until it returns nil.
	Input(title string, defaultValue string, validate func(string) error) (string, error)

	// Select presents options and returns the selected value.
	Select(title string, options []string) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)
}

// NoopPrompter returns errors for all prompts.
type NoopPrompter struct{}

func (p *NoopPrompter) Input(string, string, func(string) error) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Select(string, []string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(string, bool) (bool, error) {
	return false, ErrNonInteractive
}

// Settings is what the learner asked for.
type Settings struct {
	NativeLanguage string
	TargetLanguage string
	Topic          string
	// ExistingDeck is empty when the cards should go into a new deck.
	ExistingDeck string
}

// Request formats the settings as the LLM user message.
func (s Settings) Request() string {
	return service.BuildRequest(s.NativeLanguage, s.TargetLanguage, s.Topic)
}

var errEmptyTopic = errors.New("topic cannot be empty")

func requireTopic(s string) error {
	if strings.TrimSpace(s) == "" {
		return errEmptyTopic
	}
	return nil
}

// AskSettings walks the learner through languages, topic and deck choice.
// knownDecks may be empty, in which case the deck name is typed in.
func AskSettings(p Prompter, knownDecks []string) (Settings, error) {
	var s Settings
	var err error

	if s.NativeLanguage, err = p.Input("Your native language", service.DefaultNativeLanguage, nil); err != nil {
		return s, err
	}
	if s.TargetLanguage, err = p.Input("Language you want to learn", service.DefaultTargetLanguage, nil); err != nil {
		return s, err
	}
	if s.Topic, err = p.Input("Topic you want to learn", "", requireTopic); err != nil {
		return s, err
	}

	s.NativeLanguage = orDefault(s.NativeLanguage, service.DefaultNativeLanguage)
	s.TargetLanguage = orDefault(s.TargetLanguage, service.DefaultTargetLanguage)
	s.Topic = strings.TrimSpace(s.Topic)

	useExisting, err := p.Confirm("Add to an existing deck?", false)
	if err != nil || !useExisting {
		return s, err
	}

	var deck string
	if len(knownDecks) > 0 {
		deck, err = p.Select("Existing deck", knownDecks)
	} else {
		deck, err = p.Input("Name of the existing deck", "", nil)
	}
	if err != nil {
		return s, err
	}
	// A blank name falls back to creating a new deck.
	s.ExistingDeck = strings.TrimSpace(deck)
	return s, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
