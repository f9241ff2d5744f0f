package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/methuz/Wordcraft/internal/model"
	"github.com/methuz/Wordcraft/internal/prompt"
	"github.com/methuz/Wordcraft/internal/service"
)

type generateFlags struct {
	native   string
	target   string
	topic    string
	deck     string
	yes      bool
	save     bool
	noImport bool
}

func generateCmd(opts *rootOptions) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a deck with the configured LLM and import it into Anki",
		Long: `Generate asks for your native language, the language you are learning and
a topic, then has the LLM write a deck of flashcards. Without --topic the
settings are asked interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, f)
		},
	}

	cmd.Flags().StringVar(&f.native, "native", "", "Your native language (default English)")
	cmd.Flags().StringVar(&f.target, "target", "", "Language to learn (default Japanese)")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Topic of the deck; skips the interactive questions")
	cmd.Flags().StringVar(&f.deck, "deck", "", "Add cards to this existing deck instead of creating one")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Import without asking for confirmation")
	cmd.Flags().BoolVar(&f.save, "save", false, "Also save the generated deck as a JSON file")
	cmd.Flags().BoolVar(&f.noImport, "no-import", false, "Only generate and save the deck")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, f generateFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := newLLMClient(a.cfg.LLM)
	if err != nil {
		return err
	}
	generator := service.NewGenerator(client, a.generations, a.logger)
	p := newPrompter()

	var settings prompt.Settings
	if f.topic != "" {
		settings = prompt.Settings{
			NativeLanguage: f.native,
			TargetLanguage: f.target,
			Topic:          f.topic,
			ExistingDeck:   strings.TrimSpace(f.deck),
		}
	} else {
		settings, err = prompt.AskSettings(p, a.knownDecks(ctx))
		if err != nil {
			return err
		}
	}

	printInfo(out, "Asking %s (%s) for a deck about %q...", client.ProviderName(), client.ModelName(), settings.Topic)
	deck, err := generator.Generate(ctx, settings.Request())
	if err != nil {
		return err
	}
	printDeck(out, deck)

	savedPath := ""
	if f.save || f.noImport {
		if savedPath, err = a.decks.Save(deck); err != nil {
			return err
		}
		printSuccess(out, "Saved deck to %s", savedPath)
	}
	if f.noImport {
		return nil
	}

	target := deck.DeckName
	if settings.ExistingDeck != "" {
		target = settings.ExistingDeck
	}

	if !f.yes {
		ok, err := p.Confirm(fmt.Sprintf("Import %d cards into %q?", len(deck.Cards), target), true)
		if err != nil && !errors.Is(err, prompt.ErrNonInteractive) {
			return err
		}
		if !ok {
			if savedPath == "" {
				if savedPath, err = a.decks.Save(deck); err != nil {
					return err
				}
			}
			printInfo(out, "Import skipped. Deck saved to %s, import it later with: wordcraft import %s", savedPath, savedPath)
			return nil
		}
	}

	stats, err := a.importer.Import(ctx, deck, service.ImportOptions{ExistingDeck: settings.ExistingDeck})
	printStats(out, stats, err)
	return err
}

func importCmd(opts *rootOptions) *cobra.Command {
	var existingDeck string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a saved deck file into Anki",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			deck, err := a.decks.Load(args[0])
			if err != nil {
				return err
			}

			stats, err := a.importer.Import(cmd.Context(), deck, service.ImportOptions{ExistingDeck: existingDeck})
			printStats(cmd.OutOrStdout(), stats, err)
			return err
		},
	}

	cmd.Flags().StringVar(&existingDeck, "deck", "", "Add cards to this existing deck instead of the one in the file")
	return cmd
}

func checkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that AnkiConnect is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if err := a.importer.CheckConnection(cmd.Context()); err != nil {
				printFailure(out, "AnkiConnect is not reachable at %s. Is Anki running with the AnkiConnect add-on?", a.anki.URL())
				return err
			}
			printSuccess(out, "AnkiConnect is reachable at %s", a.anki.URL())
			return nil
		},
	}
}

func setupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the Wordcraft note type in Anki if it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.importer.Setup(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				printSuccess(cmd.OutOrStdout(), "Created note type Wordcraft")
			} else {
				printInfo(cmd.OutOrStdout(), "Note type Wordcraft already exists")
			}
			return nil
		},
	}
}

func historyCmd(opts *rootOptions) *cobra.Command {
	var limit int
	var deck string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations, or the card imports of one deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if deck != "" {
				imports, err := a.cardImports.ListByDeck(cmd.Context(), deck)
				if err != nil {
					return err
				}
				if len(imports) == 0 {
					printInfo(out, "No cards imported into %q yet", deck)
					return nil
				}
				for _, ci := range imports {
					printCardImport(out, ci)
				}
				return nil
			}

			recent, err := a.generations.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				printInfo(out, "No generations yet")
				return nil
			}
			for _, g := range recent {
				printGeneration(out, g)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of generations to show")
	cmd.Flags().StringVar(&deck, "deck", "", "Show the outcome of every card imported into this deck")
	return cmd
}

func printDeck(w io.Writer, deck *model.Deck) {
	fmt.Fprintln(w, deckBox(deck.DeckName))
	for i, card := range deck.Cards {
		fmt.Fprintf(w, "%3d. %s  %s\n", i+1, styleBold.Render(card.Front), card.Back)
		if card.Example != "" {
			fmt.Fprintf(w, "     %s\n", styleMuted.Render(card.Example+" / "+card.ExampleTranslate))
		}
	}
}

func printStats(w io.Writer, stats *service.ImportStats, err error) {
	if stats == nil {
		return
	}
	if stats.ModelCreated {
		printInfo(w, "Created note type Wordcraft")
	}
	if err != nil {
		printFailure(w, "Import stopped after %d of %d cards into %q: %v", stats.Added, stats.Total, stats.Deck, err)
		return
	}
	printSuccess(w, "Added %d of %d cards to %q", stats.Added, stats.Total, stats.Deck)
}

func printGeneration(w io.Writer, g model.Generation) {
	when := g.CreatedAt.Local().Format("2006-01-02 15:04")
	source := g.Provider + "/" + g.Model

	if !g.Success {
		msg := ""
		if g.ErrorMessage != nil {
			msg = *g.ErrorMessage
		}
		printWarning(w, "%s  %s  failed: %s", styleMuted.Render(when), source, msg)
		return
	}

	deck := ""
	if g.DeckName != nil {
		deck = *g.DeckName
	}
	printSuccess(w, "%s  %s  %s (%d cards, %dms)", styleMuted.Render(when), source, styleDeck.Render(deck), g.CardCount, g.DurationMs)
}

func printCardImport(w io.Writer, ci model.CardImport) {
	when := styleMuted.Render(ci.CreatedAt.Local().Format("2006-01-02 15:04"))

	if ci.Status == model.ImportFailed {
		msg := ""
		if ci.ErrorMessage != nil {
			msg = *ci.ErrorMessage
		}
		printFailure(w, "%s  %s  %s", when, styleBold.Render(ci.Front), msg)
		return
	}

	note := ""
	if ci.NoteID != nil {
		note = fmt.Sprintf("note %d", *ci.NoteID)
	}
	printSuccess(w, "%s  %s  %s", when, styleBold.Render(ci.Front), styleMuted.Render(note))
}
