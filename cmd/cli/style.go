package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors: first value for dark terminals, second for light.
var (
	colorSuccess = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"}
	colorError   = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}
	colorWarning = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"}
	colorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorAccent  = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleDeck    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render("✓"), fmt.Sprintf(format, args...))
}

func printFailure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleError.Render("✗"), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render("!"), fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleMuted.Render("→"), fmt.Sprintf(format, args...))
}

// deckBox renders a title in a rounded border.
func deckBox(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 2).
		Render(styleDeck.Render(title))
}
