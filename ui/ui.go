// Package ui renders command-line output: colored status lines, a spinner around
// blocking passes and highlighted project documents.
package ui

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	Red      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Green    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Yellow   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Info     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Theme is the chroma style used by Highlight.
const Theme = "dracula"

// Spinner shows progress while a blocking pass runs.
type Spinner struct {
	instance *pterm.SpinnerPrinter
}

// StartSpinner starts a spinner with text. When quiet is set nothing is printed.
func StartSpinner(text string, quiet bool) *Spinner {
	if quiet {
		return &Spinner{}
	}
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)
	instance, err := spinner.Start(text)
	if err != nil {
		return &Spinner{}
	}
	return &Spinner{instance: instance}
}

// Stop removes the spinner.
func (s *Spinner) Stop() {
	if s.instance == nil {
		return
	}
	s.instance.Stop()
	fmt.Print("\r")
}

// Highlight writes content highlighted as lexer (e.g. "xml") for a 256-color terminal.
func Highlight(w io.Writer, content string, lexer string) error {
	if err := quick.Highlight(w, content, lexer, "terminal256", Theme); err != nil {
		return fmt.Errorf("highlighting %s: %w", lexer, err)
	}
	return nil
}

// Box frames a block of text with a rounded border.
func Box(text string) string { return BoxStyle.Render(text) }

// Success, Warning and Failure render one status line.
func Success(text string) string { return Green.Render("✓ " + text) }
func Warning(text string) string { return Yellow.Render(text) }
func Failure(text string) string { return Red.Render(text) }
