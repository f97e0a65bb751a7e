// Package render handles terminal output: lipgloss styles for the
// interactive session and markdown rendering of AI responses via glamour.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Output formats for the explain report.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// Styles shared by the CLI surfaces.
var (
	Banner   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Thinking = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Warning  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Error    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Renderer renders AI responses for the terminal. A nil Renderer, or one
// whose glamour setup failed, passes text through unchanged.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer builds a markdown terminal renderer. Failure to set up
// glamour is not fatal; the renderer degrades to plain passthrough.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 100
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{term: term}
}

// Response renders markdown text for display, falling back to the raw text
// when rendering is unavailable or fails.
func (r *Renderer) Response(text string) string {
	if r == nil || r.term == nil {
		return text
	}
	out, err := r.term.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// Explanation assembles the explain report for a file in the requested
// format. Unsupported formats are an error, not a silent default.
func Explanation(file, language, explanation, format string) (string, error) {
	var b strings.Builder
	switch format {
	case FormatMarkdown:
		fmt.Fprintf(&b, "# Code Explanation\n\n")
		fmt.Fprintf(&b, "## File: %s\n\n", file)
		fmt.Fprintf(&b, "## Language: %s\n\n", language)
		fmt.Fprintf(&b, "## Explanation\n\n")
		b.WriteString(explanation)
	case FormatPlain:
		fmt.Fprintf(&b, "File: %s\n", file)
		fmt.Fprintf(&b, "Language: %s\n", language)
		fmt.Fprintf(&b, "\nExplanation:\n\n")
		b.WriteString(explanation)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return b.String(), nil
}
