package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme defines the terminal color scheme.
type Theme struct {
	Primary lipgloss.Color // accent
	Dim     lipgloss.Color // secondary text
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Foreground(t.Dim),
		Value:  lipgloss.NewStyle(),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Field is one label/value line of a summary.
type Field struct {
	Label string
	Value string
}

// Summary renders a titled block of fields followed by an optional table.
type Summary struct {
	Styles  Styles
	Title   string
	Fields  []Field
	Headers []string
	Rows    [][]string
	Footer  string
}

// Render renders the summary to a string.
func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString(s.Styles.Title.Render(s.Title))
	b.WriteString("\n")

	width := 0
	for _, f := range s.Fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	for _, f := range s.Fields {
		label := f.Label + ":" + strings.Repeat(" ", width-lipgloss.Width(f.Label)+1)
		b.WriteString("  ")
		b.WriteString(s.Styles.Label.Render(label))
		b.WriteString(s.Styles.Value.Render(f.Value))
		b.WriteString("\n")
	}

	if len(s.Headers) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(s.Styles.Border).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return s.Styles.Title.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers(s.Headers...).
			Rows(s.Rows...)
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if s.Footer != "" {
		b.WriteString(s.Styles.Help.Render(s.Footer))
		b.WriteString("\n")
	}
	return b.String()
}
