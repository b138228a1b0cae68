package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

// Palette is the set of colors a theme contributes.
type Palette struct {
	Name      string
	Accent    lipgloss.Color
	Progress  lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Highlight lipgloss.Color
}

var palettes = map[string]Palette{
	"forest": {
		Name:      "Forest Focus",
		Accent:    lipgloss.Color("#22c55e"),
		Progress:  lipgloss.Color("#f59e0b"),
		Border:    lipgloss.Color("#64748b"),
		Text:      lipgloss.Color("#f8fafc"),
		Muted:     lipgloss.Color("#94a3b8"),
		Error:     lipgloss.Color("#ef4444"),
		Highlight: lipgloss.Color("#16a34a"),
	},
	"midnight": {
		Name:      "Midnight Productivity",
		Accent:    lipgloss.Color("#14b8a6"),
		Progress:  lipgloss.Color("#2dd4bf"),
		Border:    lipgloss.Color("#475569"),
		Text:      lipgloss.Color("#f8fafc"),
		Muted:     lipgloss.Color("#94a3b8"),
		Error:     lipgloss.Color("#f87171"),
		Highlight: lipgloss.Color("#0d9488"),
	},
}

// PaletteFor falls back to forest for unknown names.
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["forest"]
}

type AppData struct {
	Header     string
	TimerPane  string
	TodoPane   string
	SidePane   string
	StatusLine string
	IsError    bool
	Footer     string
	Layout     Layout
	Theme      string
	Width      int
}

func RenderApp(data AppData) string {
	p := PaletteFor(data.Theme)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	statusStyle := lipgloss.NewStyle().Foreground(p.Accent)
	errorStyle := lipgloss.NewStyle().Foreground(p.Error)
	footerStyle := lipgloss.NewStyle().Foreground(p.Muted)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1)

	width := 44
	if data.Layout == LayoutVertical {
		width = 90
	}
	if data.Width > 0 && data.Layout == LayoutHorizontal && data.Width/2-4 > width {
		width = data.Width/2 - 4
	}

	panes := []string{panelStyle.Width(width).Render(data.TimerPane), panelStyle.Width(width).Render(data.TodoPane)}
	var body string
	if data.Layout == LayoutVertical {
		body = lipgloss.JoinVertical(lipgloss.Left, panes...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	}

	lines := []string{headerStyle.Render(data.Header), body}
	if strings.TrimSpace(data.SidePane) != "" {
		lines = append(lines, panelStyle.Render(data.SidePane))
	}
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
