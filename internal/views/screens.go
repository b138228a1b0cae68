package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TimerPanelData struct {
	Mode         string
	TaskText     string
	TaskTag      string
	Clock        string
	Running      bool
	ProgressView string
	Completed    int
	Quote        string
	DayProgress  string
	DayStatus    string
	Ambient      string
	Theme        string
}

type TodoItemData struct {
	ID        string
	Number    int
	Text      string
	Tag       string
	TagColor  string
	Completed bool
	Selected  bool
	Active    bool
}

type TodoPanelData struct {
	Open        []TodoItemData
	Done        []TodoItemData
	ProgressPct int
	InputView   string
	InputLabel  string
	NewTag      string
	Theme       string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

type SessionData struct {
	Mode     string
	Task     string
	Duration string
	At       string
}

func RenderTimerPanel(data TimerPanelData) string {
	p := PaletteFor(data.Theme)
	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("mode: %s\n", data.Mode))
	if data.TaskText != "" {
		b.WriteString(fmt.Sprintf("task: %s [%s]\n", data.TaskText, data.TaskTag))
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("timer: %s (%s)\n", clockStyle.Render(data.Clock), state))
	b.WriteString(data.ProgressView + "\n")
	b.WriteString(fmt.Sprintf("completed today: %d\n", data.Completed))
	if data.DayStatus != "" {
		b.WriteString(fmt.Sprintf("work day: %s %s\n", data.DayProgress, data.DayStatus))
	}
	if data.Ambient != "" {
		b.WriteString(mutedStyle.Render("ambient: "+data.Ambient) + "\n")
	}
	if data.Quote != "" {
		b.WriteString("\n" + mutedStyle.Render(data.Quote))
	}
	return strings.TrimSpace(b.String())
}

func RenderTodoPanel(data TodoPanelData) string {
	p := PaletteFor(data.Theme)
	selectedStyle := lipgloss.NewStyle().Foreground(p.Highlight).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("todos: %d%% done | new tag: %s\n", data.ProgressPct, data.NewTag))
	if data.InputView != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", data.InputLabel, data.InputView))
	}
	renderTodoSection(&b, "todo", data.Open, selectedStyle, doneStyle)
	renderTodoSection(&b, "completed", data.Done, selectedStyle, doneStyle)
	return strings.TrimSpace(b.String())
}

func renderTodoSection(b *strings.Builder, title string, items []TodoItemData, selected, done lipgloss.Style) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		cursor := " "
		if item.Selected {
			cursor = ">"
		}
		check := "[ ]"
		if item.Completed {
			check = "[x]"
		}
		tag := lipgloss.NewStyle().Foreground(lipgloss.Color(item.TagColor)).Render(item.Tag)
		text := item.Text
		switch {
		case item.Completed:
			text = done.Render(text)
		case item.Selected:
			text = selected.Render(text)
		}
		marker := ""
		if item.Active {
			marker = " *"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s %s%s\n", cursor, item.Number, check, tag, text, marker))
	}
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimSpace(RenderMarkdown(data.Markdown) + "\n" + data.HelpView)
}

func RenderHistory(items []SessionData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if len(items) == 0 {
		b.WriteString("  (no sessions yet)")
		return b.String()
	}
	for _, item := range items {
		line := fmt.Sprintf("- %s %s %s", item.At, item.Mode, item.Duration)
		if item.Task != "" {
			line += " " + item.Task
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
