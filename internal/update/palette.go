package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/deepwork/internal/commands"
	"github.com/sandeepkv93/deepwork/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Info("command failed", "command", cmd.Type, "err", err)
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.closePalette()
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m *Model) paletteHandlers() commands.Handlers {
	engine := m.deps.Engine
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if m.deps.Todos == nil {
				return unavailable("todos")
			}
			tag := a.Tag
			if tag == "" {
				tag = m.NewTag
			}
			item, err := m.deps.Todos.Add(a.Text, tag)
			if err != nil {
				return commands.Result{}, err
			}
			m.focusID(item.ID)
			return commands.Result{Message: fmt.Sprintf("added %s todo: %s", item.Tag, item.Text)}, nil
		},
		Mode: func(a commands.ModeArgs) (commands.Result, error) {
			engine.SetMode(a.Mode)
			return commands.Result{Message: "mode: " + a.Mode.Label()}, nil
		},
		Task: func(a commands.TaskArgs) (commands.Result, error) {
			item, ok := m.selected()
			if a.Index > 0 {
				open, _ := m.deps.Todos.Split()
				ok = a.Index <= len(open)
				if ok {
					item = open[a.Index-1]
				}
			}
			if !ok || item.Completed {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no open todo at that position"}
			}
			engine.StartTaskTimer(item)
			return commands.Result{Message: fmt.Sprintf("timing task: %s", item.Text)}, nil
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			if m.deps.Settings == nil {
				return unavailable("settings")
			}
			next := m.deps.Settings.Update(a.Patch)
			return commands.Result{Message: fmt.Sprintf("%s updated (focus %dm, short %dm, long %dm, every %d)",
				a.Field, next.FocusMinutes, next.ShortBreakMinutes, next.LongBreakMinutes, next.LongBreakInterval)}, nil
		},
		Quote: func(a commands.QuoteArgs) (commands.Result, error) {
			if m.deps.Prefs == nil {
				return unavailable("preferences")
			}
			return commands.Result{Message: "quote: " + m.deps.Prefs.SetQuote(a.Text)}, nil
		},
		Ambient: func(a commands.AmbientArgs) (commands.Result, error) {
			if m.deps.Prefs == nil {
				return unavailable("preferences")
			}
			amb, err := m.deps.Prefs.SetAmbientURL(a.URL)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if amb.IsZero() {
				return commands.Result{Message: "ambient cleared"}, nil
			}
			return commands.Result{Message: "ambient: " + amb.EmbedURL()}, nil
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			if m.deps.Sessions == nil {
				return unavailable("history")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			items, err := m.deps.Sessions.ListSessions(ctx, storage.SessionListFilter{Limit: a.Limit})
			if err != nil {
				return commands.Result{}, fmt.Errorf("list sessions: %w", err)
			}
			m.History = items
			m.ShowHistory = true
			return commands.Result{Message: fmt.Sprintf("%d recent session(s)", len(items))}, nil
		},
		Theme: func() (commands.Result, error) {
			if m.deps.Prefs == nil {
				return unavailable("preferences")
			}
			return commands.Result{Message: "theme: " + m.deps.Prefs.ToggleTheme().Label()}, nil
		},
		Layout: func() (commands.Result, error) {
			if m.deps.Prefs == nil {
				return unavailable("preferences")
			}
			return commands.Result{Message: "layout: " + string(m.deps.Prefs.ToggleLayout())}, nil
		},
		Clear: func() (commands.Result, error) {
			if m.deps.Todos == nil {
				return unavailable("todos")
			}
			n := m.deps.Todos.ClearCompleted()
			m.clampCursor()
			return commands.Result{Message: fmt.Sprintf("cleared %d completed todo(s)", n)}, nil
		},
		ResetCount: func() (commands.Result, error) {
			engine.ResetCompletedCount()
			return commands.Result{Message: "completed count reset"}, nil
		},
		ResetSettings: func() (commands.Result, error) {
			if m.deps.Settings == nil {
				return unavailable("settings")
			}
			m.deps.Settings.ResetToDefaults()
			if m.deps.Todos != nil {
				m.deps.Todos.Reload()
				m.NewTag = m.deps.Todos.SelectedTag()
			}
			m.Cursor = 0
			return commands.Result{Message: "settings and data reset to defaults"}, nil
		},
	}
}

func unavailable(what string) (commands.Result, error) {
	return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: what + " not configured"}
}
