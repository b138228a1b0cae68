package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/prefs"
	"github.com/sandeepkv93/deepwork/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForTickCmd(m.deps.Ticks), windowTitleCmd(m.deps.Engine.State()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Input != InputNone {
			return m.handleInputKey(typed)
		}

		keyStr := typed.String()
		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "esc":
			m.HelpVisible = false
			m.ShowHistory = false
			return m, nil
		case "L":
			if m.deps.Prefs != nil {
				m.Status = StatusBar{Text: "layout: " + string(m.deps.Prefs.ToggleLayout())}
			}
			return m, nil
		case "P":
			if m.deps.Prefs != nil {
				m.Status = StatusBar{Text: "theme: " + m.deps.Prefs.ToggleTheme().Label()}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		if next, cmd, ok := m.handleTimerKey(keyStr); ok {
			return next, cmd
		}
		if next, ok := m.handleTodoKey(keyStr); ok {
			return next, nil
		}
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		return m, nil
	case TimerTickMsg:
		return m.onTimerTick(typed.Event)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "err", typed.Err)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	theme, layout := prefs.ThemeForest, prefs.LayoutHorizontal
	if m.deps.Prefs != nil {
		theme, layout = m.deps.Prefs.Theme(), m.deps.Prefs.Layout()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	side := m.renderHelpIfVisible()
	if m.ShowHistory {
		side = m.renderHistory() + "\n" + side
	}
	if m.Palette.Active {
		side = views.RenderCommandPalette(true, m.commandInput.Value()) + "\n" + side
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("deep work | %s", m.deps.Engine.State().Mode.Label()),
		TimerPane:  m.renderTimerView(string(theme)),
		TodoPane:   m.renderTodoView(string(theme)),
		SidePane:   side,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     "keys: space start/pause | r reset | 1/2/3 mode | a add | x done | enter time task | / cmd | ? help | q quit",
		Layout:     views.Layout(layout),
		Theme:      string(theme),
		Width:      m.Width,
	})
}

func (m Model) settings() model.Settings {
	if m.deps.Settings == nil {
		return model.DefaultSettings()
	}
	return m.deps.Settings.Read()
}

func (m Model) renderTimerView(theme string) string {
	state := m.deps.Engine.State()
	total := state.Duration(m.settings())
	data := views.TimerPanelData{
		Mode:         state.Mode.Label(),
		Clock:        formatDuration(state.TimeLeft),
		Running:      state.Running,
		ProgressView: m.timerProgress.ViewAs(fraction(total-state.TimeLeft, total)),
		Completed:    m.deps.Engine.CompletedCount(),
		Theme:        theme,
	}
	if state.Task != nil {
		data.TaskText = state.Task.Text
		data.TaskTag = state.Task.Tag.Info().Label
	}
	day := model.WorkDayProgress(m.deps.Now(), m.deps.WorkStartHour, m.deps.WorkEndHour)
	data.DayProgress = fmt.Sprintf("%d%%", int(day.Percent))
	data.DayStatus = day.Status
	if m.deps.Prefs != nil {
		data.Quote = m.deps.Prefs.Quote()
		if raw := m.deps.Prefs.AmbientURL(); raw != "" {
			if amb, err := prefs.ParseAmbientURL(raw); err == nil {
				data.Ambient = amb.EmbedURL()
			}
		}
	}
	return views.RenderTimerPanel(data)
}

func (m Model) renderTodoView(theme string) string {
	data := views.TodoPanelData{NewTag: m.NewTag.Info().Label, Theme: theme}
	if m.deps.Todos == nil {
		return views.RenderTodoPanel(data)
	}
	data.ProgressPct = int(m.deps.Todos.Progress())

	var activeID string
	if task := m.deps.Engine.State().Task; task != nil {
		activeID = task.ID
	}
	for i, item := range m.rows() {
		info := item.Tag.Info()
		row := views.TodoItemData{
			ID:        item.ID,
			Number:    i + 1,
			Text:      item.Text,
			Tag:       info.Label,
			TagColor:  info.Color,
			Completed: item.Completed,
			Selected:  i == m.Cursor,
			Active:    item.ID == activeID,
		}
		if item.Completed {
			row.Number = len(data.Done) + 1
			data.Done = append(data.Done, row)
		} else {
			data.Open = append(data.Open, row)
		}
	}
	switch m.Input {
	case InputAdd:
		data.InputLabel = "add:"
		data.InputView = m.todoInput.View()
	case InputEdit:
		data.InputLabel = "edit:"
		data.InputView = m.todoInput.View()
	}
	return views.RenderTodoPanel(data)
}

func (m Model) renderHistory() string {
	items := make([]views.SessionData, 0, len(m.History))
	for _, s := range m.History {
		items = append(items, views.SessionData{
			Mode:     s.Mode,
			Task:     s.TaskText,
			Duration: formatDuration(s.DurationSec),
			At:       s.CompletedAt.Local().Format("Jan 02 15:04"),
		})
	}
	return views.RenderHistory(items)
}
