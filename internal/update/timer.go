package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/deepwork/internal/timer"
)

func (m Model) handleTimerKey(key string) (Model, tea.Cmd, bool) {
	engine := m.deps.Engine
	switch key {
	case m.Keys.Toggle:
		engine.Toggle()
		if engine.State().Running {
			m.Status = StatusBar{Text: "timer running"}
		} else {
			m.Status = StatusBar{Text: "timer paused"}
		}
	case m.Keys.Reset:
		engine.Reset()
		m.Status = StatusBar{Text: "timer reset"}
	case "1":
		engine.SetMode(timer.ModeFocus)
		m.Status = StatusBar{Text: "mode: " + timer.ModeFocus.Label()}
	case "2":
		engine.SetMode(timer.ModeShortBreak)
		m.Status = StatusBar{Text: "mode: " + timer.ModeShortBreak.Label()}
	case "3":
		engine.SetMode(timer.ModeLongBreak)
		m.Status = StatusBar{Text: "mode: " + timer.ModeLongBreak.Label()}
	case "s":
		if engine.State().Mode != timer.ModeTask {
			return m, nil, true
		}
		engine.StopTaskTimer()
		m.Status = StatusBar{Text: "task timer stopped"}
	case "enter":
		item, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		if item.Completed {
			m.Status = StatusBar{Text: "task already completed", IsError: true}
			return m, nil, true
		}
		engine.StartTaskTimer(item)
		m.Status = StatusBar{Text: fmt.Sprintf("timing task: %s", item.Text)}
	default:
		return m, nil, false
	}
	return m, windowTitleCmd(engine.State()), true
}

func (m Model) onTimerTick(ev timer.TickEvent) (tea.Model, tea.Cmd) {
	engine := m.deps.Engine
	done, ok := engine.Tick(ev.Gen)
	if ok {
		m.Status = StatusBar{Text: completionStatus(done)}
	}
	return m, tea.Batch(waitForTickCmd(m.deps.Ticks), windowTitleCmd(engine.State()))
}

func completionStatus(done timer.Completion) string {
	var what string
	switch {
	case done.Mode == timer.ModeTask && done.Task != nil:
		what = fmt.Sprintf("task session complete: %s", done.Task.Text)
	default:
		what = fmt.Sprintf("%s complete", done.Mode.Label())
	}
	if done.Chained {
		return fmt.Sprintf("%s; starting %s", what, done.Next.Label())
	}
	if done.Mode == timer.ModeTask {
		return what
	}
	return fmt.Sprintf("%s; next up: %s", what, done.Next.Label())
}

func waitForTickCmd(ch <-chan timer.TickEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TimerTickMsg{Event: ev}
	}
}

func windowTitleCmd(s timer.State) tea.Cmd {
	return tea.SetWindowTitle(windowTitle(s))
}

func windowTitle(s timer.State) string {
	icon := "||"
	if s.Running {
		icon = ">"
	}
	return fmt.Sprintf("%s %s - %s | Deep Work", icon, formatDuration(s.TimeLeft), s.Mode.Label())
}
