package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/deepwork/internal/todo"
)

func (m Model) handleTodoKey(key string) (Model, bool) {
	store := m.deps.Todos
	if store == nil {
		return m, false
	}
	switch key {
	case "j", "down":
		m.Cursor++
		m.clampCursor()
	case "k", "up":
		m.Cursor--
		m.clampCursor()
	case "a":
		m.Input = InputAdd
		m.EditingID = ""
		m.todoInput.SetValue("")
		m.todoInput.Focus()
	case "e":
		item, ok := m.selected()
		if !ok {
			return m, true
		}
		m.Input = InputEdit
		m.EditingID = item.ID
		m.todoInput.SetValue(item.Text)
		m.todoInput.CursorEnd()
		m.todoInput.Focus()
	case "x":
		item, ok := m.selected()
		if !ok {
			return m, true
		}
		m.reportErr(store.Toggle(item.ID))
		m.focusID(item.ID)
	case "t":
		item, ok := m.selected()
		if !ok {
			return m, true
		}
		m.reportErr(store.Retag(item.ID, item.Tag.Next()))
	case "T":
		m.NewTag = m.NewTag.Next()
		store.SetSelectedTag(m.NewTag)
		m.Status = StatusBar{Text: "new todo tag: " + m.NewTag.Info().Label}
	case "d":
		item, ok := m.selected()
		if !ok {
			return m, true
		}
		m.reportErr(store.Delete(item.ID))
		m.clampCursor()
	case "c":
		n := store.ClearCompleted()
		m.clampCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("cleared %d completed todo(s)", n)}
	case "J", "shift+down":
		m.moveSelected(1)
	case "K", "shift+up":
		m.moveSelected(-1)
	default:
		return m, false
	}
	return m, true
}

// moveSelected swaps the selection with its neighbour in the same section.
func (m *Model) moveSelected(delta int) {
	rows := m.rows()
	from := m.Cursor
	to := from + delta
	if from < 0 || from >= len(rows) || to < 0 || to >= len(rows) {
		return
	}
	source := rows[from]
	if !m.deps.Todos.Reorder(source.ID, rows[to].ID) {
		m.Status = StatusBar{Text: "todos only move within their section", IsError: true}
		return
	}
	m.focusID(source.ID)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		text := m.todoInput.Value()
		switch m.Input {
		case InputAdd:
			item, err := m.deps.Todos.Add(text, m.NewTag)
			if errors.Is(err, todo.ErrEmptyText) {
				m.Status = StatusBar{Text: "todo text is empty", IsError: true}
				return m, nil
			}
			m.reportErr(err)
			if err == nil {
				m.focusID(item.ID)
				m.Status = StatusBar{Text: "added: " + item.Text}
			}
		case InputEdit:
			m.reportErr(m.deps.Todos.Retext(m.EditingID, text))
		}
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.todoInput, cmd = m.todoInput.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.Input = InputNone
	m.EditingID = ""
	m.todoInput.SetValue("")
	m.todoInput.Blur()
}

func (m *Model) reportErr(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Warn("todo action failed", "err", err)
}
