package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/prefs"
	"github.com/sandeepkv93/deepwork/internal/settings"
	"github.com/sandeepkv93/deepwork/internal/storage"
	"github.com/sandeepkv93/deepwork/internal/timer"
	"github.com/sandeepkv93/deepwork/internal/todo"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Toggle string
	Reset  string
	Help   string
	Quit   string
}

type InputMode string

const (
	InputNone InputMode = ""
	InputAdd  InputMode = "add"
	InputEdit InputMode = "edit"
)

type CommandPaletteState struct {
	Active bool
	Input  string
}

type SessionLister interface {
	ListSessions(ctx context.Context, filter storage.SessionListFilter) ([]storage.Session, error)
}

// Deps wires the stores and the timer into the model. Ticks is the armed
// interval's delivery channel.
type Deps struct {
	Engine        *timer.Engine
	Ticks         <-chan timer.TickEvent
	Settings      *settings.Store
	Todos         *todo.Store
	Prefs         *prefs.Store
	Sessions      SessionLister
	WorkStartHour int
	WorkEndHour   int
	Logger        *slog.Logger
	Now           func() time.Time
}

type Model struct {
	deps   Deps
	logger *slog.Logger

	Cursor      int
	NewTag      model.Tag
	Input       InputMode
	EditingID   string
	Palette     CommandPaletteState
	HelpVisible bool
	History     []storage.Session
	ShowHistory bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Width       int

	todoInput     textinput.Model
	commandInput  textinput.Model
	timerProgress progress.Model
	helpModel     help.Model
}

type TimerTickMsg struct {
	Event timer.TickEvent
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Engine == nil {
		deps.Engine = timer.NewEngine(timer.Deps{Settings: deps.Settings, Logger: deps.Logger})
	}
	if deps.WorkEndHour <= deps.WorkStartHour {
		deps.WorkStartHour, deps.WorkEndHour = 9, 17
	}
	m := Model{
		deps:   deps,
		logger: deps.Logger.With("component", "tui"),
		NewTag: model.DefaultTag,
		Keys: GlobalKeyMap{
			Toggle: " ",
			Reset:  "r",
			Help:   "?",
			Quit:   "q",
		},
	}
	if deps.Todos != nil {
		m.NewTag = deps.Todos.SelectedTag()
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.todoInput = textinput.New()
	m.todoInput.Prompt = "> "
	m.todoInput.CharLimit = 256
	m.todoInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timerProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(36))

	m.helpModel = help.New()
}

// rows is the todo list in display order: open items, then completed.
func (m Model) rows() []model.Todo {
	if m.deps.Todos == nil {
		return nil
	}
	open, done := m.deps.Todos.Split()
	return append(open, done...)
}

func (m Model) selected() (model.Todo, bool) {
	rows := m.rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return model.Todo{}, false
	}
	return rows[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// focusID moves the cursor onto id if it is still listed.
func (m *Model) focusID(id string) {
	for i, item := range m.rows() {
		if item.ID == id {
			m.Cursor = i
			return
		}
	}
	m.clampCursor()
}
