package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/deepwork/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: helpMarkdown(m.timerBindings(), m.todoBindings()),
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func helpMarkdown(groups ...[]KeyBinding) string {
	titles := []string{"Timer", "Todos"}
	var b strings.Builder
	for i, group := range groups {
		if i < len(titles) {
			b.WriteString("## " + titles[i] + "\n\n")
		}
		for _, kb := range group {
			b.WriteString(fmt.Sprintf("- `%s` %s\n", displayKey(kb.Key), kb.Action))
		}
		b.WriteString("\n")
	}
	b.WriteString("## Commands\n\n")
	b.WriteString("`/add text #tag`, `/mode focus|short|long`, `/task [n]`, `/set focus 30`, " +
		"`/set autostart on`, `/quote text`, `/ambient url`, `/theme`, `/layout`, `/clear`, " +
		"`/history [n]`, `/reset-count`, `/reset-settings`\n")
	return b.String()
}

func (m Model) timerBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Toggle, Action: "start/pause timer"},
		{Key: m.Keys.Reset, Action: "reset timer"},
		{Key: "1/2/3", Action: "focus / short break / long break"},
		{Key: "enter", Action: "time the selected todo"},
		{Key: "s", Action: "stop task timer"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) todoBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "j/k", Action: "move cursor"},
		{Key: "J/K", Action: "move todo within its section"},
		{Key: "a", Action: "add todo"},
		{Key: "e", Action: "edit todo text"},
		{Key: "x", Action: "toggle done"},
		{Key: "t", Action: "cycle todo tag"},
		{Key: "T", Action: "cycle tag for new todos"},
		{Key: "d", Action: "delete todo"},
		{Key: "c", Action: "clear completed"},
	}
}

func (m Model) helpBindings() []key.Binding {
	all := append(m.timerBindings(), m.todoBindings()...)
	out := make([]key.Binding, 0, len(all))
	for _, kb := range all {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(displayKey(kb.Key), kb.Action)))
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
