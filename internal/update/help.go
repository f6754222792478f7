package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/punchlist/internal/views"
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
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Mode:     string(m.Mode),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeAdd:
		return []KeyBinding{
			{Key: "enter", Action: "add task"},
			{Key: "esc", Action: "back to list"},
		}
	case ModeEdit:
		return []KeyBinding{
			{Key: "ctrl+s", Action: "save edit"},
			{Key: "esc", Action: "cancel edit"},
		}
	default:
		return []KeyBinding{
			{Key: m.Keys.Add, Action: "new task"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "space/x", Action: "toggle complete"},
			{Key: m.Keys.Edit, Action: "edit task"},
			{Key: m.Keys.Delete, Action: "delete completed task"},
			{Key: m.Keys.Clear, Action: "clear completed"},
			{Key: m.Keys.Refresh, Action: "refresh"},
			{Key: m.Keys.Palette, Action: "open command palette"},
			{Key: m.Keys.Help, Action: "toggle help panel"},
			{Key: m.Keys.Quit, Action: "quit app"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.modeBindings()))
	for _, kb := range m.modeBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
