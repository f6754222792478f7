package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/punchlist/internal/model"
)

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.setStatus("command palette active", false)
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.Add, "i", "enter":
		m.Mode = ModeAdd
		m.addInput.Focus()
		m.setStatus("add mode", false)
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Tasks)+len(m.Complete)-1 {
			m.Cursor++
		}
	case m.Keys.Toggle, "x":
		task, ok := m.selected()
		if !ok {
			m.setStatus("no task selected", true)
			return m, nil
		}
		return m, m.toggleCmd(task)
	case m.Keys.Edit:
		m.openEditor()
	case m.Keys.Delete:
		task, ok := m.selected()
		if !ok || !task.Complete {
			m.setStatus("only completed tasks can be deleted", true)
			return m, nil
		}
		return m, m.deleteCmd(task)
	case m.Keys.Clear:
		if !m.CanClear() {
			m.setStatus("clear disabled: no completed tasks", true)
			return m, nil
		}
		return m, m.clearCmd()
	case m.Keys.Refresh:
		m.setStatus("refreshing", false)
		cmd := m.refetch()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.addInput.Blur()
		m.setStatus("list mode", false)
		return m, nil
	case "enter":
		if !m.CanAdd() {
			m.setStatus("add disabled: task text is empty", true)
			return m, nil
		}
		text := m.addInput.Value()
		api := m.api
		return m, m.mutate(MutationMsg{Action: ActionAdd, ClearInput: true}, func(ctx context.Context) error {
			return api.Add(ctx, text)
		})
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		m.setStatus("edit cancelled", false)
		return m, nil
	case "ctrl+s":
		draft := m.editor.Value()
		if !model.HasText(draft) {
			m.setStatus("edit ignored: task text is empty", true)
			return m, nil
		}
		return m, m.editCmd(m.Edit.TaskID, draft)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) openEditor() {
	task, ok := m.selected()
	if !ok {
		m.setStatus("no task selected", true)
		return
	}
	if task.Complete {
		m.setStatus("only pending tasks can be edited", true)
		return
	}
	m.Edit = EditState{Active: true, TaskID: task.ID}
	m.Mode = ModeEdit
	m.editor.SetValue(task.Text)
	m.editor.Focus()
	m.setStatus("editing task", false)
}

func (m *Model) closeEditor() {
	m.Edit = EditState{}
	m.Mode = ModeList
	m.editor.Reset()
	m.editor.Blur()
}

func (m *Model) clampCursor() {
	last := len(m.Tasks) + len(m.Complete) - 1
	if m.Cursor > last {
		m.Cursor = last
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) editCmd(id int64, text string) tea.Cmd {
	api := m.api
	return m.mutate(MutationMsg{Action: ActionEdit, TaskID: id}, func(ctx context.Context) error {
		return api.Edit(ctx, id, text)
	})
}

func (m Model) toggleCmd(task model.Task) tea.Cmd {
	api := m.api
	return m.mutate(MutationMsg{Action: ActionToggle, TaskID: task.ID}, func(ctx context.Context) error {
		return api.SetComplete(ctx, task.ID, !task.Complete)
	})
}

func (m Model) deleteCmd(task model.Task) tea.Cmd {
	api := m.api
	return m.mutate(MutationMsg{Action: ActionDelete, TaskID: task.ID}, func(ctx context.Context) error {
		return api.Delete(ctx, task.ID)
	})
}

func (m Model) clearCmd() tea.Cmd {
	api := m.api
	return m.mutate(MutationMsg{Action: ActionClear}, func(ctx context.Context) error {
		return api.ClearCompleted(ctx)
	})
}

// mutate runs call and reports it as done, filling in Err on the result.
func (m Model) mutate(done MutationMsg, call func(context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done.Err = call(ctx)
		return done
	}
}

func fetchGreetingCmd(api TaskService, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := api.Greeting(ctx)
		return GreetingMsg{Text: text, Err: err}
	}
}

func fetchSnapshotCmd(api TaskService, timeout time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := api.Snapshot(ctx)
		return SnapshotMsg{Seq: seq, Snapshot: snap, Err: err}
	}
}
