package update

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	if m.api == nil {
		return nil
	}
	return tea.Batch(
		fetchGreetingCmd(m.api, m.timeout),
		fetchSnapshotCmd(m.api, m.timeout, m.seq),
		m.syncSpinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		switch m.Mode {
		case ModeAdd:
			return m.handleAddKey(typed)
		case ModeEdit:
			return m.handleEditKey(typed)
		}
		return m.handleListKey(typed)
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case GreetingMsg:
		if typed.Err != nil {
			m.fail("load greeting", typed.Err)
			return m, nil
		}
		m.Greeting = typed.Text
		return m, nil
	case SnapshotMsg:
		m.applySnapshot(typed)
		return m, nil
	case MutationMsg:
		return m.onMutationSettled(typed)
	case cursor.BlinkMsg:
		var cmd tea.Cmd
		switch {
		case m.Palette.Active:
			m.commandInput, cmd = m.commandInput.Update(typed)
		case m.Mode == ModeAdd:
			m.addInput, cmd = m.addInput.Update(typed)
		case m.Mode == ModeEdit:
			m.editor, cmd = m.editor.Update(typed)
		}
		return m, cmd
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	}

	return m, nil
}

// applySnapshot installs refetch results unless a newer refetch has already
// been applied.
func (m *Model) applySnapshot(msg SnapshotMsg) {
	if msg.Seq < m.applied {
		m.log.WithField("seq", msg.Seq).WithField("applied", m.applied).Debug("dropping stale snapshot")
		return
	}
	if msg.Seq >= m.seq {
		m.Loading = false
	}
	if msg.Err != nil {
		m.fail("refresh tasks", msg.Err)
		return
	}
	m.applied = msg.Seq
	m.Tasks = msg.Snapshot.Pending
	m.Complete = msg.Snapshot.Completed
	m.clampCursor()
}

func (m Model) onMutationSettled(msg MutationMsg) (tea.Model, tea.Cmd) {
	var expire tea.Cmd
	if msg.Err != nil {
		m.fail(string(msg.Action), msg.Err)
	} else {
		m.setStatus(successText(msg.Action), false)
		expire = m.expireStatus()
	}
	if msg.ClearInput {
		m.addInput.SetValue("")
	}
	if msg.Action == ActionEdit && m.Edit.Active && m.Edit.TaskID == msg.TaskID {
		m.closeEditor()
	}
	refetch := m.refetch()
	return m, tea.Batch(refetch, expire)
}

// refetch issues the next numbered snapshot request.
func (m *Model) refetch() tea.Cmd {
	if m.api == nil {
		return nil
	}
	m.seq++
	m.Loading = true
	return tea.Batch(fetchSnapshotCmd(m.api, m.timeout, m.seq), m.syncSpinner.Tick)
}

func (m *Model) fail(op string, err error) {
	m.LastError = err
	m.setStatus(op+" failed: "+err.Error(), true)
	m.log.WithError(err).WithField("op", op).Error("task api call failed")
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusSeq++
	m.Status = StatusBar{Text: text, IsError: isErr}
}

// expireStatus clears the current status after statusTTL unless another
// status replaces it first.
func (m Model) expireStatus() tea.Cmd {
	if m.statusTTL <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func successText(a Action) string {
	switch a {
	case ActionAdd:
		return "Task added successfully!"
	case ActionEdit:
		return "Task edited successfully!"
	case ActionToggle:
		return "Task updated."
	case ActionDelete:
		return "Successfully deleted."
	case ActionClear:
		return "Completed tasks cleared."
	default:
		return string(a)
	}
}
