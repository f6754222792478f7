package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/punchlist/internal/commands"
	"github.com/sandeepkv93/punchlist/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		m.closePalette()
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if !model.HasText(a.Text) {
				return commands.Result{}, invalidArg("task text is empty")
			}
			api := m.api
			text := a.Text
			next = m.mutate(MutationMsg{Action: ActionAdd}, func(ctx context.Context) error {
				return api.Add(ctx, text)
			})
			return commands.Result{Message: "adding task"}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			task, err := m.taskAtPosition(e.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if task.Complete {
				return commands.Result{}, invalidArg("only pending tasks can be edited")
			}
			if !model.HasText(e.Text) {
				return commands.Result{}, invalidArg("task text is empty")
			}
			next = m.editCmd(task.ID, e.Text)
			return commands.Result{Message: fmt.Sprintf("editing task %d", e.Position)}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.taskAtPosition(t.Position)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.toggleCmd(task)
			return commands.Result{Message: fmt.Sprintf("toggling task %d", t.Position)}, nil
		},
		Remove: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.taskAtPosition(t.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if !task.Complete {
				return commands.Result{}, invalidArg("only completed tasks can be deleted")
			}
			next = m.deleteCmd(task)
			return commands.Result{Message: fmt.Sprintf("deleting task %d", t.Position)}, nil
		},
		Clear: func() (commands.Result, error) {
			if !m.CanClear() {
				return commands.Result{}, invalidArg("no completed tasks to clear")
			}
			next = m.clearCmd()
			return commands.Result{Message: "clearing completed tasks"}, nil
		},
		Refresh: func() (commands.Result, error) {
			next = m.refetch()
			return commands.Result{Message: "refreshing"}, nil
		},
	})
	if err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(res.Message, false)
	}
	m.closePalette()
	return m, next
}

func (m Model) taskAtPosition(pos int) (model.Task, error) {
	task, ok := m.TaskAt(pos)
	if !ok {
		return model.Task{}, invalidArg(fmt.Sprintf("no task at position %d", pos))
	}
	return task, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func invalidArg(msg string) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: msg}
}
