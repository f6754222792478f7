package update

import (
	"fmt"

	"github.com/sandeepkv93/punchlist/internal/views"
)

func (m Model) View() string {
	syncing := ""
	if m.Loading {
		syncing = m.syncSpinner.View() + " syncing tasks"
	}

	return views.RenderApp(views.Frame{
		Greeting:  m.Greeting,
		Pending:   len(m.Tasks),
		Completed: len(m.Complete),
		TaskPane:  m.renderTaskLists(),
		SidePane:  m.renderSidePane(),
		Status:    m.Status.Text,
		StatusErr: m.Status.IsError,
		Syncing:   syncing,
		Keys: fmt.Sprintf("%s add · space toggle · %s edit · %s delete · %s clear · %s refresh · %s cmd · %s help · %s quit",
			m.Keys.Add, m.Keys.Edit, m.Keys.Delete, m.Keys.Clear, m.Keys.Refresh, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderTaskLists() string {
	data := views.TaskListData{
		Pending:   make([]views.TaskItemData, 0, len(m.Tasks)),
		Completed: make([]views.TaskItemData, 0, len(m.Complete)),
		Render:    m.renderText,
	}
	for i, t := range m.Items() {
		item := views.TaskItemData{
			Number:   i + 1,
			Text:     t.Text,
			Complete: t.Complete,
			Selected: m.Mode == ModeList && i == m.Cursor,
		}
		if i < len(m.Tasks) {
			data.Pending = append(data.Pending, item)
			continue
		}
		data.Completed = append(data.Completed, item)
	}
	return views.RenderTaskLists(data)
}

func (m Model) renderSidePane() string {
	parts := []string{
		views.RenderAddPanel(views.AddPanelData{
			InputView: m.addInput.View(),
			Active:    m.Mode == ModeAdd,
			Enabled:   m.CanAdd(),
		}),
	}
	if m.Edit.Active {
		parts = append(parts, views.RenderEditOverlay(views.EditOverlayData{
			Active:     true,
			TaskNumber: m.editPosition(),
			EditorView: m.editor.View(),
		}))
	}
	if m.Palette.Active {
		parts = append(parts, views.RenderCommandPalette(true, m.Palette.Input))
	}
	if help := m.renderHelpIfVisible(); help != "" {
		parts = append(parts, help)
	}
	return joinSections(parts)
}

func (m Model) editPosition() int {
	for i, t := range m.Items() {
		if t.ID == m.Edit.TaskID {
			return i + 1
		}
	}
	return 0
}
