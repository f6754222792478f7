package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const emptyPending = "Nada! 🎉"

type TaskItemData struct {
	Number   int
	Text     string
	Complete bool
	Selected bool
}

type TaskListData struct {
	Pending   []TaskItemData
	Completed []TaskItemData
	// Render turns task text into display text; nil shows the raw text.
	Render func(string) string
}

type AddPanelData struct {
	InputView string
	Active    bool
	Enabled   bool
}

type EditOverlayData struct {
	Active     bool
	TaskNumber int
	EditorView string
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

var (
	sectionStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// RenderTaskLists draws the pending section and, when it has entries, the
// completed section. Numbers continue across both sections.
func RenderTaskLists(data TaskListData) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Pending Tasks") + "\n")
	if len(data.Pending) == 0 {
		b.WriteString(emptyPending + "\n")
	}
	for _, item := range data.Pending {
		b.WriteString(renderTaskLine(item, data.Render) + "\n")
	}
	if len(data.Completed) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Completed Tasks") + "\n")
		for _, item := range data.Completed {
			b.WriteString(renderTaskLine(item, data.Render) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskLine(item TaskItemData, render func(string) string) string {
	text := item.Text
	if render != nil {
		if out := render(text); out != "" {
			text = out
		}
	}
	prefix := fmt.Sprintf("  %d. ", item.Number)
	if item.Selected {
		prefix = fmt.Sprintf("> %d. ", item.Number)
	}
	pad := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if item.Complete {
			line = doneStyle.Render(line)
		}
		if i > 0 {
			lines[i] = pad + line
			continue
		}
		lines[i] = line
	}
	head := prefix
	if item.Selected {
		head = selectedStyle.Render(prefix)
	}
	return head + strings.Join(lines, "\n")
}

func RenderAddPanel(data AddPanelData) string {
	var b strings.Builder
	b.WriteString("new task:\n")
	b.WriteString(data.InputView + "\n")
	switch {
	case !data.Active:
		b.WriteString(hintStyle.Render("[a] start typing"))
	case data.Enabled:
		b.WriteString(hintStyle.Render("[enter] add  [esc] back to list"))
	default:
		b.WriteString(hintStyle.Render("add disabled: type some text  [esc] back to list"))
	}
	return b.String()
}

func RenderEditOverlay(data EditOverlayData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("edit task %d:\n%s\n%s",
		data.TaskNumber,
		data.EditorView,
		hintStyle.Render("[ctrl+s] save  [esc] cancel"),
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s mode:\n%s\n%s",
		strings.ToLower(data.Mode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
