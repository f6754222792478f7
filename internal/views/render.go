package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const appTitle = "Punch List"

const (
	taskPaneWidth = 60
	sidePaneWidth = 44
)

// Frame is one full screen of the punch list.
type Frame struct {
	Greeting  string
	Pending   int
	Completed int

	// TaskPane holds the numbered lists, SidePane the add panel and any
	// overlays stacked under it.
	TaskPane string
	SidePane string
	Status   string

	// StatusErr marks Status as the result of a failed request.
	StatusErr bool
	Syncing   string
	Keys      string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	greetingStyle = lipgloss.NewStyle().Italic(true)
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	taskPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(taskPaneWidth)
	sidePaneStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1).Width(sidePaneWidth)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	keysStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(f Frame) string {
	lines := []string{
		renderTitle(f.Greeting, f.Pending, f.Completed),
		lipgloss.JoinHorizontal(lipgloss.Top,
			taskPaneStyle.Render(f.TaskPane),
			sidePaneStyle.Render(f.SidePane),
		),
	}
	if f.Status != "" {
		if f.StatusErr {
			lines = append(lines, errorStyle.Render("error: "+f.Status))
		} else {
			lines = append(lines, statusStyle.Render("status: "+f.Status))
		}
	}
	if f.Syncing != "" {
		lines = append(lines, f.Syncing)
	}
	if f.Keys != "" {
		lines = append(lines, keysStyle.Render(f.Keys))
	}
	return strings.Join(lines, "\n")
}

// renderTitle puts the greeting from the server beside the app name. The
// greeting is left out until the first fetch returns one.
func renderTitle(greeting string, pending, completed int) string {
	head := titleStyle.Render(appTitle)
	if g := strings.TrimSpace(greeting); g != "" {
		head += "  " + greetingStyle.Render(g)
	}
	return head + "\n" + countStyle.Render(fmt.Sprintf("%d pending · %d done", pending, completed))
}

// RenderMarkdown renders task text for the terminal, falling back to the raw
// text when glamour cannot parse it.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
