package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/punchlist/internal/client"
	"github.com/sandeepkv93/punchlist/internal/logger"
	"github.com/sandeepkv93/punchlist/internal/model"
	"github.com/sandeepkv93/punchlist/internal/views"
)

// TaskService is the remote task API as seen by the UI. *client.Client
// satisfies it.
type TaskService interface {
	Greeting(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) (client.Snapshot, error)
	Add(ctx context.Context, text string) error
	Edit(ctx context.Context, id int64, text string) error
	SetComplete(ctx context.Context, id int64, complete bool) error
	Delete(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) error
}

var _ TaskService = (*client.Client)(nil)

type Mode string

const (
	ModeList Mode = "list"
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Edit    string
	Toggle  string
	Delete  string
	Clear   string
	Refresh string
	Palette string
	Help    string
	Quit    string
}

type EditState struct {
	Active bool
	TaskID int64
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Greeting    string
	Tasks       []model.Task
	Complete    []model.Task
	Mode        Mode
	Cursor      int
	Edit        EditState
	Palette     CommandPaletteState
	HelpVisible bool
	Loading     bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	api     TaskService
	log     *logrus.Entry
	timeout time.Duration

	// seq is the newest refetch issued, applied the newest one whose
	// snapshot has been taken into the lists.
	seq     uint64
	applied uint64

	statusSeq uint64
	statusTTL time.Duration

	addInput     textinput.Model
	editor       textarea.Model
	commandInput textinput.Model
	syncSpinner  spinner.Model
	helpModel    help.Model
	renderText   func(string) string
}

type Option func(*Model)

// WithLogger sends UI errors to log instead of discarding them.
func WithLogger(log *logrus.Entry) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// WithRequestTimeout bounds every call made against the task API.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithStatusTTL sets how long a success message stays in the status bar.
// Zero keeps it until the next status.
func WithStatusTTL(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.statusTTL = d
		}
	}
}

// WithTextRenderer replaces the markdown renderer used for task text.
func WithTextRenderer(fn func(string) string) Option {
	return func(m *Model) {
		m.renderText = fn
	}
}

func NewModel(api TaskService, opts ...Option) Model {
	m := Model{
		Mode:      ModeList,
		api:       api,
		log:       logger.Discard(),
		timeout:   10 * time.Second,
		statusTTL: 4 * time.Second,
		seq:       1,
		Loading:   true,
		Keys: GlobalKeyMap{
			Add:     "a",
			Edit:    "e",
			Toggle:  " ",
			Delete:  "d",
			Clear:   "C",
			Refresh: "r",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		renderText: views.RenderMarkdown,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.Placeholder = "What needs doing?"
	m.addInput.CharLimit = 1024
	m.addInput.Width = 52

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 1024
	m.commandInput.Width = 48

	m.editor = textarea.New()
	m.editor.SetWidth(54)
	m.editor.SetHeight(6)
	m.editor.ShowLineNumbers = false
	m.editor.Placeholder = "Task text (markdown)"

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// Items is the on-screen order: pending first, then completed.
func (m Model) Items() []model.Task {
	out := make([]model.Task, 0, len(m.Tasks)+len(m.Complete))
	out = append(out, m.Tasks...)
	return append(out, m.Complete...)
}

// TaskAt resolves a 1-based on-screen position.
func (m Model) TaskAt(pos int) (model.Task, bool) {
	items := m.Items()
	if pos < 1 || pos > len(items) {
		return model.Task{}, false
	}
	return items[pos-1], true
}

func (m Model) selected() (model.Task, bool) {
	return m.TaskAt(m.Cursor + 1)
}

func (m Model) AddInput() string {
	return m.addInput.Value()
}

func (m Model) CanAdd() bool {
	return model.HasText(m.addInput.Value())
}

func (m Model) CanClear() bool {
	return len(m.Complete) > 0
}

// ClearStatusMsg clears the status bar if it still shows status number Seq.
type ClearStatusMsg struct {
	Seq uint64
}

type GreetingMsg struct {
	Text string
	Err  error
}

// SnapshotMsg carries the result of refetch number Seq.
type SnapshotMsg struct {
	Seq      uint64
	Snapshot client.Snapshot
	Err      error
}

type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionToggle Action = "toggle"
	ActionDelete Action = "delete"
	ActionClear  Action = "clear"
)

// MutationMsg reports that a write against the API settled. ClearInput
// empties the add input afterwards.
type MutationMsg struct {
	Action     Action
	TaskID     int64
	ClearInput bool
	Err        error
}
