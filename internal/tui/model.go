// Package tui is the terminal front end. It renders widget state with Bubble
// Tea and turns key presses into widget commands.
package tui

import (
	"errors"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of the widget the terminal front end drives.
type Controller interface {
	Dispatch(cmd widget.Command) (widget.Result, error)
	State() widget.View
	Ack(id string) bool
}

type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

// tickMsg refreshes the view once a second
type tickMsg time.Time

type Model struct {
	widget Controller
	input  textinput.Model
	styles Styles

	view     widget.View
	focus    focusArea
	cursor   int
	status   string
	width    int
	quitting bool
}

func New(controller Controller) *Model {
	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = "Add a task..."
	ti.CharLimit = 200
	ti.Width = 40

	m := &Model{
		widget: controller,
		input:  ti,
		styles: NewStyles(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// the completion modal swallows the next key
	if len(m.view.Notifications) > 0 {
		m.widget.Ack(m.view.Notifications[0].ID)
		m.refresh()
		return m, nil
	}

	key := msg.String()
	if cmd, ok := widget.Shortcut(key, m.focusKind(), m.input.Value()); ok {
		if m.dispatch(cmd) && cmd.Kind == widget.AddTask {
			m.input.Reset()
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		return m, m.toggleFocus()
	case "esc":
		if m.focus == focusInput {
			return m, m.toggleFocus()
		}
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "s":
		m.dispatch(widget.Command{Kind: widget.StartTimer})
	case "p":
		m.dispatch(widget.Command{Kind: widget.PauseTimer})
	case "r":
		m.dispatch(widget.Command{Kind: widget.ResetTimer})
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(m.view.Presets) {
			m.dispatch(widget.Command{Kind: widget.SetDuration, Minutes: m.view.Presets[idx]})
		}
	case "j", "down":
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "x", "enter":
		if task, ok := m.selected(); ok {
			m.dispatch(widget.Command{Kind: widget.ToggleTask, TaskID: task.ID})
		}
	case "d":
		if task, ok := m.selected(); ok {
			m.dispatch(widget.Command{Kind: widget.DeleteTask, TaskID: task.ID})
		}
	}
	return m, nil
}

// dispatch runs cmd and refreshes. It reports whether the command succeeded.
func (m *Model) dispatch(cmd widget.Command) bool {
	_, err := m.widget.Dispatch(cmd)
	m.refresh()

	var verr *domain.ValidationError
	switch {
	case err == nil:
		m.status = ""
		return true
	case errors.As(err, &verr) && cmd.Kind == widget.AddTask:
		// blank entries are ignored
		m.status = ""
	case errors.Is(err, domain.ErrTimerRunning):
		m.status = "pause or reset the timer before changing its length"
	default:
		m.status = err.Error()
	}
	return false
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) focusKind() widget.Focus {
	if m.focus == focusInput {
		return widget.FocusTaskInput
	}
	return widget.FocusNone
}

func (m *Model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return domain.Task{}, false
	}
	return m.view.Tasks[m.cursor], true
}

func (m *Model) refresh() {
	m.view = m.widget.State()
	if m.cursor >= len(m.view.Tasks) {
		m.cursor = len(m.view.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
