package tui

import (
	"fmt"
	"strings"

	"git.sr.ht/~jakintosh/tempo/internal/timer"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.view.Notifications) > 0 {
		return m.renderModal(m.view.Notifications[0])
	}

	sections := []string{
		m.renderHeader(),
		m.renderTimer(),
		m.renderStats(),
		m.renderTasks(),
		m.input.View(),
	}
	if m.status != "" {
		sections = append(sections, m.styles.Error.Render(m.status))
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		m.styles.Title.Render("Tempo"),
		"  ",
		m.styles.Clock.Render(m.view.Clock),
	)
}

func (m *Model) renderTimer() string {
	t := m.view.Timer

	display := m.styles.Display
	if t.Status == timer.StatusCompleted {
		display = m.styles.DisplayDone
	}

	presets := make([]string, 0, len(m.view.Presets))
	for i, minutes := range m.view.Presets {
		label := fmt.Sprintf("[%d] %dm", i+1, minutes)
		if minutes == t.DurationMinutes {
			presets = append(presets, m.styles.PresetOn.Render(label))
		} else {
			presets = append(presets, m.styles.Preset.Render(label))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		display.Render(t.Display)+"  "+m.styles.Status.Render(statusLabel(t.Status)),
		m.progressBar(t.Progress, barWidth)+fmt.Sprintf(" %3d%%", int(t.Progress*100+0.5)),
		strings.Join(presets, "  "),
	)
	return m.styles.Panel.Render(body)
}

func (m *Model) renderStats() string {
	s := m.view.Stats
	stat := func(value, label string) string {
		return m.styles.StatValue.Render(value) + " " + m.styles.StatLabel.Render(label)
	}
	return strings.Join([]string{
		stat(fmt.Sprintf("%d/%d", s.CompletedTasks, s.TotalTasks), "tasks"),
		stat(fmt.Sprintf("%dm", s.FocusTimeMinutes), "focus"),
		stat(fmt.Sprintf("%d", s.PomodoroSessions), "sessions"),
		stat(fmt.Sprintf("%d%%", s.ProductivityPercent), "productive"),
	}, "   ")
}

func (m *Model) renderTasks() string {
	if len(m.view.Tasks) == 0 {
		return m.styles.Help.Render("No tasks yet.")
	}

	lines := make([]string, len(m.view.Tasks))
	for i, task := range m.view.Tasks {
		cursor := "  "
		if i == m.cursor && m.focus == focusList {
			cursor = m.styles.Cursor.Render("> ")
		}
		box, text := "[ ] ", m.styles.Task.Render(task.Text)
		if task.Completed {
			box, text = "[x] ", m.styles.TaskDone.Render(task.Text)
		}
		lines[i] = cursor + box + text + "  " + m.styles.TaskTime.Render(widget.FormatTaskTime(task.CreatedAt))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	if m.focus == focusInput {
		return m.styles.Help.Render("enter add • esc/tab back to list")
	}
	return m.styles.Help.Render("space start/pause • s start • p pause • r reset • 1-4 presets • j/k move • x toggle • d delete • tab add task • q quit")
}

func (m *Model) renderModal(n widget.Notification) string {
	box := m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.styles.DisplayDone.Render(n.Message),
		"",
		m.styles.Help.Render("press any key"),
	))
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
	}
	return box
}

func (m *Model) progressBar(fraction float64, width int) string {
	filled := progressCells(fraction, width)
	return m.styles.BarFilled.Render(strings.Repeat("█", filled)) +
		m.styles.BarEmpty.Render(strings.Repeat("░", width-filled))
}

// progressCells is the number of filled cells for fraction, clamped to [0,width].
func progressCells(fraction float64, width int) int {
	filled := int(fraction*float64(width) + 0.5)
	if filled < 0 {
		return 0
	}
	if filled > width {
		return width
	}
	return filled
}

func statusLabel(s timer.Status) string {
	switch s {
	case timer.StatusRunning:
		return "focusing"
	case timer.StatusPaused:
		return "paused"
	case timer.StatusCompleted:
		return "session complete"
	default:
		return "ready"
	}
}
