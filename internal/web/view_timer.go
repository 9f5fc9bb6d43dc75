package web

import (
	"io"

	"git.sr.ht/~jakintosh/tempo/internal/timer"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
)

// TimerView is the view model for the countdown panel
type TimerView struct {
	Status      string
	StatusLabel string
	Display     string
	Progress    int // percent, 0-100
	Running     bool
	CanStart    bool
	Presets     []PresetView
}

type PresetView struct {
	Minutes  int
	Active   bool
	Disabled bool
}

func NewTimerView(t widget.TimerView, presets []int) TimerView {
	view := TimerView{
		Status:      string(t.Status),
		StatusLabel: statusLabel(t.Status),
		Display:     t.Display,
		Progress:    int(t.Progress*100 + 0.5),
		Running:     t.Running,
		CanStart:    t.Status == timer.StatusIdle || t.Status == timer.StatusPaused,
	}
	for _, m := range presets {
		view.Presets = append(view.Presets, PresetView{
			Minutes:  m,
			Active:   m == t.DurationMinutes,
			Disabled: t.Running,
		})
	}
	return view
}

func statusLabel(s timer.Status) string {
	switch s {
	case timer.StatusRunning:
		return "Focusing"
	case timer.StatusPaused:
		return "Paused"
	case timer.StatusCompleted:
		return "Session complete"
	default:
		return "Ready"
	}
}

// RenderTimer renders the timer panel plus the stats and pending
// notifications out of band. The page polls this every second.
func (p *Presentation) RenderTimer(w io.Writer, view widget.View) error {
	if err := p.tmpl.ExecuteTemplate(w, "timer.html", NewTimerView(view.Timer, view.Presets)); err != nil {
		return err
	}
	if err := p.tmpl.ExecuteTemplate(w, "stats.html", NewStatsView(view.Stats, true)); err != nil {
		return err
	}
	return p.tmpl.ExecuteTemplate(w, "notifications.html", NewNotificationListView(view.Notifications, true))
}
