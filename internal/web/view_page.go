package web

import (
	"io"

	"git.sr.ht/~jakintosh/tempo/internal/widget"
)

type ClockView struct {
	Text string
}

type PageView struct {
	Clock         ClockView
	Timer         TimerView
	Stats         StatsView
	Tasks         TaskListView
	Notifications NotificationListView
}

func NewPageView(view widget.View) PageView {
	return PageView{
		Clock:         ClockView{Text: view.Clock},
		Timer:         NewTimerView(view.Timer, view.Presets),
		Stats:         NewStatsView(view.Stats, false),
		Tasks:         NewTaskListView(view.Tasks, false),
		Notifications: NewNotificationListView(view.Notifications, false),
	}
}

func (p *Presentation) RenderIndex(w io.Writer, view widget.View) error {
	return p.tmpl.ExecuteTemplate(w, "layout.html", NewPageView(view))
}

func (p *Presentation) RenderClock(w io.Writer, view widget.View) error {
	return p.tmpl.ExecuteTemplate(w, "clock.html", ClockView{Text: view.Clock})
}
