package web

import (
	"io"
	"strconv"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
)

// TaskView is the view model for one row of the task list
type TaskView struct {
	ID           string
	Text         string
	Completed    bool
	CreatedAt    string
	ToggleURL    string
	DeleteButton DeleteButtonView
}

// TaskListView is the task panel, including the entry form
type TaskListView struct {
	Tasks []TaskView
	Empty bool
	OOB   bool
}

// NewTaskView creates a TaskView from a domain Task
func NewTaskView(t domain.Task) TaskView {
	id := strconv.FormatInt(t.ID, 10)
	return TaskView{
		ID:        id,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: widget.FormatTaskTime(t.CreatedAt),
		ToggleURL: "/tasks/" + id + "/toggle",
		DeleteButton: DeleteButtonView{
			URL:    "/tasks/" + id,
			Target: "#tasks",
			Label:  "Delete",
		},
	}
}

func NewTaskListView(tasks []domain.Task, oob bool) TaskListView {
	view := TaskListView{
		Empty: len(tasks) == 0,
		OOB:   oob,
	}
	if len(tasks) > 0 {
		view.Tasks = make([]TaskView, len(tasks))
		for i, t := range tasks {
			view.Tasks[i] = NewTaskView(t)
		}
	}
	return view
}

// RenderTasks renders the task panel with the stats panel out of band, since
// every task mutation moves the counters.
func (p *Presentation) RenderTasks(w io.Writer, view widget.View) error {
	if err := p.tmpl.ExecuteTemplate(w, "tasks.html", NewTaskListView(view.Tasks, false)); err != nil {
		return err
	}
	return p.tmpl.ExecuteTemplate(w, "stats.html", NewStatsView(view.Stats, true))
}
