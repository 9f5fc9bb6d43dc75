package widget

import (
	"fmt"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

// CommandKind names one user action.
type CommandKind string

const (
	StartTimer  CommandKind = "start_timer"
	PauseTimer  CommandKind = "pause_timer"
	ToggleTimer CommandKind = "toggle_timer"
	ResetTimer  CommandKind = "reset_timer"
	SetDuration CommandKind = "set_duration"
	AddTask     CommandKind = "add_task"
	ToggleTask  CommandKind = "toggle_task"
	DeleteTask  CommandKind = "delete_task"
)

// Command is a user action forwarded by a front end. Only the fields its Kind
// needs are read.
type Command struct {
	Kind    CommandKind
	Minutes int    // SetDuration
	Text    string // AddTask
	TaskID  int64  // ToggleTask, DeleteTask
}

// Result carries the task touched by a task command.
type Result struct {
	Task *domain.Task
}

func (c Command) String() string {
	switch c.Kind {
	case SetDuration:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Minutes)
	case ToggleTask, DeleteTask:
		return fmt.Sprintf("%s(%d)", c.Kind, c.TaskID)
	default:
		return string(c.Kind)
	}
}
