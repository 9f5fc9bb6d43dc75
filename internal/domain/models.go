package domain

import "time"

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	CompletedTasks      int `json:"completedTasks"`
	TotalTasks          int `json:"totalTasks"`
	FocusTimeMinutes    int `json:"focusTime"`
	PomodoroSessions    int `json:"pomodoroSessions"`
	ProductivityPercent int `json:"productivity"`
}

// Helper methods

// CountCompleted returns how many of the given tasks are completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
