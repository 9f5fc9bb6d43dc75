package timer

import "time"

// Status is the countdown state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// EventType defines the type of Engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
)

// Completion describes a session that counted down to zero.
type Completion struct {
	SessionID       string
	DurationSeconds int
	CompletedAt     time.Time
}

// DurationMinutes is the session length floor-divided to whole minutes.
func (c Completion) DurationMinutes() int {
	return c.DurationSeconds / 60
}

// Event represents an Engine update for the listener.
type Event struct {
	Type       EventType
	Status     Status
	Remaining  int
	Progress   float64
	Completion *Completion // set for EventCompleted
	At         time.Time
}

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	Status           Status
	DurationSeconds  int
	RemainingSeconds int
	SessionID        string
}

// Progress is the elapsed share of the session in [0,1].
func (s Snapshot) Progress() float64 {
	return progress(s.DurationSeconds, s.RemainingSeconds)
}

func progress(duration, remaining int) float64 {
	if duration <= 0 {
		return 0
	}
	p := float64(duration-remaining) / float64(duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
