package timer

import (
	"sync"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects listener events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) completions() []Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Completion
	for _, e := range r.events {
		if e.Type == EventCompleted {
			out = append(out, *e.Completion)
		}
	}
	return out
}

// newManualEngine returns an engine whose goroutine never fires; tests drive
// it with tickOnce.
func newManualEngine(t *testing.T, minutes int) (*Engine, *recorder) {
	t.Helper()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	e := New(minutes, Options{
		TickInterval: time.Hour,
		Now:          func() time.Time { return now },
		NewSessionID: func() string { return "session-1" },
	})
	rec := &recorder{}
	e.SetListener(rec.listen)
	t.Cleanup(e.Close)
	return e, rec
}

func tickOnce(e *Engine) {
	e.mu.Lock()
	src := e.active
	e.mu.Unlock()
	e.tick(src)
}

func TestNew_DefaultsNonPositiveMinutes(t *testing.T) {
	e := New(0, Options{})
	snap := e.Snapshot()
	assert.Equal(t, DefaultMinutes*60, snap.DurationSeconds)
	assert.Equal(t, DefaultMinutes*60, snap.RemainingSeconds)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, time.Second, e.options.TickInterval)
}

func TestSetDurationThenReset(t *testing.T) {
	for _, minutes := range []int{1, 5, 15, 25, 45, 90} {
		e, _ := newManualEngine(t, 25)
		require.NoError(t, e.SetDuration(minutes))
		e.Reset()

		snap := e.Snapshot()
		assert.Equal(t, minutes*60, snap.RemainingSeconds)
		assert.Equal(t, minutes*60, snap.DurationSeconds)
		assert.Equal(t, StatusIdle, snap.Status)
	}
}

func TestSetDuration_RejectsNonPositive(t *testing.T) {
	e, _ := newManualEngine(t, 25)

	err := e.SetDuration(0)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "minutes", verr.Field)
	assert.Equal(t, 25*60, e.Snapshot().DurationSeconds)
}

func TestSetDuration_RefusedWhileRunning(t *testing.T) {
	e, _ := newManualEngine(t, 25)
	e.Start()
	tickOnce(e)

	assert.ErrorIs(t, e.SetDuration(5), domain.ErrTimerRunning)
	snap := e.Snapshot()
	assert.Equal(t, 25*60, snap.DurationSeconds)
	assert.Equal(t, 25*60-1, snap.RemainingSeconds)
	assert.Equal(t, StatusRunning, snap.Status)
}

func TestSetDuration_AllowedWhilePausedReturnsToIdle(t *testing.T) {
	e, _ := newManualEngine(t, 25)
	e.Start()
	tickOnce(e)
	e.Pause()

	require.NoError(t, e.SetDuration(5))
	snap := e.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 300, snap.RemainingSeconds)
	assert.Empty(t, snap.SessionID)
	assert.Nil(t, e.active)
}

func TestStartThenOneTick(t *testing.T) {
	e, rec := newManualEngine(t, 1)
	e.Start()
	tickOnce(e)

	snap := e.Snapshot()
	assert.Equal(t, 59, snap.RemainingSeconds)
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, "session-1", snap.SessionID)

	require.Len(t, rec.events, 2)
	assert.Equal(t, EventStateChange, rec.events[0].Type)
	assert.Equal(t, EventTick, rec.events[1].Type)
	assert.Equal(t, 59, rec.events[1].Remaining)
}

func TestStart_IsNoOpWhenRunning(t *testing.T) {
	e, rec := newManualEngine(t, 1)
	e.Start()
	first := e.active
	e.Start()

	assert.Same(t, first, e.active, "a second start must not create another tick source")
	assert.Len(t, rec.events, 1)
}

func TestRunToCompletion(t *testing.T) {
	e, rec := newManualEngine(t, 1)
	e.Start()
	for i := 0; i < 60; i++ {
		tickOnce(e)
	}

	snap := e.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.Nil(t, e.active)

	// further ticks and starts change nothing
	tickOnce(e)
	e.Start()
	assert.Equal(t, StatusCompleted, e.Snapshot().Status)

	completions := rec.completions()
	require.Len(t, completions, 1)
	assert.Equal(t, 60, completions[0].DurationSeconds)
	assert.Equal(t, 1, completions[0].DurationMinutes())
	assert.Equal(t, "session-1", completions[0].SessionID)
	assert.Equal(t, 1.0, e.ProgressFraction())
}

func TestCompletedThenReset(t *testing.T) {
	e, _ := newManualEngine(t, 1)
	e.Start()
	for i := 0; i < 60; i++ {
		tickOnce(e)
	}
	e.Reset()

	snap := e.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 60, snap.RemainingSeconds)
	assert.Empty(t, snap.SessionID)
}

func TestPause(t *testing.T) {
	e, _ := newManualEngine(t, 1)

	e.Pause()
	assert.Equal(t, StatusIdle, e.Snapshot().Status, "pause from idle is a no-op")

	e.Start()
	tickOnce(e)
	src := e.active
	e.Pause()

	snap := e.Snapshot()
	assert.Equal(t, StatusPaused, snap.Status)
	assert.Equal(t, 59, snap.RemainingSeconds)

	// stale source ticks are ignored
	e.tick(src)
	assert.Equal(t, 59, e.Snapshot().RemainingSeconds)

	e.Start()
	tickOnce(e)
	snap = e.Snapshot()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 58, snap.RemainingSeconds)
	assert.Equal(t, "session-1", snap.SessionID, "resume keeps the session")
}

func TestToggle(t *testing.T) {
	e, _ := newManualEngine(t, 1)

	e.Toggle()
	assert.Equal(t, StatusRunning, e.Snapshot().Status)
	e.Toggle()
	assert.Equal(t, StatusPaused, e.Snapshot().Status)
	e.Toggle()
	assert.Equal(t, StatusRunning, e.Snapshot().Status)
}

func TestResetFromPaused(t *testing.T) {
	e, _ := newManualEngine(t, 1)
	e.Start()
	tickOnce(e)
	tickOnce(e)
	e.Pause()
	e.Reset()

	snap := e.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 60, snap.RemainingSeconds)
	assert.Equal(t, 0.0, e.ProgressFraction())
}

func TestProgressFraction(t *testing.T) {
	e, _ := newManualEngine(t, 1)
	assert.Equal(t, 0.0, e.ProgressFraction())

	e.Start()
	for i := 0; i < 15; i++ {
		tickOnce(e)
	}
	assert.InDelta(t, 0.25, e.ProgressFraction(), 1e-9)

	zero := &Engine{}
	assert.Equal(t, 0.0, zero.ProgressFraction(), "zero-length session reports no progress")
}

func TestTickSourceCancelIsIdempotent(t *testing.T) {
	src := newTickSource()
	src.cancel()
	assert.NotPanics(t, src.cancel)
}

func TestListenerMayCallBackIntoEngine(t *testing.T) {
	e := New(1, Options{TickInterval: time.Hour})
	defer e.Close()
	e.SetListener(func(ev Event) {
		if ev.Type == EventCompleted {
			e.Reset()
		}
	})

	e.Start()
	for i := 0; i < 60; i++ {
		tickOnce(e)
	}
	assert.Equal(t, StatusIdle, e.Snapshot().Status)
	assert.Equal(t, 60, e.Snapshot().RemainingSeconds)
}

func TestTickGoroutineCompletesSession(t *testing.T) {
	done := make(chan Completion, 1)
	e := New(1, Options{TickInterval: time.Millisecond})
	defer e.Close()
	e.SetListener(func(ev Event) {
		if ev.Type == EventCompleted {
			done <- *ev.Completion
		}
	})

	e.Start()

	select {
	case c := <-done:
		assert.Equal(t, 60, c.DurationSeconds)
		assert.NotEmpty(t, c.SessionID)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}
	assert.Equal(t, StatusCompleted, e.Snapshot().Status)
}
