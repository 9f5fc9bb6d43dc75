package timer

import (
	"sync"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"github.com/google/uuid"
)

// DefaultMinutes is used when New is given a non-positive session length.
const DefaultMinutes = 25

// Options contains runtime options for Engine.
type Options struct {
	// TickInterval is the wall time of one logical second. Defaults to time.Second.
	TickInterval time.Duration
	Now          func() time.Time
	NewSessionID func() string
}

// tickSource is one cancellable repeating timer. Cancel is idempotent.
type tickSource struct {
	stop chan struct{}
	once sync.Once
}

func newTickSource() *tickSource {
	return &tickSource{stop: make(chan struct{})}
}

func (src *tickSource) cancel() {
	src.once.Do(func() { close(src.stop) })
}

// Engine is the countdown state machine:
//
//	Idle -start-> Running -pause-> Paused -start-> Running
//	Running -tick(0)-> Completed -reset-> Idle
//
// At most one tick source is active, and only while Running.
type Engine struct {
	mu        sync.Mutex
	options   Options
	duration  int
	remaining int
	status    Status
	sessionID string
	active    *tickSource
	listener  func(Event)
}

// New creates an idle Engine holding a full session of the given length.
func New(minutes int, options Options) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.NewSessionID == nil {
		options.NewSessionID = uuid.NewString
	}
	if minutes <= 0 {
		minutes = DefaultMinutes
	}

	return &Engine{
		options:   options,
		duration:  minutes * 60,
		remaining: minutes * 60,
		status:    StatusIdle,
	}
}

// SetListener injects the observer. It is called synchronously, outside the
// engine lock, so it may call back into the engine.
func (e *Engine) SetListener(listener func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = listener
}

// SetDuration configures a new session length and returns to Idle. It is
// refused while Running.
func (e *Engine) SetDuration(minutes int) error {
	if minutes <= 0 {
		return &domain.ValidationError{Field: "minutes", Message: "must be a positive number of minutes"}
	}

	e.mu.Lock()
	if e.status == StatusRunning {
		e.mu.Unlock()
		return domain.ErrTimerRunning
	}
	e.stopLocked()
	e.duration = minutes * 60
	e.remaining = e.duration
	e.status = StatusIdle
	e.sessionID = ""
	event, listener := e.eventLocked(EventStateChange), e.listener
	e.mu.Unlock()

	notify(listener, event)
	return nil
}

// Start begins or resumes the countdown. It does nothing when already
// Running or Completed.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.status == StatusRunning || e.status == StatusCompleted || e.remaining <= 0 {
		e.mu.Unlock()
		return
	}
	if e.status == StatusIdle {
		e.sessionID = e.options.NewSessionID()
	}
	e.status = StatusRunning
	src := newTickSource()
	e.active = src
	event, listener := e.eventLocked(EventStateChange), e.listener
	e.mu.Unlock()

	go e.run(src)
	notify(listener, event)
}

// Pause freezes the countdown. Only valid from Running.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.status != StatusRunning {
		e.mu.Unlock()
		return
	}
	e.stopLocked()
	e.status = StatusPaused
	event, listener := e.eventLocked(EventStateChange), e.listener
	e.mu.Unlock()

	notify(listener, event)
}

// Toggle pauses a running countdown and starts it otherwise.
func (e *Engine) Toggle() {
	e.mu.Lock()
	running := e.status == StatusRunning
	e.mu.Unlock()

	if running {
		e.Pause()
		return
	}
	e.Start()
}

// Reset stops ticking and refills the countdown from any state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopLocked()
	e.remaining = e.duration
	e.status = StatusIdle
	e.sessionID = ""
	event, listener := e.eventLocked(EventStateChange), e.listener
	e.mu.Unlock()

	notify(listener, event)
}

// Close cancels the active tick source and drops the listener.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.listener = nil
}

// ProgressFraction is the elapsed share of the session in [0,1], or 0 for a
// zero-length session.
func (e *Engine) ProgressFraction() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Status:           e.status,
		DurationSeconds:  e.duration,
		RemainingSeconds: e.remaining,
		SessionID:        e.sessionID,
	}
}

func (e *Engine) run(src *tickSource) {
	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-src.stop:
			return
		case <-ticker.C:
			e.tick(src)
		}
	}
}

func (e *Engine) tick(src *tickSource) {
	e.mu.Lock()
	// a stale source can still fire once after being cancelled
	if src == nil || e.active != src || e.status != StatusRunning {
		e.mu.Unlock()
		return
	}

	if e.remaining > 0 {
		e.remaining--
	}
	events := []Event{e.eventLocked(EventTick)}

	if e.remaining == 0 {
		e.status = StatusCompleted
		e.stopLocked()
		completed := e.eventLocked(EventCompleted)
		completed.Completion = &Completion{
			SessionID:       e.sessionID,
			DurationSeconds: e.duration,
			CompletedAt:     completed.At,
		}
		events = append(events, completed)
	}
	listener := e.listener
	e.mu.Unlock()

	for _, event := range events {
		notify(listener, event)
	}
}

func (e *Engine) stopLocked() {
	if e.active == nil {
		return
	}
	e.active.cancel()
	e.active = nil
}

func (e *Engine) progressLocked() float64 {
	return progress(e.duration, e.remaining)
}

func (e *Engine) eventLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		Status:    e.status,
		Remaining: e.remaining,
		Progress:  e.progressLocked(),
		At:        e.options.Now(),
	}
}

func notify(listener func(Event), event Event) {
	if listener != nil {
		listener(event)
	}
}
