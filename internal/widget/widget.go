// Package widget wires the timer, the task store, and the statistics
// aggregator together and exposes one dispatch entry point per user action.
// Front ends read State and subscribe to change notices; they hold no
// business logic.
package widget

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/config"
	"git.sr.ht/~jakintosh/tempo/internal/domain"
	"git.sr.ht/~jakintosh/tempo/internal/stats"
	"git.sr.ht/~jakintosh/tempo/internal/tasks"
	"git.sr.ht/~jakintosh/tempo/internal/timer"
	"github.com/google/uuid"
)

// CompletionMessage is shown when a session counts down to zero.
const CompletionMessage = "Pomodoro session complete! Great work!"

type Options struct {
	DefaultMinutes int
	Presets        []int
	TickInterval   time.Duration
	AutoReset      bool
	Slot           string
	Now            func() time.Time
	Logger         *slog.Logger
}

// OptionsFromConfig maps the timer and storage sections of cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		DefaultMinutes: cfg.Timer.DefaultMinutes,
		Presets:        cfg.Timer.Presets,
		TickInterval:   cfg.Timer.TickInterval,
		AutoReset:      cfg.Timer.AutoReset,
		Slot:           cfg.Storage.Slot,
		Logger:         logger,
	}
}

// Notification is a pending session-complete message. Front ends show it
// once and acknowledge it by ID.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type ChangeKind string

const (
	ChangeTimer        ChangeKind = "timer"
	ChangeTasks        ChangeKind = "tasks"
	ChangeNotification ChangeKind = "notification"
)

// Change tells subscribers to re-read State.
type Change struct {
	Kind ChangeKind
	At   time.Time
}

type TimerView struct {
	Status           timer.Status `json:"status"`
	Display          string       `json:"display"`
	RemainingSeconds int          `json:"remainingSeconds"`
	DurationSeconds  int          `json:"durationSeconds"`
	DurationMinutes  int          `json:"durationMinutes"`
	Progress         float64      `json:"progress"`
	Running          bool         `json:"running"`
}

// View is everything a renderer needs for one frame.
type View struct {
	Timer         TimerView      `json:"timer"`
	Tasks         []domain.Task  `json:"tasks"`
	Stats         domain.Stats   `json:"stats"`
	Notifications []Notification `json:"notifications"`
	Presets       []int          `json:"presets"`
	Clock         string         `json:"clock"`
}

type Widget struct {
	timer     *timer.Engine
	tasks     *tasks.Store
	stats     *stats.Aggregator
	presets   []int
	autoReset bool
	now       func() time.Time
	log       *slog.Logger

	mu            sync.Mutex
	notifications []Notification
	subscribers   []chan Change
	closed        bool
}

// New builds the widget and loads the persisted task list. A missing or
// corrupt list is logged and replaced by an empty one.
func New(storage domain.Storage, opts Options) *Widget {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Presets) == 0 {
		opts.Presets = []int{5, 15, 25, 45}
	}

	aggregator := stats.New()
	w := &Widget{
		stats:     aggregator,
		presets:   append([]int(nil), opts.Presets...),
		autoReset: opts.AutoReset,
		now:       opts.Now,
		log:       opts.Logger,
	}
	w.tasks = tasks.New(storage, tasks.Options{
		Slot:     opts.Slot,
		Now:      opts.Now,
		Logger:   opts.Logger,
		Listener: aggregator,
	})
	w.timer = timer.New(opts.DefaultMinutes, timer.Options{
		TickInterval: opts.TickInterval,
		Now:          opts.Now,
	})
	w.timer.SetListener(w.onTimerEvent)

	if err := w.tasks.Load(); err != nil {
		w.log.Warn("starting with an empty task list", "error", err)
	} else {
		total, completed := w.tasks.Counts()
		w.log.Debug("tasks loaded", "total", total, "completed", completed)
	}
	return w
}

// Dispatch forwards a user action to the component that owns it. Starting or
// pausing in the wrong state is a silent no-op.
func (w *Widget) Dispatch(cmd Command) (Result, error) {
	w.log.Debug("dispatch", "command", cmd.String())

	switch cmd.Kind {
	case StartTimer:
		w.timer.Start()
	case PauseTimer:
		w.timer.Pause()
	case ToggleTimer:
		w.timer.Toggle()
	case ResetTimer:
		w.timer.Reset()
	case SetDuration:
		if err := w.timer.SetDuration(cmd.Minutes); err != nil {
			return Result{}, err
		}
	case AddTask:
		task, err := w.tasks.Add(cmd.Text)
		if err != nil {
			return Result{}, err
		}
		w.publish(ChangeTasks)
		return Result{Task: &task}, nil
	case ToggleTask:
		task, err := w.tasks.Toggle(cmd.TaskID)
		if err != nil {
			return Result{}, err
		}
		w.publish(ChangeTasks)
		return Result{Task: &task}, nil
	case DeleteTask:
		task, err := w.tasks.Delete(cmd.TaskID)
		if err != nil {
			return Result{}, err
		}
		w.publish(ChangeTasks)
		return Result{Task: &task}, nil
	default:
		return Result{}, fmt.Errorf("unknown command %q", cmd.Kind)
	}
	return Result{}, nil
}

// State returns a consistent-enough frame for rendering. Each component is
// read under its own lock.
func (w *Widget) State() View {
	snap := w.timer.Snapshot()
	return View{
		Timer:         newTimerView(snap),
		Tasks:         w.tasks.List(),
		Stats:         w.stats.Snapshot(),
		Notifications: w.Notifications(),
		Presets:       append([]int(nil), w.presets...),
		Clock:         FormatClock(w.now()),
	}
}

func newTimerView(snap timer.Snapshot) TimerView {
	return TimerView{
		Status:           snap.Status,
		Display:          FormatRemaining(snap.RemainingSeconds),
		RemainingSeconds: snap.RemainingSeconds,
		DurationSeconds:  snap.DurationSeconds,
		DurationMinutes:  snap.DurationSeconds / 60,
		Progress:         snap.Progress(),
		Running:          snap.Status == timer.StatusRunning,
	}
}

func (w *Widget) Notifications() []Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Notification(nil), w.notifications...)
}

// Ack drops the notification with the given id. It reports whether one was
// pending.
func (w *Widget) Ack(id string) bool {
	w.mu.Lock()
	found := false
	for i, n := range w.notifications {
		if n.ID == id {
			w.notifications = append(w.notifications[:i], w.notifications[i+1:]...)
			found = true
			break
		}
	}
	w.mu.Unlock()

	if found {
		w.publish(ChangeNotification)
	}
	return found
}

// Subscribe registers a change observer. Delivery is best effort; a full
// buffer drops the notice. The returned func unsubscribes. After Close the
// channel comes back already closed.
func (w *Widget) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Change, buffer)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	w.subscribers = append(w.subscribers, ch)
	w.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i, sub := range w.subscribers {
				if sub == ch {
					w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
					close(ch)
					return
				}
			}
		})
	}
	return ch, cancel
}

// Close stops the tick source and closes every subscription.
func (w *Widget) Close() {
	w.timer.Close()

	w.mu.Lock()
	subs := w.subscribers
	w.subscribers = nil
	w.closed = true
	w.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

func (w *Widget) onTimerEvent(event timer.Event) {
	if event.Type != timer.EventCompleted || event.Completion == nil {
		w.publish(ChangeTimer)
		return
	}

	completion := event.Completion
	w.stats.OnSessionCompleted(completion.DurationMinutes())

	id := completion.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	w.mu.Lock()
	w.notifications = append(w.notifications, Notification{
		ID:      id,
		Message: CompletionMessage,
		At:      completion.CompletedAt,
	})
	w.mu.Unlock()

	w.log.Info("session complete",
		"session", id,
		"minutes", completion.DurationMinutes(),
	)
	w.publish(ChangeNotification)

	if w.autoReset {
		w.timer.Reset()
	}
}

func (w *Widget) publish(kind ChangeKind) {
	change := Change{Kind: kind, At: w.now()}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}
