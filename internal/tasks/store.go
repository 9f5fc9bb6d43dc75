package tasks

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

// DefaultSlot is the storage slot the task list is written to.
const DefaultSlot = "timeTasks"

// Listener receives statistics notifications for every mutation.
// stats.Aggregator implements it.
type Listener interface {
	OnTasksLoaded(completed int)
	OnTaskToggled(wasCompleted, isCompleted bool)
	OnTaskDeleted(wasCompleted bool)
	RecomputeProductivity(totalTasks int)
}

type Options struct {
	Slot     string
	Now      func() time.Time
	Logger   *slog.Logger
	Listener Listener
}

// Store owns the ordered task list and writes it through to a storage slot
// after every mutation.
type Store struct {
	mu       sync.RWMutex
	storage  domain.Storage
	slot     string
	now      func() time.Time
	log      *slog.Logger
	listener Listener
	tasks    []domain.Task
	lastID   int64
}

func New(storage domain.Storage, opts Options) *Store {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		storage:  storage,
		slot:     opts.Slot,
		now:      opts.Now,
		log:      opts.Logger.With("component", "tasks", "slot", opts.Slot),
		listener: opts.Listener,
		tasks:    []domain.Task{},
	}
}

// Load replaces the in-memory list with the persisted one. A missing slot
// yields an empty list. An unreadable or corrupt slot also yields an empty
// list, and the returned *domain.PersistenceError is for logging only.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []domain.Task{}
	s.lastID = 0
	defer s.notifyLoadedLocked()

	data, err := s.storage.GetSlot(s.slot)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return &domain.PersistenceError{Op: "load", Slot: s.slot, Err: err}
	}

	loaded, skipped, err := decodeTasks(data)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Slot: s.slot, Err: err}
	}
	if skipped > 0 {
		s.log.Warn("dropped unreadable stored tasks", "count", skipped)
	}

	s.tasks = loaded
	for _, t := range loaded {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return nil
}

// Add appends a new incomplete task. Blank text is rejected.
func (s *Store) Add(text string) (domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Task{}, &domain.ValidationError{Field: "text", Message: "task text must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task := domain.Task{
		ID:        s.nextIDLocked(now),
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}
	s.tasks = append(s.tasks, task)
	s.persistLocked()

	if s.listener != nil {
		s.listener.RecomputeProductivity(len(s.tasks))
	}
	return task, nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(id int64) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}

	was := s.tasks[i].Completed
	s.tasks[i].Completed = !was
	s.persistLocked()

	if s.listener != nil {
		s.listener.OnTaskToggled(was, s.tasks[i].Completed)
		s.listener.RecomputeProductivity(len(s.tasks))
	}
	return s.tasks[i], nil
}

// Delete removes the task with the given id and returns it.
func (s *Store) Delete(id int64) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persistLocked()

	if s.listener != nil {
		s.listener.OnTaskDeleted(removed.Completed)
		s.listener.RecomputeProductivity(len(s.tasks))
	}
	return removed, nil
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id int64) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}
	return s.tasks[i], nil
}

func (s *Store) Counts() (total, completed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), domain.CountCompleted(s.tasks)
}

// persistLocked writes the whole list. Failures are logged and swallowed; the
// in-memory mutation stands.
func (s *Store) persistLocked() {
	data, err := encodeTasks(s.tasks)
	if err == nil {
		err = s.storage.PutSlot(s.slot, data)
	}
	if err != nil {
		perr := &domain.PersistenceError{Op: "persist", Slot: s.slot, Err: err}
		s.log.Error("failed to persist tasks", "error", perr)
	}
}

func (s *Store) notifyLoadedLocked() {
	if s.listener == nil {
		return
	}
	s.listener.OnTasksLoaded(domain.CountCompleted(s.tasks))
	s.listener.RecomputeProductivity(len(s.tasks))
}

// nextIDLocked issues creation-time ids in epoch milliseconds, bumped past the
// last id so two adds in the same millisecond stay distinct.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id int64) error {
	return &domain.NotFoundError{Kind: "task", ID: strconv.FormatInt(id, 10)}
}
