// Package stats derives the widget counters from task mutations and timer
// completions.
package stats

import (
	"math"
	"sync"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

type Aggregator struct {
	mu    sync.Mutex
	stats domain.Stats
}

func New() *Aggregator {
	return &Aggregator{}
}

// OnTasksLoaded re-derives the completed counter after a load.
func (a *Aggregator) OnTasksLoaded(completed int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.CompletedTasks = max(completed, 0)
}

func (a *Aggregator) OnTaskToggled(wasCompleted, isCompleted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case !wasCompleted && isCompleted:
		a.stats.CompletedTasks++
	case wasCompleted && !isCompleted && a.stats.CompletedTasks > 0:
		a.stats.CompletedTasks--
	}
}

func (a *Aggregator) OnTaskDeleted(wasCompleted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if wasCompleted && a.stats.CompletedTasks > 0 {
		a.stats.CompletedTasks--
	}
}

func (a *Aggregator) OnSessionCompleted(durationMinutes int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.PomodoroSessions++
	a.stats.FocusTimeMinutes += durationMinutes
}

func (a *Aggregator) RecomputeProductivity(totalTasks int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.TotalTasks = totalTasks
	a.stats.ProductivityPercent = Productivity(a.stats.CompletedTasks, totalTasks)
}

func (a *Aggregator) Snapshot() domain.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Productivity is round(completed/total*100) with halves rounded up, or 0
// when there are no tasks.
func Productivity(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
}
