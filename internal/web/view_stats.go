package web

import (
	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

type StatsView struct {
	Completed    int
	Total        int
	FocusTime    int
	Sessions     int
	Productivity int
	OOB          bool
}

func NewStatsView(s domain.Stats, oob bool) StatsView {
	return StatsView{
		Completed:    s.CompletedTasks,
		Total:        s.TotalTasks,
		FocusTime:    s.FocusTimeMinutes,
		Sessions:     s.PomodoroSessions,
		Productivity: s.ProductivityPercent,
		OOB:          oob,
	}
}
