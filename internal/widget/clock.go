package widget

import (
	"fmt"
	"time"
)

// FormatClock renders the wall-clock line, e.g.
// "Sunday, October 18, 2026 at 08:36:05 AM".
func FormatClock(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 03:04:05 PM")
}

// FormatTaskTime renders a task creation time, e.g. "8:36 AM".
func FormatTaskTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatRemaining renders seconds as mm:ss. Minutes are not capped at 59.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
