package timer

import "github.com/xvierd/tomato/internal/domain"

// LongBreakInterval is how many work sessions earn a long break.
const LongBreakInterval = 4

// Next decides what follows a finished session of type t.
// completedWork is the work counter before t finished; the returned count
// includes t when it was a work session.
func Next(t domain.SessionType, completedWork int) (next domain.SessionType, count int, longBreak bool) {
	if t != domain.SessionTypeWork {
		return domain.SessionTypeWork, completedWork, false
	}
	count = completedWork + 1
	if count%LongBreakInterval == 0 {
		return domain.SessionTypeLongBreak, count, true
	}
	return domain.SessionTypeShortBreak, count, false
}
