package domain

import (
	"fmt"
	"time"
)

// SessionType represents the phase of the pomodoro cycle.
type SessionType string

const (
	SessionTypeWork       SessionType = "work"
	SessionTypeShortBreak SessionType = "short_break"
	SessionTypeLongBreak  SessionType = "long_break"
)

// SessionTypes lists every session type in display order.
var SessionTypes = []SessionType{
	SessionTypeWork,
	SessionTypeShortBreak,
	SessionTypeLongBreak,
}

// ParseSessionType validates a session type string.
// Hyphenated forms ("short-break") are accepted as aliases.
func ParseSessionType(s string) (SessionType, error) {
	switch s {
	case "work", "focus":
		return SessionTypeWork, nil
	case "short_break", "short-break", "short":
		return SessionTypeShortBreak, nil
	case "long_break", "long-break", "long":
		return SessionTypeLongBreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSessionType, s)
}

// Valid reports whether t is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return true
	}
	return false
}

// IsBreak returns true for short and long breaks.
func (t SessionType) IsBreak() bool {
	return t == SessionTypeShortBreak || t == SessionTypeLongBreak
}

// Label returns a human-readable label for the session type.
func (t SessionType) Label() string {
	switch t {
	case SessionTypeWork:
		return "Focus"
	case SessionTypeShortBreak:
		return "Short Break"
	case SessionTypeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// SessionRecord is a persisted fact about a finished session.
type SessionRecord struct {
	ID              string
	TaskID          *string
	Type            SessionType
	DurationMinutes int
	CompletedAt     time.Time
	GitBranch       string
	GitCommit       string
}

// NewSessionRecord creates a record for a session finished now.
func NewSessionRecord(sessionType SessionType, durationMinutes int, taskID *string) (*SessionRecord, error) {
	if !sessionType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionType, sessionType)
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	return &SessionRecord{
		ID:              generateID(),
		TaskID:          taskID,
		Type:            sessionType,
		DurationMinutes: durationMinutes,
		CompletedAt:     time.Now(),
	}, nil
}

// SetGitContext stores git information for the record.
func (r *SessionRecord) SetGitContext(branch, commit string) {
	r.GitBranch = branch
	r.GitCommit = commit
}

// Completion describes one finished session as reported by the timer.
// Seq is unique per timer instance and increases monotonically.
type Completion struct {
	Seq                   uint64
	Type                  SessionType
	DurationMinutes       int
	CompletedWorkSessions int
	Next                  SessionType
	LongBreakNext         bool
	Skipped               bool
	TaskRef               string
	At                    time.Time
}
