package timer

import "github.com/xvierd/tomato/internal/domain"

// minSessionSeconds keeps a misconfigured session from being stuck at zero.
const minSessionSeconds = 1

// DurationSeconds resolves the length of a session type under cfg.
// Non-positive durations are clamped to one second.
func DurationSeconds(cfg domain.TimerConfig, t domain.SessionType) int {
	secs := cfg.Minutes(t) * 60
	if secs < minSessionSeconds {
		return minSessionSeconds
	}
	return secs
}

// NominalMinutes is the duration reported for a finished session.
func NominalMinutes(cfg domain.TimerConfig, t domain.SessionType) int {
	m := cfg.Minutes(t)
	if m < 1 {
		return 1
	}
	return m
}
