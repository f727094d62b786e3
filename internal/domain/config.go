package domain

import "fmt"

// Bounds for user supplied durations, in minutes.
const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 120
	MinBreakMinutes = 1
	MaxBreakMinutes = 60
)

// TimerConfig maps each session type to a duration in whole minutes.
type TimerConfig struct {
	Work       int `json:"work" yaml:"work" toml:"work"`
	ShortBreak int `json:"short_break" yaml:"short_break" toml:"short_break"`
	LongBreak  int `json:"long_break" yaml:"long_break" toml:"long_break"`
}

// DefaultTimerConfig returns the classic 25/5/15 configuration.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{Work: 25, ShortBreak: 5, LongBreak: 15}
}

// Minutes returns the configured minutes for a session type.
// Unknown types resolve to the work duration.
func (c TimerConfig) Minutes(t SessionType) int {
	switch t {
	case SessionTypeShortBreak:
		return c.ShortBreak
	case SessionTypeLongBreak:
		return c.LongBreak
	default:
		return c.Work
	}
}

// Validate checks that every duration is positive.
func (c TimerConfig) Validate() error {
	if c.Work <= 0 || c.ShortBreak <= 0 || c.LongBreak <= 0 {
		return fmt.Errorf("%w: durations must be positive (got %d/%d/%d)",
			ErrInvalidDuration, c.Work, c.ShortBreak, c.LongBreak)
	}
	return nil
}

// ValidateBounds checks the durations against the limits used for
// user-defined presets.
func (c TimerConfig) ValidateBounds() error {
	if c.Work < MinWorkMinutes || c.Work > MaxWorkMinutes {
		return fmt.Errorf("%w: work must be %d-%d minutes", ErrInvalidDuration, MinWorkMinutes, MaxWorkMinutes)
	}
	if c.ShortBreak < MinBreakMinutes || c.ShortBreak > MaxBreakMinutes {
		return fmt.Errorf("%w: short break must be %d-%d minutes", ErrInvalidDuration, MinBreakMinutes, MaxBreakMinutes)
	}
	if c.LongBreak < MinBreakMinutes || c.LongBreak > MaxBreakMinutes {
		return fmt.Errorf("%w: long break must be %d-%d minutes", ErrInvalidDuration, MinBreakMinutes, MaxBreakMinutes)
	}
	return nil
}

// String renders the config as "25/5/15".
func (c TimerConfig) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Work, c.ShortBreak, c.LongBreak)
}
