package domain

import (
	"errors"
	"testing"
)

func TestParseSessionType(t *testing.T) {
	tests := []struct {
		input   string
		want    SessionType
		wantErr bool
	}{
		{"work", SessionTypeWork, false},
		{"focus", SessionTypeWork, false},
		{"short_break", SessionTypeShortBreak, false},
		{"short-break", SessionTypeShortBreak, false},
		{"long", SessionTypeLongBreak, false},
		{"nap", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSessionType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSessionType) {
					t.Errorf("ParseSessionType(%q) error = %v, want ErrInvalidSessionType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSessionType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSessionType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSessionType_IsBreak(t *testing.T) {
	if SessionTypeWork.IsBreak() {
		t.Error("work should not be a break")
	}
	if !SessionTypeShortBreak.IsBreak() || !SessionTypeLongBreak.IsBreak() {
		t.Error("short and long breaks should be breaks")
	}
}

func TestSessionType_Label(t *testing.T) {
	tests := map[SessionType]string{
		SessionTypeWork:        "Focus",
		SessionTypeShortBreak:  "Short Break",
		SessionTypeLongBreak:   "Long Break",
		SessionType("unknown"): "Unknown",
	}
	for st, want := range tests {
		if got := st.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", st, got, want)
		}
	}
}

func TestNewSessionRecord(t *testing.T) {
	taskID := "task-1"
	rec, err := NewSessionRecord(SessionTypeWork, 25, &taskID)
	if err != nil {
		t.Fatalf("NewSessionRecord() error = %v", err)
	}
	if rec.ID == "" {
		t.Error("ID is empty")
	}
	if rec.DurationMinutes != 25 {
		t.Errorf("DurationMinutes = %d, want 25", rec.DurationMinutes)
	}
	if rec.TaskID == nil || *rec.TaskID != taskID {
		t.Errorf("TaskID = %v, want %q", rec.TaskID, taskID)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("CompletedAt is zero")
	}

	if _, err := NewSessionRecord(SessionTypeWork, 0, nil); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration error = %v, want ErrInvalidDuration", err)
	}
	if _, err := NewSessionRecord("nap", 5, nil); !errors.Is(err, ErrInvalidSessionType) {
		t.Errorf("bad type error = %v, want ErrInvalidSessionType", err)
	}
}

func TestTimerConfig(t *testing.T) {
	cfg := DefaultTimerConfig()
	if cfg.Minutes(SessionTypeWork) != 25 || cfg.Minutes(SessionTypeShortBreak) != 5 || cfg.Minutes(SessionTypeLongBreak) != 15 {
		t.Errorf("DefaultTimerConfig() = %v, want 25/5/15", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (TimerConfig{Work: 0, ShortBreak: 5, LongBreak: 15}).Validate(); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Validate() zero work = %v, want ErrInvalidDuration", err)
	}

	bounds := []struct {
		name    string
		cfg     TimerConfig
		wantErr bool
	}{
		{"within bounds", TimerConfig{Work: 120, ShortBreak: 60, LongBreak: 1}, false},
		{"work too long", TimerConfig{Work: 121, ShortBreak: 5, LongBreak: 15}, true},
		{"break too long", TimerConfig{Work: 25, ShortBreak: 61, LongBreak: 15}, true},
		{"long break zero", TimerConfig{Work: 25, ShortBreak: 5, LongBreak: 0}, true},
	}
	for _, tt := range bounds {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateBounds()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBounds() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
