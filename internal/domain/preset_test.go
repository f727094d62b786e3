package domain

import (
	"errors"
	"testing"
)

func TestBuiltInPresets(t *testing.T) {
	want := map[string]TimerConfig{
		"classic":  {Work: 25, ShortBreak: 5, LongBreak: 15},
		"extended": {Work: 50, ShortBreak: 10, LongBreak: 30},
		"sprint":   {Work: 90, ShortBreak: 20, LongBreak: 45},
	}
	presets := BuiltInPresets()
	if len(presets) != len(want) {
		t.Fatalf("len(BuiltInPresets()) = %d, want %d", len(presets), len(want))
	}
	for _, p := range presets {
		if p.Config != want[p.Name] {
			t.Errorf("preset %s = %v, want %v", p.Name, p.Config, want[p.Name])
		}
		if !p.BuiltIn {
			t.Errorf("preset %s should be built in", p.Name)
		}
	}
}

func TestNewCustomPreset(t *testing.T) {
	p, err := NewCustomPreset("Deep Reading", TimerConfig{Work: 45, ShortBreak: 10, LongBreak: 20})
	if err != nil {
		t.Fatalf("NewCustomPreset() error = %v", err)
	}
	if p.Name != "deep-reading" {
		t.Errorf("Name = %q, want deep-reading", p.Name)
	}

	if _, err := NewCustomPreset("Classic", DefaultTimerConfig()); !errors.Is(err, ErrBuiltInPreset) {
		t.Errorf("shadowing built-in error = %v, want ErrBuiltInPreset", err)
	}
	if _, err := NewCustomPreset("Huge", TimerConfig{Work: 200, ShortBreak: 5, LongBreak: 15}); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("out of bounds error = %v, want ErrInvalidDuration", err)
	}
	if _, err := NewCustomPreset("  ", DefaultTimerConfig()); err == nil {
		t.Error("blank name should fail")
	}
}

func TestFindPreset(t *testing.T) {
	presets := BuiltInPresets()

	p, err := FindPreset(presets, "Extended")
	if err != nil || p.Name != "extended" {
		t.Errorf("FindPreset(Extended) = %v, %v", p, err)
	}
	if _, err := FindPreset(presets, "nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("FindPreset(nope) error = %v, want ErrPresetNotFound", err)
	}

	match, ok := MatchPreset(presets, TimerConfig{Work: 90, ShortBreak: 20, LongBreak: 45})
	if !ok || match.Name != "sprint" {
		t.Errorf("MatchPreset() = %v, %v", match, ok)
	}
}
