package domain

import (
	"fmt"
	"strings"
)

// Preset is a named TimerConfig.
type Preset struct {
	Name    string      `json:"name" yaml:"name" toml:"name"`
	Label   string      `json:"label" yaml:"label" toml:"label"`
	Config  TimerConfig `json:"config" yaml:"config" toml:"config"`
	BuiltIn bool        `json:"built_in" yaml:"-" toml:"-"`
}

// BuiltInPresets returns the presets shipped with the application.
func BuiltInPresets() []Preset {
	return []Preset{
		{Name: "classic", Label: "Classic", Config: TimerConfig{Work: 25, ShortBreak: 5, LongBreak: 15}, BuiltIn: true},
		{Name: "extended", Label: "Extended", Config: TimerConfig{Work: 50, ShortBreak: 10, LongBreak: 30}, BuiltIn: true},
		{Name: "sprint", Label: "Sprint", Config: TimerConfig{Work: 90, ShortBreak: 20, LongBreak: 45}, BuiltIn: true},
	}
}

// NewCustomPreset validates and builds a user-defined preset.
func NewCustomPreset(label string, cfg TimerConfig) (Preset, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Preset{}, fmt.Errorf("preset name cannot be empty")
	}
	if err := cfg.ValidateBounds(); err != nil {
		return Preset{}, err
	}
	name := PresetSlug(label)
	for _, p := range BuiltInPresets() {
		if p.Name == name {
			return Preset{}, fmt.Errorf("%w: %s", ErrBuiltInPreset, name)
		}
	}
	return Preset{Name: name, Label: label, Config: cfg}, nil
}

// PresetSlug lowercases a label and joins its words with dashes.
func PresetSlug(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "-")
}

// FindPreset looks a preset up by name or label, case-insensitively.
func FindPreset(presets []Preset, name string) (Preset, error) {
	slug := PresetSlug(name)
	for _, p := range presets {
		if p.Name == slug || strings.EqualFold(p.Label, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
}

// MatchPreset returns the preset whose durations equal cfg, if any.
func MatchPreset(presets []Preset, cfg TimerConfig) (Preset, bool) {
	for _, p := range presets {
		if p.Config == cfg {
			return p, true
		}
	}
	return Preset{}, false
}
