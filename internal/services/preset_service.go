package services

import (
	"fmt"

	"github.com/xvierd/tomato/internal/domain"
)

// PresetStore persists user-defined presets.
type PresetStore interface {
	Load() ([]domain.Preset, error)
	Save(presets []domain.Preset) error
}

// SettingsWriter persists the active timer durations. The timer picks the
// change up through its config source.
type SettingsWriter interface {
	SaveTimerConfig(cfg domain.TimerConfig) error
}

// PresetService manages built-in and custom presets.
type PresetService struct {
	store    PresetStore
	settings SettingsWriter
}

// NewPresetService creates a preset service.
func NewPresetService(store PresetStore, settings SettingsWriter) *PresetService {
	return &PresetService{store: store, settings: settings}
}

// List returns built-in presets followed by custom ones.
func (s *PresetService) List() ([]domain.Preset, error) {
	custom, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	return append(domain.BuiltInPresets(), custom...), nil
}

// Save stores a new custom preset.
func (s *PresetService) Save(label string, cfg domain.TimerConfig) (domain.Preset, error) {
	preset, err := domain.NewCustomPreset(label, cfg)
	if err != nil {
		return domain.Preset{}, err
	}

	custom, err := s.store.Load()
	if err != nil {
		return domain.Preset{}, fmt.Errorf("failed to load presets: %w", err)
	}
	for _, p := range custom {
		if p.Name == preset.Name {
			return domain.Preset{}, fmt.Errorf("%w: %s", domain.ErrPresetExists, preset.Name)
		}
	}

	if err := s.store.Save(append(custom, preset)); err != nil {
		return domain.Preset{}, fmt.Errorf("failed to save presets: %w", err)
	}
	return preset, nil
}

// Delete removes a custom preset.
func (s *PresetService) Delete(name string) error {
	if p, err := domain.FindPreset(domain.BuiltInPresets(), name); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrBuiltInPreset, p.Name)
	}

	custom, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	target, err := domain.FindPreset(custom, name)
	if err != nil {
		return err
	}

	kept := make([]domain.Preset, 0, len(custom))
	for _, p := range custom {
		if p.Name != target.Name {
			kept = append(kept, p)
		}
	}
	return s.store.Save(kept)
}

// Apply makes a preset's durations the active configuration.
func (s *PresetService) Apply(name string) (domain.Preset, error) {
	all, err := s.List()
	if err != nil {
		return domain.Preset{}, err
	}
	preset, err := domain.FindPreset(all, name)
	if err != nil {
		return domain.Preset{}, err
	}
	if err := s.settings.SaveTimerConfig(preset.Config); err != nil {
		return domain.Preset{}, fmt.Errorf("failed to apply preset: %w", err)
	}
	return preset, nil
}
