package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/xvierd/tomato/internal/domain"
)

type presetFile struct {
	Presets []domain.Preset `toml:"preset"`
}

// PresetFile stores custom presets as [[preset]] tables in a TOML file.
type PresetFile struct {
	path string
}

// NewPresetFile returns a store backed by path. An empty path means
// ~/.tomato/presets.toml.
func NewPresetFile(path string) (*PresetFile, error) {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "presets.toml")
	}
	return &PresetFile{path: path}, nil
}

// Path returns the file location.
func (p *PresetFile) Path() string {
	return p.path
}

// Load reads all custom presets. A missing file holds none.
func (p *PresetFile) Load() ([]domain.Preset, error) {
	var f presetFile
	_, err := toml.DecodeFile(p.path, &f)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", p.path, err)
	}

	valid := f.Presets[:0]
	for _, preset := range f.Presets {
		if preset.Name == "" {
			preset.Name = domain.PresetSlug(preset.Label)
		}
		if preset.Name == "" || preset.Config.ValidateBounds() != nil {
			continue
		}
		valid = append(valid, preset)
	}
	return valid, nil
}

// Save replaces the file with presets, sorted by name.
func (p *PresetFile) Save(presets []domain.Preset) error {
	sorted := append([]domain.Preset(nil), presets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create preset directory: %w", err)
	}
	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("failed to create preset file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(presetFile{Presets: sorted}); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	return nil
}
