package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/timer"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	m, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg := m.Config()
	assert.Equal(t, domain.DefaultTimerConfig(), cfg.TimerConfig())
	assert.Equal(t, domain.DefaultDailyGoal, cfg.DailyGoal())
	assert.Equal(t, domain.SoundBell, cfg.SoundType())
	assert.True(t, cfg.Notifications.Enabled)

	policy, err := cfg.ZeroStartPolicy()
	require.NoError(t, err)
	assert.Equal(t, timer.RejectZeroStart, policy)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timer]
work_duration = 50
short_break_duration = 10
long_break_duration = 30
zero_start = "complete"

[goals]
daily = 6

[sound]
type = "chime"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := Load(path)
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, domain.TimerConfig{Work: 50, ShortBreak: 10, LongBreak: 30}, m.Current())
	assert.Equal(t, 6, cfg.DailyGoal())
	assert.Equal(t, domain.SoundChime, cfg.SoundType())
	assert.True(t, cfg.Sound.Enabled, "unset keys keep their defaults")

	policy, err := cfg.ZeroStartPolicy()
	require.NoError(t, err)
	assert.Equal(t, timer.CompleteZeroStart, policy)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timer]\nwork_duration = 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestManager_SaveTimerConfigNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	m, err := Load(path)
	require.NoError(t, err)

	var got []domain.TimerConfig
	cancel := m.Subscribe(func(c domain.TimerConfig) { got = append(got, c) })

	sprint := domain.TimerConfig{Work: 90, ShortBreak: 20, LongBreak: 45}
	require.NoError(t, m.SaveTimerConfig(sprint))
	assert.Equal(t, []domain.TimerConfig{sprint}, got)
	assert.Equal(t, sprint, m.Current())

	// Saving the same durations again is not a change.
	require.NoError(t, m.SaveTimerConfig(sprint))
	assert.Len(t, got, 1)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sprint, reloaded.Current())

	cancel()
	require.NoError(t, m.SaveTimerConfig(domain.DefaultTimerConfig()))
	assert.Len(t, got, 1)

	assert.ErrorIs(t, m.SaveTimerConfig(domain.TimerConfig{}), domain.ErrInvalidDuration)
}

func TestManager_ReloadPicksUpDiskEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	m, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, m.SaveTimerConfig(domain.TimerConfig{Work: 90, ShortBreak: 20, LongBreak: 45}))

	edited := "[timer]\nwork_duration = 30\nshort_break_duration = 5\nlong_break_duration = 15\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	require.NoError(t, m.Reload())
	assert.Equal(t, 30, m.Current().Work)

	require.NoError(t, os.WriteFile(path, []byte("[timer]\nwork_duration = -1\n"), 0644))
	assert.Error(t, m.Reload())
	assert.Equal(t, 30, m.Current().Work, "invalid edits are ignored")
}

func TestManager_Set(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	require.NoError(t, m.Set("goals.daily", 12))
	cfg := m.Config()
	assert.Equal(t, 12, cfg.DailyGoal())
}

func TestPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	store, err := NewPresetFile(path)
	require.NoError(t, err)

	presets, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, presets)

	deep, err := domain.NewCustomPreset("Deep Work", domain.TimerConfig{Work: 45, ShortBreak: 10, LongBreak: 20})
	require.NoError(t, err)
	quick, err := domain.NewCustomPreset("Quick", domain.TimerConfig{Work: 15, ShortBreak: 3, LongBreak: 10})
	require.NoError(t, err)
	require.NoError(t, store.Save([]domain.Preset{quick, deep}))

	presets, err = store.Load()
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "deep-work", presets[0].Name)
	assert.Equal(t, 45, presets[0].Config.Work)

	t.Run("skips out of range entries", func(t *testing.T) {
		content := "[[preset]]\nlabel = \"Huge\"\n[preset.config]\nwork = 500\nshort_break = 5\nlong_break = 15\n\n" +
			"[[preset]]\nlabel = \"Fine\"\n[preset.config]\nwork = 30\nshort_break = 5\nlong_break = 15\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		presets, err := store.Load()
		require.NoError(t, err)
		require.Len(t, presets, 1)
		assert.Equal(t, "fine", presets[0].Name)
	})
}
