// Package config provides configuration management for Tomato.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/timer"
)

// AppDir is the directory under the user's home that holds all state.
const AppDir = ".tomato"

// Config holds all configuration for the Tomato application.
type Config struct {
	Timer         TimerSettings      `mapstructure:"timer"`
	Goals         GoalsConfig        `mapstructure:"goals"`
	Sound         SoundConfig        `mapstructure:"sound"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Storage       StorageConfig      `mapstructure:"storage"`
}

// TimerSettings holds the session durations in minutes.
type TimerSettings struct {
	WorkDuration       int    `mapstructure:"work_duration"`
	ShortBreakDuration int    `mapstructure:"short_break_duration"`
	LongBreakDuration  int    `mapstructure:"long_break_duration"`
	ZeroStart          string `mapstructure:"zero_start"`
	// Task is the id of the task selected when the timer opens.
	Task string `mapstructure:"task"`
}

// GoalsConfig holds the daily pomodoro target.
type GoalsConfig struct {
	Daily int `mapstructure:"daily"`
}

// SoundConfig holds completion sound settings.
type SoundConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Type    string `mapstructure:"type"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds log settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig holds storage settings. An empty DBPath means
// ~/.tomato/tomato.db.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := domain.DefaultTimerConfig()
	return &Config{
		Timer: TimerSettings{
			WorkDuration:       d.Work,
			ShortBreakDuration: d.ShortBreak,
			LongBreakDuration:  d.LongBreak,
			ZeroStart:          "reject",
		},
		Goals:         GoalsConfig{Daily: domain.DefaultDailyGoal},
		Sound:         SoundConfig{Enabled: true, Type: string(domain.SoundBell)},
		Notifications: NotificationConfig{Enabled: true},
		Log:           LogConfig{Level: "info"},
	}
}

// TimerConfig converts the durations to the domain type.
func (c *Config) TimerConfig() domain.TimerConfig {
	return domain.TimerConfig{
		Work:       c.Timer.WorkDuration,
		ShortBreak: c.Timer.ShortBreakDuration,
		LongBreak:  c.Timer.LongBreakDuration,
	}
}

// ZeroStartPolicy parses timer.zero_start.
func (c *Config) ZeroStartPolicy() (timer.ZeroStartPolicy, error) {
	return timer.ParseZeroStartPolicy(c.Timer.ZeroStart)
}

// DailyGoal returns the daily target, falling back to the default.
func (c *Config) DailyGoal() int {
	if c.Goals.Daily <= 0 {
		return domain.DefaultDailyGoal
	}
	return c.Goals.Daily
}

// SoundType returns the configured sound, falling back to the bell.
func (c *Config) SoundType() domain.Sound {
	s, err := domain.ParseSound(c.Sound.Type)
	if err != nil {
		return domain.SoundBell
	}
	return s
}

// Validate checks the values a running timer depends on.
func (c *Config) Validate() error {
	if err := c.TimerConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.ZeroStartPolicy(); err != nil {
		return err
	}
	return nil
}

// Dir returns ~/.tomato.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, AppDir), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetDBPath returns the database path for cfg.
func GetDBPath(cfg *Config) (string, error) {
	if cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tomato.db"), nil
}

// Manager owns the config file. It implements ports.ConfigSource and
// reports timer duration changes to subscribers.
type Manager struct {
	mu     sync.RWMutex
	v      *viper.Viper
	path   string
	cfg    *Config
	logger *slog.Logger

	subMu  sync.Mutex
	subs   map[int]func(domain.TimerConfig)
	nextID int
}

var _ ports.ConfigSource = (*Manager)(nil)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for reload diagnostics.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// Load reads the config file at path, creating it with defaults when it
// does not exist. An empty path means the default location.
func Load(path string, opts ...ManagerOption) (*Manager, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{
		v:      viper.New(),
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		subs:   make(map[int]func(domain.TimerConfig)),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.v.SetConfigFile(path)
	m.v.SetConfigType("toml")
	setDefaults(m.v)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := m.v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	cfg, err := m.read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	m.cfg = cfg
	return m, nil
}

// SetLogger replaces the logger. Call it before Watch.
func (m *Manager) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.path
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.cfg
}

// Current implements ports.ConfigSource.
func (m *Manager) Current() domain.TimerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.TimerConfig()
}

// Subscribe implements ports.ConfigSource.
func (m *Manager) Subscribe(fn func(domain.TimerConfig)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// Watch reloads the file whenever it changes on disk.
func (m *Manager) Watch() {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		if err := m.Reload(); err != nil {
			m.logger.Warn("ignoring config change", "file", e.Name, "error", err)
		}
	})
	m.v.WatchConfig()
}

// Reload re-reads the file. An invalid file leaves the current
// configuration in place. Subscribers hear about duration changes only.
func (m *Manager) Reload() error {
	m.mu.Lock()
	cfg, err := m.read()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}
	prev := m.cfg.TimerConfig()
	m.cfg = cfg
	m.mu.Unlock()

	next := cfg.TimerConfig()
	if next != prev {
		m.logger.Info("timer config changed", "from", prev.String(), "to", next.String())
		m.notify(next)
	}
	return nil
}

// Set writes a single key to the file and reloads.
func (m *Manager) Set(key string, value any) error {
	if err := m.write(map[string]any{key: value}); err != nil {
		return err
	}
	return m.Reload()
}

// SaveTimerConfig writes the durations to the file. Subscribers are
// notified right away; the file watcher then sees no change.
func (m *Manager) SaveTimerConfig(cfg domain.TimerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	err := m.write(map[string]any{
		"timer.work_duration":        cfg.Work,
		"timer.short_break_duration": cfg.ShortBreak,
		"timer.long_break_duration":  cfg.LongBreak,
	})
	if err != nil {
		return err
	}
	return m.Reload()
}

// write edits the file through a scratch viper so the values never land in
// the override layer of m.v, which would shadow later edits on disk.
func (m *Manager) write(values map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := viper.New()
	w.SetConfigFile(m.path)
	w.SetConfigType("toml")
	if err := w.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	for k, v := range values {
		w.Set(k, v)
	}
	if err := w.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// AllSettings returns the effective settings as a nested map.
func (m *Manager) AllSettings() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.AllSettings()
}

func (m *Manager) read() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (m *Manager) notify(cfg domain.TimerConfig) {
	m.subMu.Lock()
	fns := make([]func(domain.TimerConfig), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(cfg)
	}
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.work_duration", d.Timer.WorkDuration)
	v.SetDefault("timer.short_break_duration", d.Timer.ShortBreakDuration)
	v.SetDefault("timer.long_break_duration", d.Timer.LongBreakDuration)
	v.SetDefault("timer.zero_start", d.Timer.ZeroStart)
	v.SetDefault("timer.task", d.Timer.Task)
	v.SetDefault("goals.daily", d.Goals.Daily)
	v.SetDefault("sound.enabled", d.Sound.Enabled)
	v.SetDefault("sound.type", d.Sound.Type)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
}
