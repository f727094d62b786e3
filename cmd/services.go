package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xvierd/tomato/internal/adapters/git"
	"github.com/xvierd/tomato/internal/adapters/notification"
	"github.com/xvierd/tomato/internal/adapters/storage"
	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/logging"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/services"
	"github.com/xvierd/tomato/internal/timer"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config       *config.Manager
	presetFile   *config.PresetFile
	logger       *slog.Logger
	logCloser    io.Closer
	storage      ports.Storage
	tasks        *services.TaskService
	sessions     *services.SessionService
	stats        *services.StatsService
	achievements *services.AchievementService
	presets      *services.PresetService
	state        *services.StateService
	git          *git.Detector
	notifier     *notification.Notifier
	player       *notification.BeepPlayer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := app.config.Config()
	dir := filepath.Dir(app.config.Path())

	app.logger, app.logCloser, err = logging.New(logging.Options{
		Path:  filepath.Join(dir, "tomato.log"),
		Level: cfg.Log.Level,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	app.config.SetLogger(logging.WithFields(app.logger, "component", "config"))

	if dbPath == "" {
		dbPath, err = config.GetDBPath(&cfg)
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.presetFile, err = config.NewPresetFile(filepath.Join(dir, "presets.toml"))
	if err != nil {
		return fmt.Errorf("failed to locate presets: %w", err)
	}

	workingDir, _ := os.Getwd()
	dailyGoal := func() int {
		c := app.config.Config()
		return c.DailyGoal()
	}

	app.git = git.NewDetector()
	app.tasks = services.NewTaskService(app.storage)
	app.sessions = services.NewSessionService(app.storage,
		services.WithGitContext(app.git, workingDir),
		services.WithDailyGoal(dailyGoal),
		services.WithSessionLogger(logging.WithFields(app.logger, "component", "sessions")),
	)
	app.stats = services.NewStatsService(app.storage, dailyGoal)
	app.achievements = services.NewAchievementService(app.storage)
	app.presets = services.NewPresetService(app.presetFile, app.config)
	app.state = services.NewStateService(app.tasks, app.sessions, app.stats, app.achievements, app.presets)

	app.notifier = notification.New(func() bool {
		return app.config.Config().Notifications.Enabled
	})
	app.player = notification.NewBeepPlayer()

	app.logger.Debug("services initialized", "db", dbPath, "config", app.config.Path())
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var errs []error
	if app.storage != nil {
		errs = append(errs, app.storage.Close())
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	return errors.Join(errs...)
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// liveTimer is a running countdown with its completion handlers attached.
type liveTimer struct {
	timer      *timer.Timer
	dispatcher *timer.Dispatcher
	toasts     chan string
	stop       func()
}

// startTimer builds the timer from the current config and wires
// persistence, notifications, sound and config reloads into it.
func startTimer(ctx context.Context, clock timer.Clock, taskRef string) (*liveTimer, error) {
	cfg := app.config.Config()
	policy, err := cfg.ZeroStartPolicy()
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx, app.logger)

	toasts := make(chan string, 8)
	d := timer.NewDispatcher(
		timer.WithDispatcherLogger(logging.WithFields(logger, "component", "dispatcher")),
		timer.WithBaseContext(context.WithoutCancel(ctx)),
	)
	services.RegisterCompletionHandlers(d, services.CompletionDeps{
		Recorder:     app.sessions,
		Stats:        app.stats,
		Achievements: app.achievements,
		OnUnlock: func(unlocked []domain.UnlockedAchievement) {
			for _, a := range unlocked {
				pushToast(toasts, fmt.Sprintf("%s Achievement unlocked: %s", a.Icon, a.Name))
			}
		},
		Notifier: app.notifier,
		Tasks:    app.tasks,
		Audio:    app.player,
		Sound: func() services.SoundSettings {
			c := app.config.Config()
			return services.SoundSettings{Enabled: c.Sound.Enabled, Sound: c.SoundType()}
		},
		Logger: logger,
	})
	d.Register("toast", timer.HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		title, body := services.CompletionMessage(c, app.tasks.TaskTitle(ctx, c.TaskRef))
		pushToast(toasts, title+" "+body)
		return nil
	}))

	tm := timer.New(cfg.TimerConfig(), clock,
		timer.WithOnComplete(d.Dispatch),
		timer.WithZeroStartPolicy(policy),
		timer.WithLogger(logging.WithFields(logger, "component", "timer")),
	)

	if taskRef == "" {
		taskRef = cfg.Timer.Task
	}
	if taskRef != "" {
		if task, err := app.tasks.FindTask(ctx, taskRef); err == nil && !task.IsCompleted() {
			tm.SelectTask(task.ID)
		} else {
			logger.Warn("ignoring unknown task", "task", taskRef)
		}
	}

	unsubscribe := app.config.Subscribe(tm.SetConfig)
	app.config.Watch()

	return &liveTimer{
		timer:      tm,
		dispatcher: d,
		toasts:     toasts,
		stop: func() {
			unsubscribe()
			tm.Close()
			d.Wait()
		},
	}, nil
}

// pushToast drops the message when nobody is reading.
func pushToast(ch chan<- string, msg string) {
	select {
	case ch <- msg:
	default:
	}
}

// dailyProgress returns today's completed pomodoros and the target.
func dailyProgress(ctx context.Context) (int, int) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	goal, err := app.storage.Goals().Find(ctx, domain.DayKey(time.Now()))
	if err != nil || goal == nil {
		cfg := app.config.Config()
		return 0, cfg.DailyGoal()
	}
	return goal.Completed, goal.Target
}
