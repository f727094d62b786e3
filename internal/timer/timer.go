// Package timer implements the pomodoro countdown state machine.
package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/tomato/internal/domain"
)

// ErrSessionElapsed is returned by Start when the session has no time left
// and the zero-start policy rejects it.
var ErrSessionElapsed = errors.New("session has no time remaining")

// ErrTimerClosed is returned by Start after Close.
var ErrTimerClosed = errors.New("timer is closed")

// ZeroStartPolicy decides what Start does when nothing is left to count.
type ZeroStartPolicy int

const (
	// RejectZeroStart leaves the timer untouched and returns ErrSessionElapsed.
	RejectZeroStart ZeroStartPolicy = iota
	// CompleteZeroStart treats the start as an immediate natural completion.
	CompleteZeroStart
)

// ParseZeroStartPolicy maps "reject" and "complete" to a policy.
func ParseZeroStartPolicy(s string) (ZeroStartPolicy, error) {
	switch s {
	case "", "reject":
		return RejectZeroStart, nil
	case "complete":
		return CompleteZeroStart, nil
	}
	return RejectZeroStart, fmt.Errorf("unknown zero start policy %q", s)
}

// State is a point-in-time copy of the timer.
type State struct {
	SessionType           domain.SessionType
	RemainingSeconds      int
	TotalSeconds          int
	IsRunning             bool
	CompletedWorkSessions int
	TaskRef               string
	Config                domain.TimerConfig
	ConfigPending         bool
}

// ElapsedSeconds is how much of the current session has been counted down.
func (s State) ElapsedSeconds() int {
	return s.TotalSeconds - s.RemainingSeconds
}

// Progress returns the elapsed fraction of the current session.
func (s State) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	return float64(s.ElapsedSeconds()) / float64(s.TotalSeconds)
}

// Option configures a Timer.
type Option func(*Timer)

// WithOnComplete sets the callback invoked once per finished session.
// It runs on the caller's goroutine after the timer lock is released and
// must not block.
func WithOnComplete(fn func(domain.Completion)) Option {
	return func(t *Timer) { t.onComplete = fn }
}

// WithZeroStartPolicy sets how Start treats a session with no time left.
func WithZeroStartPolicy(p ZeroStartPolicy) Option {
	return func(t *Timer) { t.zeroStart = p }
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timer) { t.logger = logger }
}

// WithState restores a snapshot captured with State, for hosts that keep
// the countdown across restarts. The restored timer is always idle and its
// remaining time is clamped to the session's full duration.
func WithState(s State) Option {
	return func(t *Timer) {
		if s.SessionType.Valid() {
			t.sessionType = s.SessionType
		}
		t.remaining = s.RemainingSeconds
		t.completedWork = s.CompletedWorkSessions
		t.taskRef = s.TaskRef
		t.restored = true
	}
}

// Timer is the countdown state machine. All methods are safe for
// concurrent use and return without blocking.
type Timer struct {
	mu     sync.Mutex
	clock  Clock
	logger *slog.Logger

	config  domain.TimerConfig
	pending *domain.TimerConfig

	sessionType   domain.SessionType
	remaining     int
	running       bool
	completedWork int
	taskRef       string
	restored      bool

	// gen invalidates ticks scheduled before the last stop.
	gen uint64
	seq uint64

	onComplete  func(domain.Completion)
	zeroStart   ZeroStartPolicy
	subscribers []chan State
	closed      bool
	now         func() time.Time
}

// New creates an idle work session sized by cfg.
func New(cfg domain.TimerConfig, clock Clock, opts ...Option) *Timer {
	t := &Timer{
		clock:       clock,
		config:      cfg,
		sessionType: domain.SessionTypeWork,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}

	full := DurationSeconds(t.config, t.sessionType)
	if !t.restored || t.remaining > full {
		t.remaining = full
	}
	if t.remaining < 0 {
		t.remaining = 0
	}
	return t
}

// State returns a snapshot of the timer.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Subscribe returns a channel that receives a snapshot after every change.
// Slow subscribers skip intermediate snapshots but always see the latest.
func (t *Timer) Subscribe(buffer int) <-chan State {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)
	t.mu.Lock()
	if t.closed {
		close(ch)
	} else {
		t.subscribers = append(t.subscribers, ch)
	}
	t.mu.Unlock()
	return ch
}

// Close stops the clock and closes all subscriber channels.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.stopLocked()
	t.closed = true
	for _, ch := range t.subscribers {
		close(ch)
	}
	t.subscribers = nil
}

// Start runs the countdown. Starting a running timer is a no-op.
func (t *Timer) Start() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTimerClosed
	}
	if t.running {
		t.mu.Unlock()
		return nil
	}

	if t.remaining <= 0 {
		if t.zeroStart == RejectZeroStart {
			t.mu.Unlock()
			return ErrSessionElapsed
		}
		c := t.completeLocked(false)
		t.mu.Unlock()
		t.dispatch(c)
		return nil
	}

	t.clock.Cancel()
	t.running = true
	t.gen++
	gen := t.gen
	t.clock.OnTick(func() { t.tick(gen) })
	t.emitLocked()
	t.mu.Unlock()
	return nil
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.stopLocked()
	t.emitLocked()
}

// ToggleRunning pauses a running timer or starts an idle one.
func (t *Timer) ToggleRunning() error {
	t.mu.Lock()
	running := t.running
	t.mu.Unlock()

	if running {
		t.Pause()
		return nil
	}
	return t.Start()
}

// Reset stops the countdown and restores the full duration of the current
// session type. The session type and work counter are unchanged.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.applyPendingLocked()
	t.remaining = DurationSeconds(t.config, t.sessionType)
	t.emitLocked()
}

// Skip ends the current session early. It counts as a completion: the
// rotation advances and the completion callback fires. A closed timer
// ignores it.
func (t *Timer) Skip() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	c := t.completeLocked(true)
	t.mu.Unlock()
	t.dispatch(c)
}

// SwitchSession jumps to a session type without completing the current one.
func (t *Timer) SwitchSession(st domain.SessionType) error {
	if !st.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSessionType, st)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.applyPendingLocked()
	t.sessionType = st
	t.remaining = DurationSeconds(t.config, st)
	t.emitLocked()
	return nil
}

// SetConfig replaces the durations. An idle timer resyncs the current
// session immediately; a running one keeps counting and picks the new
// values up at the next session boundary.
func (t *Timer) SetConfig(cfg domain.TimerConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.pending = &cfg
		t.logger.Debug("config deferred until next session", "config", cfg.String())
		t.emitLocked()
		return
	}

	t.pending = nil
	t.config = cfg
	t.remaining = DurationSeconds(cfg, t.sessionType)
	t.logger.Debug("config applied", "config", cfg.String(), "session", string(t.sessionType))
	t.emitLocked()
}

// SelectTask sets the opaque task reference reported with completions.
// An empty ref clears the selection.
func (t *Timer) SelectTask(ref string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.taskRef == ref {
		return
	}
	t.taskRef = ref
	t.emitLocked()
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running {
		t.mu.Unlock()
		return
	}

	if t.remaining > 1 {
		t.remaining--
		t.emitLocked()
		t.mu.Unlock()
		return
	}

	c := t.completeLocked(false)
	t.mu.Unlock()
	t.dispatch(c)
}

// completeLocked finishes the current session and rotates to the next.
func (t *Timer) completeLocked(skipped bool) domain.Completion {
	t.stopLocked()

	finished := t.sessionType
	minutes := NominalMinutes(t.config, finished)
	next, count, long := Next(finished, t.completedWork)

	t.completedWork = count
	t.applyPendingLocked()
	t.sessionType = next
	t.remaining = DurationSeconds(t.config, next)
	t.seq++

	c := domain.Completion{
		Seq:                   t.seq,
		Type:                  finished,
		DurationMinutes:       minutes,
		CompletedWorkSessions: count,
		Next:                  next,
		LongBreakNext:         long,
		Skipped:               skipped,
		TaskRef:               t.taskRef,
		At:                    t.now(),
	}
	t.logger.Info("session finished",
		"type", string(finished),
		"minutes", minutes,
		"skipped", skipped,
		"next", string(next),
		"completed_work", count,
	)
	t.emitLocked()
	return c
}

func (t *Timer) dispatch(c domain.Completion) {
	if t.onComplete != nil {
		t.onComplete(c)
	}
}

// stopLocked clears the running flag and cancels the clock. Bumping the
// generation drops any tick that is already waiting on the lock.
func (t *Timer) stopLocked() {
	t.running = false
	t.gen++
	t.clock.Cancel()
}

func (t *Timer) applyPendingLocked() {
	if t.pending == nil {
		return
	}
	t.config = *t.pending
	t.pending = nil
}

func (t *Timer) stateLocked() State {
	return State{
		SessionType:           t.sessionType,
		RemainingSeconds:      t.remaining,
		TotalSeconds:          DurationSeconds(t.config, t.sessionType),
		IsRunning:             t.running,
		CompletedWorkSessions: t.completedWork,
		TaskRef:               t.taskRef,
		Config:                t.config,
		ConfigPending:         t.pending != nil,
	}
}

func (t *Timer) emitLocked() {
	if len(t.subscribers) == 0 {
		return
	}
	s := t.stateLocked()
	for _, ch := range t.subscribers {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
