package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/timer"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func newTestTimer(t *testing.T, opts ...timer.Option) *timer.Timer {
	t.Helper()
	tm := timer.New(domain.DefaultTimerConfig(), timer.NewManualClock(), opts...)
	t.Cleanup(tm.Close)
	return tm
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1500, "25:00"},
		{300, "05:00"},
		{90, "01:30"},
		{0, "00:00"},
		{-4, "00:00"},
		{7200, "120:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatClock(tt.seconds); got != tt.want {
				t.Errorf("formatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestDimLevel(t *testing.T) {
	tests := []struct {
		name  string
		state timer.State
		want  float64
	}{
		{"idle", timer.State{SessionType: domain.SessionTypeWork, TotalSeconds: 1500, RemainingSeconds: 1400}, 0},
		{"break", timer.State{SessionType: domain.SessionTypeShortBreak, IsRunning: true, TotalSeconds: 300, RemainingSeconds: 200}, 0},
		{"early", timer.State{SessionType: domain.SessionTypeWork, IsRunning: true, TotalSeconds: 1500, RemainingSeconds: 1490}, 0.2},
		{"capped", timer.State{SessionType: domain.SessionTypeWork, IsRunning: true, TotalSeconds: 1500, RemainingSeconds: 100}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DimLevel(tt.state)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("DimLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	tm := newTestTimer(t)
	task, _ := domain.NewTask("Write tests")
	tm.SelectTask(task.ID)

	m := NewModel(Options{
		Timer:         tm,
		TaskTitle:     func(string) string { return task.Title },
		DailyProgress: func() (int, int) { return 3, 8 },
	})

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before size = %q", got)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = send(t, m, m.refreshGoal()())

	view := m.View()
	for _, want := range []string{"Tomato", "Focus", "Short Break", "Write tests", "3/8 today", "ready"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_SpaceTogglesTimer(t *testing.T) {
	tm := newTestTimer(t)
	m := NewModel(Options{Timer: tm})

	m, _ = press(t, m, " ")
	if !tm.State().IsRunning {
		t.Fatal("space should start the timer")
	}
	_, _ = press(t, m, " ")
	if tm.State().IsRunning {
		t.Error("second space should pause the timer")
	}
}

func TestModel_ResetAndSkip(t *testing.T) {
	tm := newTestTimer(t)
	m := NewModel(Options{Timer: tm})

	m, _ = press(t, m, "s")
	if got := tm.State().SessionType; got != domain.SessionTypeShortBreak {
		t.Fatalf("after skip SessionType = %v, want short break", got)
	}

	m, _ = press(t, m, "3", " ")
	_, _ = press(t, m, "r")
	st := tm.State()
	if st.SessionType != domain.SessionTypeLongBreak || st.IsRunning || st.RemainingSeconds != 15*60 {
		t.Errorf("after reset state = %+v", st)
	}
}

func TestModel_TabsSwitchWithoutCompleting(t *testing.T) {
	clock := timer.NewManualClock()
	var completions []domain.Completion
	tm := timer.New(domain.DefaultTimerConfig(), clock, timer.WithOnComplete(func(c domain.Completion) {
		completions = append(completions, c)
	}))
	t.Cleanup(tm.Close)
	m := NewModel(Options{Timer: tm})

	m, _ = press(t, m, " ")
	clock.Advance(600)

	m, cmd := press(t, m, "2")
	st := tm.State()
	if st.SessionType != domain.SessionTypeShortBreak || st.RemainingSeconds != 300 || st.IsRunning {
		t.Errorf("after 2 state = %+v", st)
	}
	if st.CompletedWorkSessions != 0 {
		t.Errorf("CompletedWorkSessions = %d, want 0", st.CompletedWorkSessions)
	}
	if cmd != nil || m.toast != "" {
		t.Errorf("switching tabs showed toast %q", m.toast)
	}

	tests := []struct {
		key  string
		want domain.SessionType
		secs int
	}{
		{"3", domain.SessionTypeLongBreak, 900},
		{"1", domain.SessionTypeWork, 1500},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tt.key)
		st := tm.State()
		if st.SessionType != tt.want || st.RemainingSeconds != tt.secs {
			t.Errorf("after %s state = %+v, want %v with %d seconds", tt.key, st, tt.want, tt.secs)
		}
	}

	if len(completions) != 0 {
		t.Errorf("switching tabs completed %d sessions", len(completions))
	}
	if clock.Active() {
		t.Error("switching should stop the clock")
	}
}

func TestModel_ElapsedStartShowsToast(t *testing.T) {
	tm := newTestTimer(t, timer.WithState(timer.State{SessionType: domain.SessionTypeWork, RemainingSeconds: 0}))
	m := NewModel(Options{Timer: tm})

	m, cmd := press(t, m, " ")
	if tm.State().IsRunning {
		t.Error("elapsed session should not start")
	}
	if !strings.Contains(m.toast, "Nothing left") {
		t.Errorf("toast = %q", m.toast)
	}
	if cmd == nil {
		t.Error("toast should schedule its expiry")
	}
}

func TestModel_ToastExpiry(t *testing.T) {
	m := NewModel(Options{Timer: newTestTimer(t)})

	m = send(t, m, toastMsg("first"))
	stale := m.toastID
	m = send(t, m, toastMsg("second"))

	m = send(t, m, toastExpiredMsg{id: stale})
	if m.toast != "second" {
		t.Errorf("stale expiry cleared toast %q", m.toast)
	}
	m = send(t, m, toastExpiredMsg{id: m.toastID})
	if m.toast != "" {
		t.Errorf("toast = %q, want cleared", m.toast)
	}
}

func TestModel_AddTaskCapturesTyping(t *testing.T) {
	tm := newTestTimer(t)
	var added string
	m := NewModel(Options{
		Timer: tm,
		AddTask: func(title string) (*domain.Task, error) {
			added = title
			return domain.NewTask(title)
		},
	})

	m, _ = press(t, m, "a", "r", "s")
	if !m.adding {
		t.Fatal("a should open the task input")
	}
	if st := tm.State(); st.SessionType != domain.SessionTypeWork || st.IsRunning {
		t.Errorf("typing reached the timer: %+v", st)
	}

	m, _ = press(t, m, "enter")
	if m.adding {
		t.Error("enter should close the task input")
	}
	if added != "rs" {
		t.Errorf("AddTask() title = %q, want rs", added)
	}
	if m.taskTitle != "rs" || tm.State().TaskRef == "" {
		t.Errorf("new task not selected: title %q ref %q", m.taskTitle, tm.State().TaskRef)
	}
}

func TestModel_AddTaskEscCancels(t *testing.T) {
	called := false
	m := NewModel(Options{
		Timer: newTestTimer(t),
		AddTask: func(title string) (*domain.Task, error) {
			called = true
			return domain.NewTask(title)
		},
	})

	m, _ = press(t, m, "a", "x", "esc")
	if m.adding || called {
		t.Errorf("esc should cancel: adding=%v called=%v", m.adding, called)
	}
}

func TestModel_TaskPickerOwnsKeys(t *testing.T) {
	tm := newTestTimer(t)
	first, _ := domain.NewTask("First")
	second, _ := domain.NewTask("Second")
	m := NewModel(Options{
		Timer:     tm,
		ListTasks: func() ([]*domain.Task, error) { return []*domain.Task{first, second}, nil },
	})

	m, _ = press(t, m, "t")
	if m.picker == nil {
		t.Fatal("t should open the task picker")
	}
	if m.bridge.Enabled() {
		t.Error("bridge should be disabled while the picker is open")
	}

	m, _ = press(t, m, "s", "down", "down")
	if tm.State().SessionType != domain.SessionTypeWork {
		t.Error("s reached the timer while the picker was open")
	}

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter should confirm the picker")
	}
	m = send(t, m, cmd())

	if m.picker != nil || !m.bridge.Enabled() {
		t.Error("picker should close and the bridge come back")
	}
	if got := tm.State().TaskRef; got != second.ID {
		t.Errorf("TaskRef = %q, want %q", got, second.ID)
	}
	if m.taskTitle != "Second" {
		t.Errorf("taskTitle = %q", m.taskTitle)
	}
}

func TestModel_PresetPicker(t *testing.T) {
	tm := newTestTimer(t)
	var applied string
	m := NewModel(Options{
		Timer:       tm,
		ListPresets: func() ([]domain.Preset, error) { return domain.BuiltInPresets(), nil },
		ApplyPreset: func(name string) (domain.Preset, error) {
			applied = name
			p, err := domain.FindPreset(domain.BuiltInPresets(), name)
			if err == nil {
				tm.SetConfig(p.Config)
			}
			return p, err
		},
	})

	m, _ = press(t, m, "p")
	if m.picker == nil || m.picker.items[m.picker.cursor].Value != "classic" {
		t.Fatal("preset picker should open on the active preset")
	}

	m, cmd := press(t, m, "down", "enter")
	m = send(t, m, cmd())

	if applied != "extended" {
		t.Errorf("applied = %q, want extended", applied)
	}
	if got := tm.State().RemainingSeconds; got != 50*60 {
		t.Errorf("RemainingSeconds = %d, want 3000", got)
	}
	if !strings.Contains(m.toast, "Extended") {
		t.Errorf("toast = %q", m.toast)
	}
}

func TestModel_PickerEscAborts(t *testing.T) {
	tm := newTestTimer(t)
	tm.SelectTask("keep")
	m := NewModel(Options{
		Timer:     tm,
		ListTasks: func() ([]*domain.Task, error) { return nil, nil },
	})

	m, _ = press(t, m, "t")
	m, cmd := press(t, m, "esc")
	m = send(t, m, cmd())

	if m.picker != nil || tm.State().TaskRef != "keep" {
		t.Errorf("esc should leave the selection alone, got %q", tm.State().TaskRef)
	}
}

func TestModel_FocusMode(t *testing.T) {
	tm := newTestTimer(t)
	m := NewModel(Options{Timer: tm})
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = press(t, m, "f")
	if !m.focus {
		t.Fatal("f should enter focus mode")
	}
	if strings.Contains(m.View(), "Short Break") {
		t.Error("focus view should hide the session tabs")
	}

	m, _ = press(t, m, " ")
	if !tm.State().IsRunning {
		t.Error("space should still work in focus mode")
	}

	m, _ = press(t, m, "esc")
	if m.focus {
		t.Error("esc should leave focus mode")
	}
}

func TestModel_StateUpdates(t *testing.T) {
	tm := newTestTimer(t)
	m := NewModel(Options{
		Timer:     tm,
		TaskTitle: func(ref string) string { return "title of " + ref },
	})

	st := tm.State()
	st.TaskRef = "abc"
	st.RemainingSeconds = 42
	m = send(t, m, stateMsg(st))

	if m.state.RemainingSeconds != 42 {
		t.Errorf("RemainingSeconds = %d", m.state.RemainingSeconds)
	}
	if m.taskTitle != "title of abc" {
		t.Errorf("taskTitle = %q", m.taskTitle)
	}

	_, cmd := m.Update(stateClosedMsg{})
	if cmd == nil {
		t.Error("closed subscription should quit")
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(Options{Timer: newTestTimer(t)})

	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q returned %T, want tea.QuitMsg", cmd())
	}
	if m.bridge.Enabled() {
		t.Error("quitting should detach the shortcut bridge")
	}
}
