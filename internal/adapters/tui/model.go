// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/shortcuts"
	"github.com/xvierd/tomato/internal/timer"
)

const (
	toastDuration  = 4 * time.Second
	goalRefreshLag = 500 * time.Millisecond
)

// Timer is the part of the countdown the interface drives.
type Timer interface {
	State() timer.State
	Subscribe(buffer int) <-chan timer.State
	ToggleRunning() error
	Reset()
	Skip()
	SwitchSession(t domain.SessionType) error
	SelectTask(ref string)
}

// Options wires the model to the rest of the application. Only Timer is
// required.
type Options struct {
	Timer         Timer
	ListTasks     func() ([]*domain.Task, error)
	AddTask       func(title string) (*domain.Task, error)
	TaskTitle     func(ref string) string
	ListPresets   func() ([]domain.Preset, error)
	ApplyPreset   func(name string) (domain.Preset, error)
	DailyProgress func() (done, target int)
	Toasts        <-chan string
	Theme         *Theme
}

type (
	stateMsg        timer.State
	stateClosedMsg  struct{}
	toastMsg        string
	toastExpiredMsg struct{ id int }
	refreshGoalMsg  struct{}
	goalMsg         struct{ done, target int }
)

// errorBox collects errors raised by the shortcut bridge during Update.
type errorBox struct{ err error }

func (b *errorBox) take() error {
	err := b.err
	b.err = nil
	return err
}

type keyMap struct {
	timer   shortcuts.KeyMap
	Work    key.Binding
	Short   key.Binding
	Long    key.Binding
	Focus   key.Binding
	Exit    key.Binding
	Tasks   key.Binding
	Add     key.Binding
	Presets key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(timerKeys shortcuts.KeyMap) keyMap {
	return keyMap{
		timer:   timerKeys,
		Work:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus")),
		Short:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		Long:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus mode")),
		Exit:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit focus mode")),
		Tasks:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "pick task")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Presets: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "presets")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.timer.Toggle, k.timer.Reset, k.timer.Skip, k.Focus, k.Tasks, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.timer.ShortHelp(),
		{k.Work, k.Short, k.Long},
		{k.Focus, k.Exit, k.Tasks, k.Add, k.Presets},
		{k.Help, k.Quit},
	}
}

// Model represents the TUI state.
type Model struct {
	opts    Options
	timer   Timer
	router  *shortcuts.Router
	bridge  *shortcuts.Bridge
	errs    *errorBox
	updates <-chan timer.State
	theme   Theme

	state      timer.State
	taskTitle  string
	goalDone   int
	goalTarget int

	progress progress.Model
	help     help.Model
	keys     keyMap
	input    textinput.Model
	adding   bool
	picker   *picker
	focus    bool

	toast   string
	toastID int

	width  int
	height int
}

// NewModel creates a new TUI model subscribed to opts.Timer.
func NewModel(opts Options) Model {
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	errs := &errorBox{}
	router := shortcuts.NewRouter()
	bridge := shortcuts.NewBridge(router, opts.Timer, shortcuts.WithErrorHandler(func(err error) {
		errs.err = err
	}))
	bridge.Enable()

	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 120
	input.Prompt = "+ "

	m := Model{
		opts:       opts,
		timer:      opts.Timer,
		router:     router,
		bridge:     bridge,
		errs:       errs,
		updates:    opts.Timer.Subscribe(16),
		theme:      theme,
		state:      opts.Timer.State(),
		goalTarget: domain.DefaultDailyGoal,
		progress:   progress.New(progress.WithSolidFill(theme.Work), progress.WithoutPercentage()),
		help:       help.New(),
		keys:       newKeyMap(bridge.Keys()),
		input:      input,
	}
	m.taskTitle = m.lookupTitle(m.state.TaskRef)
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.updates), waitForToast(m.opts.Toasts), m.refreshGoal())
}

func waitForState(ch <-chan timer.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return stateClosedMsg{}
		}
		return stateMsg(s)
	}
}

func waitForToast(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(s)
	}
}

func (m Model) refreshGoal() tea.Cmd {
	fn := m.opts.DailyProgress
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		done, target := fn()
		return goalMsg{done: done, target: target}
	}
}

func (m Model) lookupTitle(ref string) string {
	if ref == "" || m.opts.TaskTitle == nil {
		return ""
	}
	return m.opts.TaskTitle(ref)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-8, 60), 10)
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		prev := m.state
		m.state = timer.State(msg)
		cmds := []tea.Cmd{waitForState(m.updates)}
		if m.state.TaskRef != prev.TaskRef {
			m.taskTitle = m.lookupTitle(m.state.TaskRef)
		}
		if m.state.SessionType != prev.SessionType || m.state.CompletedWorkSessions != prev.CompletedWorkSessions {
			// Completion handlers persist in the background.
			cmds = append(cmds, tea.Tick(goalRefreshLag, func(time.Time) tea.Msg { return refreshGoalMsg{} }))
		}
		return m, tea.Batch(cmds...)

	case stateClosedMsg:
		m.bridge.Disable()
		return m, tea.Quit

	case toastMsg:
		m, cmd := m.showToast(string(msg))
		return m, tea.Batch(cmd, waitForToast(m.opts.Toasts))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case refreshGoalMsg:
		return m, m.refreshGoal()

	case goalMsg:
		m.goalDone = msg.done
		if msg.target > 0 {
			m.goalTarget = msg.target
		}
		return m, nil

	case pickedMsg:
		return m.handlePicked(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) showToast(text string) (Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	id := m.toastID
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.bridge.Disable()
		return m, tea.Quit
	}

	if m.picker != nil {
		return m, m.picker.update(msg)
	}

	if m.adding {
		// The bridge sees the key but ignores it while the input has focus.
		m.router.Dispatch(shortcuts.Event{Key: msg, Target: shortcuts.FocusTextInput})
		return m.updateInput(msg)
	}

	if m.router.Dispatch(shortcuts.Event{Key: msg, Target: shortcuts.FocusNone}) {
		if err := m.errs.take(); err != nil {
			return m.showToast(describeError(err))
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Work):
		return m.switchTo(domain.SessionTypeWork)
	case key.Matches(msg, m.keys.Short):
		return m.switchTo(domain.SessionTypeShortBreak)
	case key.Matches(msg, m.keys.Long):
		return m.switchTo(domain.SessionTypeLongBreak)
	case key.Matches(msg, m.keys.Focus):
		m.focus = true
	case key.Matches(msg, m.keys.Exit):
		m.focus = false
	case key.Matches(msg, m.keys.Tasks):
		return m.openTaskPicker()
	case key.Matches(msg, m.keys.Add):
		if m.opts.AddTask == nil {
			return m, nil
		}
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Presets):
		return m.openPresetPicker()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.bridge.Disable()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchTo(st domain.SessionType) (tea.Model, tea.Cmd) {
	if err := m.timer.SwitchSession(st); err != nil {
		return m.showToast(err.Error())
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		task, err := m.opts.AddTask(title)
		if err != nil {
			return m.showToast("Could not add task: " + err.Error())
		}
		m.timer.SelectTask(task.ID)
		m.taskTitle = task.Title
		return m.showToast(fmt.Sprintf("Added %q", task.Title))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openTaskPicker() (tea.Model, tea.Cmd) {
	if m.opts.ListTasks == nil {
		return m, nil
	}
	tasks, err := m.opts.ListTasks()
	if err != nil {
		return m.showToast("Could not load tasks: " + err.Error())
	}

	items := []PickerItem{{Label: "(no task)", Value: ""}}
	for _, task := range tasks {
		items = append(items, PickerItem{Label: task.Title, Desc: task.Progress(), Value: task.ID})
	}
	m.picker = newPicker(pickTask, "Select task", items, m.state.TaskRef, m.theme)
	m.bridge.Disable()
	return m, nil
}

func (m Model) openPresetPicker() (tea.Model, tea.Cmd) {
	if m.opts.ListPresets == nil || m.opts.ApplyPreset == nil {
		return m, nil
	}
	presets, err := m.opts.ListPresets()
	if err != nil {
		return m.showToast("Could not load presets: " + err.Error())
	}

	items := make([]PickerItem, 0, len(presets))
	selected := ""
	for _, p := range presets {
		items = append(items, PickerItem{Label: p.Label, Desc: p.Config.String(), Value: p.Name})
		if p.Config == m.state.Config && selected == "" {
			selected = p.Name
		}
	}
	m.picker = newPicker(pickPreset, "Apply preset", items, selected, m.theme)
	m.bridge.Disable()
	return m, nil
}

func (m Model) handlePicked(msg pickedMsg) (tea.Model, tea.Cmd) {
	m.picker = nil
	m.bridge.Enable()
	if msg.aborted {
		return m, nil
	}

	switch msg.kind {
	case pickTask:
		m.timer.SelectTask(msg.item.Value)
		m.taskTitle = ""
		if msg.item.Value != "" {
			m.taskTitle = msg.item.Label
		}
	case pickPreset:
		p, err := m.opts.ApplyPreset(msg.item.Value)
		if err != nil {
			return m.showToast("Could not apply preset: " + err.Error())
		}
		text := fmt.Sprintf("%s preset applied (%s)", p.Label, p.Config)
		if m.state.IsRunning {
			text += ", starting next session"
		}
		return m.showToast(text)
	}
	return m, nil
}

func describeError(err error) string {
	if errors.Is(err, timer.ErrSessionElapsed) {
		return "Nothing left to count: press r to reset or s to skip"
	}
	return err.Error()
}

func (m Model) sessionAccent() string {
	if !m.state.IsRunning && m.state.ElapsedSeconds() > 0 {
		return m.theme.Paused
	}
	return m.theme.SessionColor(m.state.SessionType)
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.picker != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.picker.view())
	}
	if m.focus {
		return m.viewFocus()
	}

	accent := m.sessionAccent()
	muted := m.theme.style(m.theme.Muted)

	var sections []string
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Title)).MarginBottom(1)
	sections = append(sections, titleStyle.Render(m.theme.IconApp+" Tomato"))
	sections = append(sections, m.viewTabs(), "")
	sections = append(sections, renderBigTime(formatClock(m.state.RemainingSeconds), lipgloss.Color(accent), m.width), "")
	sections = append(sections, m.progress.ViewAs(m.state.Progress()))
	sections = append(sections, m.theme.style(accent).Render(m.statusLine()), "")

	if m.taskTitle != "" {
		sections = append(sections, m.theme.style(m.theme.Title).Render(m.theme.IconTask+" "+m.taskTitle))
	}
	sections = append(sections, muted.Render(fmt.Sprintf("%s %d/%d today · %s", m.theme.IconGoal, m.goalDone, m.goalTarget, m.cycleDots())))

	cfgLine := "durations " + m.state.Config.String()
	if m.state.ConfigPending {
		cfgLine += " · new durations apply next session"
	}
	sections = append(sections, muted.Faint(true).Render(cfgLine))

	if m.adding {
		sections = append(sections, "", m.input.View())
	}
	if m.toast != "" {
		sections = append(sections, "", m.theme.style(m.theme.Toast).Render(m.toast))
	}
	sections = append(sections, "", m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.SessionTypes))
	for _, st := range domain.SessionTypes {
		style := lipgloss.NewStyle().Padding(0, 1)
		if st == m.state.SessionType {
			style = style.Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(m.theme.SessionColor(st)))
		} else {
			style = style.Foreground(lipgloss.Color(m.theme.Muted))
		}
		tabs = append(tabs, style.Render(st.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) statusLine() string {
	switch {
	case m.state.IsRunning:
		return "running"
	case m.state.RemainingSeconds == 0:
		return "elapsed"
	case m.state.ElapsedSeconds() > 0:
		return m.theme.IconPause + " paused"
	default:
		return "ready"
	}
}

// cycleDots shows progress toward the next long break.
func (m Model) cycleDots() string {
	done := m.state.CompletedWorkSessions % timer.LongBreakInterval
	return strings.Repeat("●", done) + strings.Repeat("○", timer.LongBreakInterval-done)
}

// formatClock renders seconds as MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
