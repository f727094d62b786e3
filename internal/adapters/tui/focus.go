package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/wordwrap"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/timer"
)

// Dimming grows by dimPerSecond for every second of a running work session
// and stops at maxDim.
const (
	dimPerSecond = 0.02
	maxDim       = 0.4
)

// DimLevel returns how far the focus view is faded toward black. Only a
// running work session dims.
func DimLevel(st timer.State) float64 {
	if !st.IsRunning || st.SessionType != domain.SessionTypeWork {
		return 0
	}
	return math.Min(dimPerSecond*float64(st.ElapsedSeconds()), maxDim)
}

// dim blends hex toward black by level.
func dim(hex string, level float64) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil || level <= 0 {
		return lipgloss.Color(hex)
	}
	black := colorful.Color{}
	return lipgloss.Color(c.BlendRgb(black, level).Clamped().Hex())
}

// viewFocus renders the full-screen focus view.
func (m Model) viewFocus() string {
	level := DimLevel(m.state)
	accent := m.sessionAccent()
	muted := dim(m.theme.Muted, level)

	var sections []string
	sections = append(sections,
		lipgloss.NewStyle().Foreground(dim(accent, level)).Bold(true).Render(m.state.SessionType.Label()),
		"",
		renderBigTime(formatClock(m.state.RemainingSeconds), dim(accent, level), m.width),
		"",
	)

	if m.taskTitle != "" {
		wrapWidth := m.width - 8
		if wrapWidth < 20 {
			wrapWidth = 20
		}
		caption := wordwrap.String(m.taskTitle, wrapWidth)
		sections = append(sections, lipgloss.NewStyle().Foreground(muted).Align(lipgloss.Center).Render(caption))
	}

	sections = append(sections, lipgloss.NewStyle().Foreground(muted).Render(
		fmt.Sprintf("%s %d/%d today", m.theme.IconGoal, m.goalDone, m.goalTarget)))

	if !m.state.IsRunning {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(muted).Render(m.theme.IconPause+" paused"))
	}
	sections = append(sections, "", lipgloss.NewStyle().Foreground(muted).Faint(true).Render("space pause · esc exit"))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
