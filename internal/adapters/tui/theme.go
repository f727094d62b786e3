package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/tomato/internal/domain"
)

// Theme holds the colours and icons of the interface.
type Theme struct {
	Work   string
	Short  string
	Long   string
	Paused string
	Title  string
	Muted  string
	Toast  string

	IconApp   string
	IconTask  string
	IconGoal  string
	IconPause string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Work:      "#E5533D",
		Short:     "#4ECDC4",
		Long:      "#3B82F6",
		Paused:    "#6B7280",
		Title:     "#9CA3AF",
		Muted:     "#6B7280",
		Toast:     "#FBBF24",
		IconApp:   "🍅",
		IconTask:  "📋",
		IconGoal:  "🎯",
		IconPause: "⏸",
	}
}

// SessionColor returns the accent for a session type.
func (t Theme) SessionColor(st domain.SessionType) string {
	switch st {
	case domain.SessionTypeShortBreak:
		return t.Short
	case domain.SessionTypeLongBreak:
		return t.Long
	default:
		return t.Work
	}
}

func (t Theme) style(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
