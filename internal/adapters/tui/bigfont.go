package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphs is a three row half-block font for the clock digits.
var glyphs = map[rune][3]string{
	'0': {"█▀█", "█ █", "█▄█"},
	'1': {"▄█ ", " █ ", "▄█▄"},
	'2': {"▀▀█", "█▀▀", "█▄▄"},
	'3': {"▀▀█", " ▀█", "▄▄█"},
	'4': {"█ █", "▀▀█", "  █"},
	'5': {"█▀▀", "▀▀█", "▄▄█"},
	'6': {"█▀▀", "█▀█", "█▄█"},
	'7': {"▀▀█", "  █", "  █"},
	'8': {"█▀█", "█▀█", "█▄█"},
	'9': {"█▀█", "▀▀█", "▄▄█"},
	':': {" ", "▀", "▀"},
}

// bigTimeMinWidth is the narrowest terminal that gets the large clock.
const bigTimeMinWidth = 30

// renderBigTime draws "MM:SS" in the large font, or as plain bold text
// when the terminal is too narrow.
func renderBigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigTimeMinWidth {
		return style.Render(clock)
	}

	var rows [3][]string
	for _, ch := range clock {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}

	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
