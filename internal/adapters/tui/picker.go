package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
	Value string
}

type pickerKind int

const (
	pickTask pickerKind = iota
	pickPreset
)

// pickedMsg is emitted when the user confirms or dismisses a picker.
type pickedMsg struct {
	kind    pickerKind
	item    PickerItem
	aborted bool
}

// picker is a modal vertical list. It owns the keyboard while open.
type picker struct {
	kind   pickerKind
	title  string
	items  []PickerItem
	cursor int
	theme  Theme
}

func newPicker(kind pickerKind, title string, items []PickerItem, selected string, theme Theme) *picker {
	p := &picker{kind: kind, title: title, items: items, theme: theme}
	for i, item := range items {
		if item.Value == selected {
			p.cursor = i
			break
		}
	}
	return p
}

func (p *picker) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter":
		if len(p.items) == 0 {
			return p.done(PickerItem{}, true)
		}
		return p.done(p.items[p.cursor], false)
	case "esc", "q":
		return p.done(PickerItem{}, true)
	}
	return nil
}

func (p *picker) done(item PickerItem, aborted bool) tea.Cmd {
	kind := p.kind
	return func() tea.Msg {
		return pickedMsg{kind: kind, item: item, aborted: aborted}
	}
}

func (p *picker) view() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.theme.Title))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Work)).Bold(true)
	dimStyle := p.theme.style(p.theme.Muted)

	b.WriteString(titleStyle.Render(p.title) + "\n\n")
	if len(p.items) == 0 {
		b.WriteString(dimStyle.Render("  nothing here yet") + "\n")
	}
	for i, item := range p.items {
		line := fmt.Sprintf("%-16s %s", item.Label, item.Desc)
		if i == p.cursor {
			b.WriteString(activeStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(dimStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ navigate · enter select · esc back"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.theme.Muted)).
		Padding(1, 2).
		Render(b.String())
}
