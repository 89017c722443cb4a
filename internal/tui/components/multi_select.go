package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MultiSelectItem represents an option in a multi-select list.
type MultiSelectItem struct {
	Label       string
	Value       string
	Description string
	Checked     bool
}

// MultiSelect is a navigable checkbox list.
type MultiSelect struct {
	Items  []MultiSelectItem
	cursor int
	done   bool

	AccentColor    lipgloss.Color
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	DimColor       lipgloss.Color
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	kbd            KbdHint
}

// NewMultiSelect creates a multi-select component.
func NewMultiSelect(items []MultiSelectItem, accentColor, primaryColor, secondaryColor, dimColor lipgloss.Color, activeBorder, inactiveBorder, kbdKeyStyle, kbdDescStyle lipgloss.Style) MultiSelect {
	kbd := NewKbdHint(kbdKeyStyle, kbdDescStyle)
	kbd.Bindings = MultiSelectHints()

	return MultiSelect{
		Items:          items,
		AccentColor:    accentColor,
		PrimaryColor:   primaryColor,
		SecondaryColor: secondaryColor,
		DimColor:       dimColor,
		ActiveBorder:   activeBorder,
		InactiveBorder: inactiveBorder,
		kbd:            kbd,
	}
}

// Init resets done state so the component survives back-navigation.
func (m *MultiSelect) Init() tea.Cmd {
	m.done = false
	return nil
}

// Update handles keyboard input.
func (m MultiSelect) Update(msg tea.Msg) (MultiSelect, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.Items)-1 {
				m.cursor++
			}
		case " ":
			m.Items[m.cursor].Checked = !m.Items[m.cursor].Checked
		case "enter":
			m.done = true
		}
	}

	return m, nil
}

// View renders the checkbox list.
func (m MultiSelect) View(width int) string {
	var out string

	itemWidth := width - 6
	if itemWidth < 30 {
		itemWidth = 30
	}

	for i, item := range m.Items {
		isCursor := i == m.cursor

		var checkbox string
		if item.Checked {
			checkbox = lipgloss.NewStyle().Foreground(m.AccentColor).Render("☑")
		} else {
			checkbox = lipgloss.NewStyle().Foreground(m.DimColor).Render("☐")
		}

		var label, desc string
		if isCursor {
			label = lipgloss.NewStyle().Foreground(m.PrimaryColor).Bold(true).Render(item.Label)
			if item.Description != "" {
				desc = "\n      " + lipgloss.NewStyle().Foreground(m.SecondaryColor).Render(item.Description)
			}
		} else {
			label = lipgloss.NewStyle().Foreground(m.SecondaryColor).Render(item.Label)
		}

		firstLine := fmt.Sprintf("  %s", label)
		padding := itemWidth - lipgloss.Width(firstLine) - 4
		if padding < 1 {
			padding = 1
		}
		content := firstLine + strings.Repeat(" ", padding) + checkbox + desc

		border := m.InactiveBorder
		if isCursor {
			border = m.ActiveBorder
		}
		out += "  " + border.Width(itemWidth).Render(content) + "\n"
	}

	out += "\n" + m.kbd.View()
	return out
}

// Done reports whether selection was confirmed.
func (m MultiSelect) Done() bool { return m.done }

// SelectedValues returns the values of all checked items.
func (m MultiSelect) SelectedValues() []string {
	var vals []string
	for _, item := range m.Items {
		if item.Checked {
			vals = append(vals, item.Value)
		}
	}
	return vals
}
