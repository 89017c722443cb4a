package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tenable/tenint/util"
)

// TextInput is a styled text entry component wrapping bubbles/textinput.
type TextInput struct {
	Label      string
	input      textinput.Model
	done       bool
	err        string
	slugHint   bool // preview the project directory slug below the input
	validateFn func(string) error

	LabelStyle  lipgloss.Style
	BorderStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HintStyle   lipgloss.Style
	AccentColor lipgloss.Color
	kbd         KbdHint
}

// NewTextInput creates a styled text input.
func NewTextInput(label, placeholder string, slugHint bool, validateFn func(string) error, accentColor lipgloss.Color, labelStyle, borderStyle, errorStyle, hintStyle, kbdKeyStyle, kbdDescStyle lipgloss.Style) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 100
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(accentColor)

	kbd := NewKbdHint(kbdKeyStyle, kbdDescStyle)
	kbd.Bindings = InputHints()

	return TextInput{
		Label:       label,
		input:       ti,
		slugHint:    slugHint,
		validateFn:  validateFn,
		LabelStyle:  labelStyle,
		BorderStyle: borderStyle,
		ErrorStyle:  errorStyle,
		HintStyle:   hintStyle,
		AccentColor: accentColor,
		kbd:         kbd,
	}
}

// Init focuses the text input.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.done {
		return t, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "enter" {
			val := strings.TrimSpace(t.input.Value())
			if t.validateFn != nil {
				if err := t.validateFn(val); err != nil {
					t.err = err.Error()
					return t, nil
				}
			}
			t.done = true
			t.err = ""
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	t.err = "" // clear error on typing
	return t, cmd
}

// View renders the text input.
func (t TextInput) View(width int) string {
	var out string

	out += "\n  " + t.LabelStyle.Render(t.Label) + "\n\n"

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	t.input.Width = inputWidth

	out += "  " + t.BorderStyle.Width(inputWidth).Render(t.input.View()) + "\n"

	if t.err != "" {
		out += "  " + t.ErrorStyle.Render("✗ "+t.err) + "\n"
	}

	if t.slugHint && t.input.Value() != "" {
		out += "  " + t.HintStyle.Render(fmt.Sprintf("→ ./%s/", util.Slugify(t.input.Value()))) + "\n"
	}

	out += "\n" + t.kbd.View()
	return out
}

// Done reports whether input was submitted.
func (t TextInput) Done() bool { return t.done }

// Value returns the trimmed input value.
func (t TextInput) Value() string { return strings.TrimSpace(t.input.Value()) }

// SetValue sets the input value.
func (t *TextInput) SetValue(v string) { t.input.SetValue(v) }

// Reset clears the done flag so the input can be edited again.
func (t *TextInput) Reset() { t.done = false }
