// Package steps holds the concrete screens of the init wizard.
package steps

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenable/tenint/internal/tui"
	"github.com/tenable/tenint/internal/tui/components"
)

// NameStep collects the connector name.
type NameStep struct {
	input    components.TextInput
	complete bool
	name     string
	prefill  string
}

// NewNameStep creates a name step; a non-empty prefill skips the screen.
func NewNameStep(styles *tui.StyleSet, prefill string) *NameStep {
	validate := func(val string) error {
		if val == "" {
			return fmt.Errorf("name is required")
		}
		return nil
	}

	input := components.NewTextInput(
		"What is your connector called?",
		"Asset Sync",
		true, // show the directory slug preview
		validate,
		styles.Theme.Accent,
		styles.AccentTxt,
		styles.InactiveBorder,
		styles.ErrorTxt,
		styles.DimTxt,
		styles.KbdKey,
		styles.KbdDesc,
	)
	if prefill != "" {
		input.SetValue(prefill)
	}

	return &NameStep{input: input, prefill: prefill}
}

func (s *NameStep) Title() string { return "Connector Name" }

func (s *NameStep) Init() tea.Cmd {
	if s.prefill != "" {
		s.complete = true
		s.name = s.prefill
		return func() tea.Msg { return tui.StepCompleteMsg{} }
	}
	return s.input.Init()
}

func (s *NameStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	updated, cmd := s.input.Update(msg)
	s.input = updated

	if s.input.Done() {
		s.complete = true
		s.name = s.input.Value()
		return s, func() tea.Msg { return tui.StepCompleteMsg{} }
	}
	return s, cmd
}

func (s *NameStep) View(width int) string { return s.input.View(width) }

func (s *NameStep) Summary() string { return s.name }

func (s *NameStep) Apply(ctx *tui.WizardContext) { ctx.Name = s.name }
