package steps

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenable/tenint/internal/tui"
	"github.com/tenable/tenint/internal/tui/components"
)

// DetailsStep collects the description and author identity, one field at
// a time.
type DetailsStep struct {
	inputs   []components.TextInput
	phase    int
	complete bool

	description string
	authorName  string
	authorEmail string
}

// NewDetailsStep creates the details step.
func NewDetailsStep(styles *tui.StyleSet) *DetailsStep {
	required := func(field string) func(string) error {
		return func(val string) error {
			if val == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}
	email := func(val string) error {
		if val == "" || !strings.Contains(val, "@") {
			return fmt.Errorf("a contact email address is required")
		}
		return nil
	}

	newInput := func(label, placeholder string, validate func(string) error) components.TextInput {
		return components.NewTextInput(
			label,
			placeholder,
			false,
			validate,
			styles.Theme.Accent,
			styles.AccentTxt,
			styles.InactiveBorder,
			styles.ErrorTxt,
			styles.DimTxt,
			styles.KbdKey,
			styles.KbdDesc,
		)
	}

	return &DetailsStep{
		inputs: []components.TextInput{
			newInput("What does it do?", "Synchronizes assets into the platform", required("description")),
			newInput("Who maintains it?", "Example Dev", required("author name")),
			newInput("Support email?", "dev@example.com", email),
		},
	}
}

func (s *DetailsStep) Title() string { return "Details" }

func (s *DetailsStep) Init() tea.Cmd {
	return s.inputs[s.phase].Init()
}

func (s *DetailsStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	updated, cmd := s.inputs[s.phase].Update(msg)
	s.inputs[s.phase] = updated

	if !s.inputs[s.phase].Done() {
		return s, cmd
	}

	switch s.phase {
	case 0:
		s.description = s.inputs[0].Value()
	case 1:
		s.authorName = s.inputs[1].Value()
	case 2:
		s.authorEmail = s.inputs[2].Value()
	}

	if s.phase < len(s.inputs)-1 {
		s.phase++
		return s, s.inputs[s.phase].Init()
	}

	s.complete = true
	return s, func() tea.Msg { return tui.StepCompleteMsg{} }
}

func (s *DetailsStep) View(width int) string {
	return s.inputs[s.phase].View(width)
}

func (s *DetailsStep) Summary() string {
	return fmt.Sprintf("%s <%s>", s.authorName, s.authorEmail)
}

func (s *DetailsStep) Apply(ctx *tui.WizardContext) {
	ctx.Description = s.description
	ctx.AuthorName = s.authorName
	ctx.AuthorEmail = s.authorEmail
}
