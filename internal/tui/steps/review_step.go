package steps

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenable/tenint/internal/tui"
	"github.com/tenable/tenint/internal/tui/components"
	"github.com/tenable/tenint/util"
)

// ReviewStep shows the collected answers for confirmation. Scaffolding
// happens in the caller after the wizard exits.
type ReviewStep struct {
	styles   *tui.StyleSet
	summary  components.SummaryBox
	complete bool
	kbd      components.KbdHint
}

// NewReviewStep creates the review step.
func NewReviewStep(styles *tui.StyleSet) *ReviewStep {
	kbd := components.NewKbdHint(styles.KbdKey, styles.KbdDesc)
	kbd.Bindings = components.ReviewHints()
	return &ReviewStep{styles: styles, kbd: kbd}
}

// Prepare builds the summary from the wizard context.
func (s *ReviewStep) Prepare(ctx *tui.WizardContext) {
	s.complete = false

	rows := []components.SummaryRow{
		{Key: "Name", Value: ctx.Name},
		{Key: "Directory", Value: "./" + util.Slugify(ctx.Name) + "/"},
		{Key: "Description", Value: ctx.Description},
		{Key: "Author", Value: ctx.AuthorName + " <" + ctx.AuthorEmail + ">"},
		{Key: "Tags", Value: strings.Join(ctx.Tags, ", ")},
	}

	s.summary = components.NewSummaryBox(
		rows,
		s.styles.SummaryKey,
		s.styles.SummaryValue,
		s.styles.BorderedBox,
	)
}

func (s *ReviewStep) Title() string { return "Review & Create" }

func (s *ReviewStep) Init() tea.Cmd { return nil }

func (s *ReviewStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			s.complete = true
			return s, func() tea.Msg { return tui.StepCompleteMsg{} }
		case "backspace", "esc":
			return s, func() tea.Msg { return tui.StepBackMsg{} }
		}
	}
	return s, nil
}

func (s *ReviewStep) View(width int) string {
	out := s.summary.View(width) + "\n\n"
	out += "  " + s.styles.AccentTxt.Render("Press Enter to create the project, Backspace to go back") + "\n\n"
	out += s.kbd.View()
	return out
}

func (s *ReviewStep) Summary() string { return "confirmed" }

func (s *ReviewStep) Apply(ctx *tui.WizardContext) {}
