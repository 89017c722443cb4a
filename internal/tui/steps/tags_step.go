package steps

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenable/tenint/internal/tui"
	"github.com/tenable/tenint/internal/tui/components"
)

// marketplaceTags are the categories a connector can be listed under.
var marketplaceTags = []components.MultiSelectItem{
	{Label: "Assets", Value: "assets", Description: "Imports or exports asset inventory"},
	{Label: "Findings", Value: "findings", Description: "Imports or exports vulnerability findings"},
	{Label: "Compliance", Value: "compliance", Description: "Compliance and audit data"},
	{Label: "Cloud", Value: "cloud", Description: "Cloud provider integrations"},
	{Label: "Ticketing", Value: "ticketing", Description: "Issue trackers and ITSM"},
	{Label: "SIEM", Value: "siem", Description: "Event forwarding and log platforms"},
}

// TagsStep collects the marketplace tags.
type TagsStep struct {
	sel      components.MultiSelect
	complete bool
	tags     []string
	errMsg   string
	styles   *tui.StyleSet
}

// NewTagsStep creates the tags step.
func NewTagsStep(styles *tui.StyleSet) *TagsStep {
	items := make([]components.MultiSelectItem, len(marketplaceTags))
	copy(items, marketplaceTags)

	sel := components.NewMultiSelect(
		items,
		styles.Theme.Accent,
		styles.Theme.Primary,
		styles.Theme.Secondary,
		styles.Theme.Dim,
		styles.ActiveBorder,
		styles.InactiveBorder,
		styles.KbdKey,
		styles.KbdDesc,
	)

	return &TagsStep{sel: sel, styles: styles}
}

func (s *TagsStep) Title() string { return "Marketplace Tags" }

func (s *TagsStep) Init() tea.Cmd {
	s.complete = false
	return s.sel.Init()
}

func (s *TagsStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	updated, cmd := s.sel.Update(msg)
	s.sel = updated

	if s.sel.Done() {
		tags := s.sel.SelectedValues()
		if len(tags) == 0 {
			// the marketplace requires at least one tag
			s.errMsg = "select at least one tag"
			s.sel.Init()
			return s, nil
		}
		s.complete = true
		s.tags = tags
		return s, func() tea.Msg { return tui.StepCompleteMsg{} }
	}
	return s, cmd
}

func (s *TagsStep) View(width int) string {
	out := "\n  " + s.styles.AccentTxt.Render("Where should the marketplace list this connector?") + "\n\n"
	out += s.sel.View(width)
	if s.errMsg != "" {
		out += "\n  " + s.styles.ErrorTxt.Render("✗ "+s.errMsg)
	}
	return out
}

func (s *TagsStep) Summary() string { return strings.Join(s.tags, ", ") }

func (s *TagsStep) Apply(ctx *tui.WizardContext) { ctx.Tags = s.tags }
