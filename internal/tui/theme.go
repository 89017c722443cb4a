package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TermTheme holds the color values for a terminal theme.
type TermTheme struct {
	Name string

	Accent    lipgloss.Color
	AccentDim lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Dim       lipgloss.Color

	Border       lipgloss.Color
	ActiveBorder lipgloss.Color
}

// DarkTheme is the default dark terminal theme.
var DarkTheme = TermTheme{
	Name:         "dark",
	Accent:       lipgloss.Color("#06b6d4"),
	AccentDim:    lipgloss.Color("#0e7490"),
	Success:      lipgloss.Color("#22c55e"),
	Warning:      lipgloss.Color("#eab308"),
	Error:        lipgloss.Color("#ef4444"),
	Primary:      lipgloss.Color("#e0e0e8"),
	Secondary:    lipgloss.Color("#888888"),
	Dim:          lipgloss.Color("#5a5a70"),
	Border:       lipgloss.Color("#2a2a3a"),
	ActiveBorder: lipgloss.Color("#06b6d4"),
}

// LightTheme is the light terminal theme.
var LightTheme = TermTheme{
	Name:         "light",
	Accent:       lipgloss.Color("#0e7490"),
	AccentDim:    lipgloss.Color("#155e75"),
	Success:      lipgloss.Color("#15803d"),
	Warning:      lipgloss.Color("#a16207"),
	Error:        lipgloss.Color("#b91c1c"),
	Primary:      lipgloss.Color("#0f172a"),
	Secondary:    lipgloss.Color("#374151"),
	Dim:          lipgloss.Color("#4b5563"),
	Border:       lipgloss.Color("#d1d5db"),
	ActiveBorder: lipgloss.Color("#0e7490"),
}

// DetectTheme picks a theme from the flag value, the TENINT_THEME env
// var, or the COLORFGBG heuristic, in that order.
func DetectTheme(flagVal string) TermTheme {
	switch strings.ToLower(flagVal) {
	case "dark":
		return DarkTheme
	case "light":
		return LightTheme
	}

	if env := os.Getenv("TENINT_THEME"); env != "" {
		switch strings.ToLower(env) {
		case "dark":
			return DarkTheme
		case "light":
			return LightTheme
		}
	}

	// COLORFGBG is "fg;bg"; bg 7 or 15 usually means a light background
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "15" || bg == "7" {
				return LightTheme
			}
		}
	}

	return DarkTheme
}

// StyleSet contains pre-computed lipgloss styles derived from a theme.
type StyleSet struct {
	Theme TermTheme

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	AccentTxt    lipgloss.Style
	DimTxt       lipgloss.Style
	SuccessTxt   lipgloss.Style
	ErrorTxt     lipgloss.Style
	PrimaryTxt   lipgloss.Style
	SecondaryTxt lipgloss.Style

	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	KbdKey  lipgloss.Style
	KbdDesc lipgloss.Style

	Banner lipgloss.Style

	SummaryKey   lipgloss.Style
	SummaryValue lipgloss.Style
	BorderedBox  lipgloss.Style

	StepBadgeComplete lipgloss.Style
	StepBadgeActive   lipgloss.Style

	VersionPill lipgloss.Style
}

// NewStyleSet creates a StyleSet from a theme.
func NewStyleSet(theme TermTheme) *StyleSet {
	return &StyleSet{
		Theme: theme,

		Title:        lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		Subtitle:     lipgloss.NewStyle().Foreground(theme.Secondary),
		AccentTxt:    lipgloss.NewStyle().Foreground(theme.Accent),
		DimTxt:       lipgloss.NewStyle().Foreground(theme.Dim),
		SuccessTxt:   lipgloss.NewStyle().Foreground(theme.Success),
		ErrorTxt:     lipgloss.NewStyle().Foreground(theme.Error),
		PrimaryTxt:   lipgloss.NewStyle().Foreground(theme.Primary),
		SecondaryTxt: lipgloss.NewStyle().Foreground(theme.Secondary),

		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ActiveBorder),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		KbdKey: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Background(theme.Dim).
			Padding(0, 1),
		KbdDesc: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Banner: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		SummaryKey: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Width(16),
		SummaryValue: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StepBadgeComplete: lipgloss.NewStyle().
			Background(theme.Success).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1),
		StepBadgeActive: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1),

		VersionPill: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}
