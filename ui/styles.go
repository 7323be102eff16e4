package ui

import (
	"github.com/almonk/booknav/theme"
	"github.com/charmbracelet/lipgloss"
)

// Color palette using ANSI colors that adapt to the terminal's color scheme.
// Semantic colors (blue, green, red, etc.) use ANSI indices 0-15,
// which are customized by the user's terminal theme.
// Colors that need light/dark awareness use AdaptiveColor.
var (
	colorBlue   lipgloss.TerminalColor = lipgloss.Color("12")
	colorGreen  lipgloss.TerminalColor = lipgloss.Color("10")
	colorRed    lipgloss.TerminalColor = lipgloss.Color("9")
	colorPurple lipgloss.TerminalColor = lipgloss.Color("13")
	colorCyan   lipgloss.TerminalColor = lipgloss.Color("14")
	colorOrange lipgloss.TerminalColor = lipgloss.Color("208") // 256-color; no ANSI equivalent

	// Adaptive text colors
	colorFg      lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorFgDim   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	colorComment lipgloss.TerminalColor = lipgloss.Color("8")
	colorGutter  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "248", Dark: "239"}

	// Adaptive background colors
	colorBg        lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "254", Dark: "235"}
	colorSelection lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "253", Dark: "237"}
)

// Styles
var (
	titleStyle          lipgloss.Style
	selectedStyle       lipgloss.Style
	sectionStyle        lipgloss.Style
	linkStyle           lipgloss.Style
	headerStyle         lipgloss.Style
	externalStyle       lipgloss.Style
	activeStyle         lipgloss.Style
	numberStyle         lipgloss.Style
	treeLineStyle       lipgloss.Style
	matchHighlightStyle lipgloss.Style
	matchSelectedStyle  lipgloss.Style

	statusBase        lipgloss.Style
	statusPathStyle   lipgloss.Style
	statusActiveStyle lipgloss.Style
	statusFlashStyle  lipgloss.Style
	statusErrorStyle  lipgloss.Style
	statusHelpStyle   lipgloss.Style
	searchInputStyle  lipgloss.Style
	searchPromptStyle lipgloss.Style
)

func init() {
	buildStyles()
}

// buildStyles derives every style from the current palette.
func buildStyles() {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).PaddingLeft(1)
	selectedStyle = lipgloss.NewStyle().Background(colorSelection).Foreground(colorFg).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	linkStyle = lipgloss.NewStyle().Foreground(colorFgDim)
	headerStyle = lipgloss.NewStyle().Foreground(colorPurple).Bold(true)
	externalStyle = lipgloss.NewStyle().Foreground(colorCyan)
	activeStyle = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	numberStyle = lipgloss.NewStyle().Foreground(colorComment)
	treeLineStyle = lipgloss.NewStyle().Foreground(colorGutter)
	matchHighlightStyle = lipgloss.NewStyle().Foreground(colorOrange).Bold(true).Underline(true)
	matchSelectedStyle = lipgloss.NewStyle().Background(colorSelection).Foreground(colorOrange).Bold(true).Underline(true)

	// Status bar base style; all status styles inherit this background
	statusBase = lipgloss.NewStyle().Background(colorBg)
	statusPathStyle = statusBase.Foreground(colorFgDim).PaddingLeft(1).PaddingRight(1)
	statusActiveStyle = statusBase.Foreground(colorOrange).Bold(true)
	statusFlashStyle = statusBase.Foreground(colorGreen).Bold(true).PaddingLeft(1)
	statusErrorStyle = statusBase.Foreground(colorRed).Bold(true).PaddingLeft(1)
	statusHelpStyle = statusBase.Foreground(colorGutter)
	searchInputStyle = statusBase.Foreground(colorFg).PaddingLeft(1)
	searchPromptStyle = statusBase.Foreground(colorBlue).Bold(true).PaddingLeft(1)
}

// ApplyTheme overrides the built-in palette with any colors th sets.
func ApplyTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	set := func(dst *lipgloss.TerminalColor, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	set(&colorOrange, th.Active)
	set(&colorBlue, th.Section)
	set(&colorFgDim, th.Link)
	set(&colorPurple, th.Header)
	set(&colorCyan, th.External)
	set(&colorGutter, th.Gutter)
	set(&colorSelection, th.Selection)
	set(&colorBg, th.Status)
	buildStyles()
}
