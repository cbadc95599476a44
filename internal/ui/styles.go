package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Design System Colors - Adaptive based on terminal background
var (
	// Primary brand colors (work well on both light and dark)
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	// Semantic colors
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	// Neutral colors (contrast-adaptive)
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background and
// rebuilds the styles that depend on them.
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	buildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")   // Bright magenta/pink
	ColorSecondary = lipgloss.Color("33")  // Bright cyan/blue
	ColorAccent = lipgloss.Color("214")    // Bright orange/yellow
	ColorSuccess = lipgloss.Color("10")    // Bright green
	ColorWarning = lipgloss.Color("11")    // Bright yellow
	ColorError = lipgloss.Color("9")       // Bright red
	ColorInfo = lipgloss.Color("12")       // Bright blue
	ColorText = lipgloss.Color("252")      // Near white
	ColorTextMuted = lipgloss.Color("244") // Light gray
	ColorTextDim = lipgloss.Color("240")   // Medium gray
	ColorBorder = lipgloss.Color("238")    // Dark gray
	ColorSurface = lipgloss.Color("236")   // Slightly lighter dark gray
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")   // Darker magenta for contrast
	ColorSecondary = lipgloss.Color("24")  // Darker cyan
	ColorAccent = lipgloss.Color("130")    // Darker orange
	ColorSuccess = lipgloss.Color("22")    // Dark green
	ColorWarning = lipgloss.Color("136")   // Dark yellow/orange
	ColorError = lipgloss.Color("160")     // Dark red
	ColorInfo = lipgloss.Color("24")       // Dark blue
	ColorText = lipgloss.Color("232")      // Near black
	ColorTextMuted = lipgloss.Color("240") // Dark gray
	ColorTextDim = lipgloss.Color("244")   // Medium gray
	ColorBorder = lipgloss.Color("248")    // Light gray
	ColorSurface = lipgloss.Color("254")   // Off-white
}

// Component Styles
var (
	StyleTitle      lipgloss.Style
	StyleSubtitle   lipgloss.Style
	StyleText       lipgloss.Style
	StyleTextMuted  lipgloss.Style
	StyleTextDim    lipgloss.Style
	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style
	StyleStar       lipgloss.Style
	StyleTag        lipgloss.Style
	StyleSuccess    lipgloss.Style
	StyleError      lipgloss.Style
	StyleModal      lipgloss.Style
	StylePreview    lipgloss.Style
	StyleSearch     lipgloss.Style
	StyleModeBadge  lipgloss.Style
	StyleBuildBadge lipgloss.Style
)

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleSubtitle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")). // Pure white
		Background(ColorSecondary).
		Bold(true)

	StyleUnselected = lipgloss.NewStyle().Foreground(ColorText)
	StyleStar = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleTag = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true).
		Padding(0, 1)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true).
		Padding(0, 1)

	StyleModal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	StylePreview = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	StyleSearch = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	StyleModeBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorPrimary).
		Padding(0, 1)

	StyleBuildBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorAccent).
		Padding(0, 1)
}

func init() {
	setDarkThemeColors()
	buildStyles()
}

// truncate shortens s to width terminal cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// CreateOption renders one row of a selectable list
func CreateOption(label string, isSelected bool, width int) string {
	if isSelected {
		return StyleFocused.Render(truncate("▶ "+label, width))
	}
	return StyleUnselected.Render(truncate("  "+label, width))
}

// CreateStatus renders a banner line
func CreateStatus(text string, isError bool, width int) string {
	text = truncate(text, width-2)
	if isError {
		return StyleError.Render("✗ " + text)
	}
	return StyleSuccess.Render("✓ " + text)
}

// CreateGuaranteedHelp renders help text cut to the terminal width
func CreateGuaranteedHelp(helpText string, width int) string {
	if width > 0 {
		helpText = truncate(helpText, width-2)
	}
	return StyleTextDim.Render(helpText)
}

// CenterModal places content in the middle of the screen
func CenterModal(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// AddMainPadding adds the left margin used by every screen
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// renderCursor draws a text buffer with a block cursor between before and
// after.
func renderCursor(before, after string) string {
	if after == "" {
		return before + StyleFocused.Render(" ")
	}
	first, rest := splitFirst(after)
	return before + StyleFocused.Render(first) + rest
}

// splitFirst splits off the first grapheme cluster, the unit the text
// buffers move their cursor by.
func splitFirst(s string) (string, string) {
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return first, rest
}

// joinTags renders tags as "#a #b"
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}
