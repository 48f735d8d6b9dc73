// Package tui is a terminal rendition of the BEA chat widget.
package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorBrand    = lipgloss.Color("#006837")
	colorBrandAlt = lipgloss.Color("#8DC63F")
	colorText     = lipgloss.Color("#F5F5F5")
	colorTextDim  = lipgloss.Color("#9E9E9E")
	colorError    = lipgloss.Color("#E53935")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorBrand).
			Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBrand).
			Padding(0, 1)

	greetingStyle = lipgloss.NewStyle().
			Foreground(colorBrandAlt).
			Italic(true)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrandAlt)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBrand)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(2)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true).
			PaddingLeft(2)

	launcherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorBrand).
			Padding(0, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorError)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorBrandAlt)
)
