package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorBlue      = lipgloss.Color("#3B82F6")
	colorGreen     = lipgloss.Color("#22C55E")
	colorYellow    = lipgloss.Color("#EAB308")
	colorRed       = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorBlue).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)

	statusOnlineStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	statusOfflineStyle = lipgloss.NewStyle().
				Foreground(colorGray)
)

// border color per toast level
var toastColors = map[string]lipgloss.Color{
	"info":    colorBlue,
	"success": colorGreen,
	"warning": colorYellow,
	"error":   colorRed,
}

const logo = `
  ___ _    ___ ___ _____ ___  ___ ___ _  __
 | __| |  | __| __|_   _|   \| __/ __| |/ /
 | _|| |__| _|| _|  | | | |) | _|\__ \ ' <
 |_| |____|___|___| |_| |___/|___|___/_|\_\
`
