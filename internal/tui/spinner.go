package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// named loading animations
type SpinnerPreset string

const (
	SpinnerLoading    SpinnerPreset = "loading"
	SpinnerSyncing    SpinnerPreset = "syncing"
	SpinnerConnecting SpinnerPreset = "connecting"
)

var spinnerPresets = map[SpinnerPreset]struct {
	frames spinner.Spinner
	color  lipgloss.Color
}{
	SpinnerLoading:    {spinner.Dot, colorBlue},
	SpinnerSyncing:    {spinner.MiniDot, colorGreen},
	SpinnerConnecting: {spinner.Pulse, colorYellow},
}

// returns a spinner for the preset; unknown presets fall back to loading
func NewSpinner(p SpinnerPreset) spinner.Model {
	preset, ok := spinnerPresets[p]
	if !ok {
		preset = spinnerPresets[SpinnerLoading]
	}

	return spinner.New(
		spinner.WithSpinner(preset.frames),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(preset.color)),
	)
}
