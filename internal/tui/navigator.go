package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// routes navigation requests from the gateway into the TUI loop
type Navigator struct {
	ch chan string
}

func NewNavigator() *Navigator {
	return &Navigator{ch: make(chan string, 4)}
}

// drops the request when one is already pending
func (n *Navigator) Navigate(path string) {
	select {
	case n.ch <- path:
	default:
	}
}

func waitForNavigation(n *Navigator) tea.Cmd {
	if n == nil {
		return nil
	}

	return func() tea.Msg {
		return NavigateMsg{Path: <-n.ch}
	}
}
