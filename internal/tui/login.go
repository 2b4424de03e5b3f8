package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// returns a new login screen
func NewLogin() *LoginModel {
	email := textinput.New()
	email.Placeholder = "dispatcher@fleetdesk.dev"
	email.Prompt = "email    > "
	email.PromptStyle = promptStyle
	email.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "password > "
	password.PromptStyle = promptStyle
	password.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	return &LoginModel{
		email:    email,
		password: password,
		spinner:  NewSpinner(SpinnerConnecting),
	}
}

// clears the password and shows why the user is back here
func (m *LoginModel) Reset(notice string) {
	m.password.SetValue("")
	m.submitting = false
	m.notice = notice
	m.setFocus(0)
}

func (m *LoginModel) setFocus(i int) {
	m.focus = i

	if i == 0 {
		m.email.Focus()
		m.password.Blur()
		return
	}

	m.email.Blur()
	m.password.Focus()
}

// returns the credentials when the form is ready to submit
func (m *LoginModel) credentials() (string, string, bool) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	return email, password, email != "" && password != ""
}

func (m *LoginModel) Update(msg tea.Msg, submit func(email, password string) tea.Cmd) (*LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.setFocus(1 - m.focus)
			return m, nil

		case "enter":
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}

			email, password, ok := m.credentials()
			if !ok {
				m.notice = "email and password are required"
				return m, nil
			}

			m.submitting = true
			m.notice = ""
			return m, tea.Batch(submit(email, password), m.spinner.Tick)
		}

	case RequestFailedMsg:
		m.submitting = false
		m.password.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	if m.submitting {
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}

	return m, cmd
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("dispatch console"))
	b.WriteString("\n\n")

	b.WriteString(borderStyle.Render(m.email.View() + "\n" + m.password.View()))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(m.spinner.View() + infoStyle.Render(" signing in..."))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab: switch field  enter: sign in  ctrl+c: quit"))

	return b.String()
}
