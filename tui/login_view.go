// ABOUTME: TUI view for the session gate
// ABOUTME: Email and hidden password fields with a sign-in/sign-up toggle
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) initLoginInputs() {
	inputs := make([]textinput.Model, 2)

	inputs[0] = textinput.New()
	inputs[0].Placeholder = "you@gmail.com"
	inputs[0].CharLimit = 254
	inputs[0].Prompt = "Email    "

	inputs[1] = textinput.New()
	inputs[1].Placeholder = "at least 6 characters"
	inputs[1].CharLimit = 128
	inputs[1].Prompt = "Password "
	inputs[1].EchoMode = textinput.EchoPassword
	inputs[1].EchoCharacter = '•'

	m.loginInputs = inputs
	m.loginFocus = 0
	m.loginErr = ""
	m.updateLoginFocus()
}

func (m *Model) updateLoginFocus() {
	for i := range m.loginInputs {
		if i == m.loginFocus {
			m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
}

func (m Model) renderLoginView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("MARKETMIND"))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render("Sales & marketing intelligence"))
	s.WriteString("\n\n")

	mode := "SIGN IN"
	if m.signup {
		mode = "CREATE ACCOUNT"
	}
	s.WriteString(headerStyle.Render(mode))
	s.WriteString("\n\n")

	for i, input := range m.loginInputs {
		if i == m.loginFocus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.loginErr != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.loginErr))
		s.WriteString("\n")
	}

	help := []string{
		"Tab: Next field",
		"Enter: Continue",
		"Ctrl+S: Toggle sign up",
		"Ctrl+C: Quit",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		step := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			step = len(m.loginInputs) - 1
		}
		m.loginFocus = (m.loginFocus + step) % len(m.loginInputs)
		m.updateLoginFocus()
		return m, nil
	case "ctrl+s":
		m.signup = !m.signup
		m.loginErr = ""
		return m, nil
	case "enter":
		if m.loginFocus < len(m.loginInputs)-1 {
			m.loginFocus++
			m.updateLoginFocus()
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.loginInputs[0].Value())
	secret := m.loginInputs[1].Value()

	if err := m.coord.Login(email, secret); err != nil {
		m.loginErr = err.Error()
		return m, nil
	}

	m.screen = ScreenApp
	m.signup = false
	m.initLoginInputs()
	m.resetForms()
	m.setFocus(FocusPanel)
	m.sync()
	return m, m.refreshInsight()
}
