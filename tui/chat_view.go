// ABOUTME: TUI pane for the consultant chat
// ABOUTME: Transcript viewport, single-line input, and a spinner while a turn is pending
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/marketmind/models"
)

var (
	chatPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	chatUserStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	chatModelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// refreshChat re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refreshChat() {
	var s strings.Builder
	for i, msg := range m.snap.Chat.Messages {
		if i > 0 {
			s.WriteString("\n\n")
		}
		if msg.Role == models.RoleUser {
			s.WriteString(chatUserStyle.Render("You " + msg.Timestamp.Format("15:04")))
			s.WriteString("\n")
			s.WriteString(msg.Text)
			continue
		}
		s.WriteString(chatModelStyle.Render("Consultant " + msg.Timestamp.Format("15:04")))
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Width(max(10, m.chatView.Width-2)).Render(msg.Text))
	}
	m.chatView.SetContent(s.String())
	m.chatView.GotoBottom()
}

func (m Model) renderChatView() string {
	var s strings.Builder
	s.WriteString(chatModelStyle.Render("STRATEGY CONSULTANT"))
	s.WriteString("\n")
	s.WriteString(m.chatView.View())
	s.WriteString("\n")
	if m.thinking || m.snap.Chat.Busy {
		s.WriteString(m.spin.View())
		s.WriteString(mutedStyle.Render(" thinking..."))
		s.WriteString("\n")
	}
	s.WriteString(m.chatInput.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Enter: Send • PgUp/PgDn: Scroll • Esc: Close"))
	return chatPaneStyle.Width(m.chatView.Width + 2).Render(s.String())
}

func (m Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.chatOpen = false
		m.setFocus(FocusPanel)
		return m, nil
	case "pgup":
		m.chatView.HalfPageUp()
		return m, nil
	case "pgdown":
		m.chatView.HalfPageDown()
		return m, nil
	case "enter":
		return m.sendChat()
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// sendChat starts one exchange. The coordinator appends the user turn right
// away; spinner ticks re-sync the snapshot so it shows before the reply.
func (m Model) sendChat() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.thinking {
		return m, nil
	}

	m.thinking = true
	m.chatInput.Reset()
	coord, ctx := m.coord, m.ctx
	send := func() tea.Msg {
		_, err := coord.SendChat(ctx, text)
		return chatDoneMsg{err: err}
	}
	return m, tea.Batch(m.spin.Tick, send)
}
