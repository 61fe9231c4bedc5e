// ABOUTME: Bridges the gateway credential hook into the bubbletea update loop
// ABOUTME: The hook never blocks a generation call; the TUI drains notices as messages
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

const credentialNotice = "The API key was not recognized for this model. Check GEMINI_API_KEY and restart."

// credentialMsg is delivered when the provider rejects the configured key.
type credentialMsg struct {
	err error
}

// Notifier carries credential failures from generation goroutines to the TUI.
type Notifier struct {
	ch chan error
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan error, 1)}
}

// Hook matches gateway.CredentialHook. Extra notices are dropped while one is pending.
func (n *Notifier) Hook(_ context.Context, err error) {
	select {
	case n.ch <- err:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		return credentialMsg{err: <-n.ch}
	}
}
