// ABOUTME: Tests for the TUI model
// ABOUTME: Drives key handling against a real coordinator with a scripted gateway backend
package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/gateway/gatewaytest"
	"github.com/harperreed/marketmind/session"
)

func setupModel(t *testing.T, replies ...gatewaytest.Reply) (Model, *gatewaytest.Backend) {
	t.Helper()
	gate, err := session.NewGate("gmail.com")
	if err != nil {
		t.Fatalf("Failed to create gate: %v", err)
	}
	gw, backend := gatewaytest.NewGateway(t, replies...)
	coord := coordinator.New(gate, adapters.New(gw, config.DefaultModels()), zaptest.NewLogger(t))
	return NewModel(context.Background(), coord, nil), backend
}

// signIn logs in and resolves the first quick insight.
func signIn(t *testing.T, m Model) Model {
	t.Helper()
	m.loginInputs[0].SetValue("ada@gmail.com")
	m.loginInputs[1].SetValue("lovelace")
	m.loginFocus = 1
	updated, cmd := m.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.screen != ScreenApp {
		t.Fatalf("Expected app screen after login, got login error %q", m.loginErr)
	}
	return drain(m, cmd)
}

// drain runs cmd and feeds completion messages back into the model.
// Timer-driven messages such as blinks and spinner ticks are skipped.
func drain(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case opDoneMsg, chatDoneMsg, credentialMsg:
			updated, _ := m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.handleKeyPress(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m, backend := setupModel(t)

	m.loginInputs[0].SetValue("user@otherdomain.com")
	m.loginInputs[1].SetValue("abcdef")
	m.loginFocus = 1
	m, _ = press(m, tea.KeyEnter)

	if m.screen != ScreenLogin {
		t.Fatal("Should stay on login screen")
	}
	if m.loginErr != session.ErrEmailRejected.Error() {
		t.Errorf("Expected email rejection, got %q", m.loginErr)
	}
	if !strings.Contains(m.View(), m.loginErr) {
		t.Error("Login view should show the error")
	}

	m.loginInputs[0].SetValue("user@gmail.com")
	m.loginInputs[1].SetValue("abc")
	m, _ = press(m, tea.KeyEnter)
	if m.loginErr != session.ErrSecretTooShort.Error() {
		t.Errorf("Expected length rejection, got %q", m.loginErr)
	}
	if len(backend.Calls()) != 0 {
		t.Error("Login must never reach the provider")
	}
}

func TestLoginEnterAdvancesField(t *testing.T) {
	m, _ := setupModel(t)

	m, _ = press(m, tea.KeyEnter)
	if m.loginFocus != 1 {
		t.Errorf("Enter on email should move to password, focus=%d", m.loginFocus)
	}
	m, _ = press(m, tea.KeyShiftTab)
	if m.loginFocus != 0 {
		t.Errorf("Shift+Tab should move back, focus=%d", m.loginFocus)
	}
}

func TestSignupToggle(t *testing.T) {
	m, _ := setupModel(t)

	m, _ = press(m, tea.KeyCtrlS)
	if !m.signup || !strings.Contains(m.View(), "CREATE ACCOUNT") {
		t.Error("Ctrl+S should switch to sign up")
	}
}

func TestLoginLoadsQuickInsight(t *testing.T) {
	m, _ := setupModel(t, gatewaytest.Reply{Text: "Sell the outcome."})

	if !strings.Contains(m.View(), "SIGN IN") {
		t.Fatal("Should start on login screen")
	}

	m = signIn(t, m)

	if m.snap.View != coordinator.Dashboard {
		t.Errorf("Expected dashboard, got %s", m.snap.View)
	}
	if m.snap.Dashboard.Insight != "Sell the outcome." {
		t.Errorf("Expected resolved insight, got %q", m.snap.Dashboard.Insight)
	}
	if !strings.Contains(m.View(), "Sell the outcome.") {
		t.Error("Dashboard should render the insight")
	}
}

func TestDashboardShowsPlaceholderBeforeInsight(t *testing.T) {
	m, _ := setupModel(t)
	m.loginInputs[0].SetValue("ada@gmail.com")
	m.loginInputs[1].SetValue("lovelace")
	m.loginFocus = 1

	m, _ = press(m, tea.KeyEnter)

	if !strings.Contains(m.View(), coordinator.InsightPlaceholder) {
		t.Error("Dashboard should show the placeholder until the insight resolves")
	}
}

func TestPanelNavigation(t *testing.T) {
	m, _ := setupModel(t)
	m = signIn(t, m)

	m, _ = press(m, tea.KeyCtrlN)
	if m.snap.View != coordinator.Campaigns {
		t.Errorf("Ctrl+N should go to campaigns, got %s", m.snap.View)
	}

	m, _ = press(m, tea.KeyCtrlP)
	m, _ = press(m, tea.KeyCtrlP)
	if m.snap.View != coordinator.Insights {
		t.Errorf("Ctrl+P should wrap to insights, got %s", m.snap.View)
	}
	if !strings.Contains(m.View(), "PREDICTIVE CORE") {
		t.Error("Insights view should render the placeholder screen")
	}

	m, cmd := press(m, tea.KeyEnter)
	if m.snap.View != coordinator.Dashboard {
		t.Errorf("Enter on insights should return to dashboard, got %s", m.snap.View)
	}
	if cmd == nil {
		t.Error("Returning to dashboard should fetch a quick insight")
	}
	drain(m, cmd)
}

func TestCampaignGeneration(t *testing.T) {
	m, backend := setupModel(t, gatewaytest.Reply{Text: "insight"})
	m = signIn(t, m)
	backend.Push(gatewaytest.Reply{Text: "Headline: Spring into savings"})

	m, _ = press(m, tea.KeyCtrlN)
	m.campaignForm.inputs[0].SetValue("Spring Launch")
	m.campaignForm.inputs[1].SetValue("SMB founders")

	m, cmd := press(m, tea.KeyEnter)
	if !m.inflight[coordinator.Campaigns] {
		t.Error("Campaign call should be in flight")
	}
	m = drain(m, cmd)

	if m.snap.Campaigns.Campaign == nil {
		t.Fatal("Expected a campaign result")
	}
	view := m.View()
	if !strings.Contains(view, "Spring Launch") || !strings.Contains(view, "Spring into savings") {
		t.Error("Campaign view should render the result")
	}
	if m.inflight[coordinator.Campaigns] {
		t.Error("Campaign call should be finished")
	}
}

func TestLeavingPanelResetsForm(t *testing.T) {
	m, _ := setupModel(t)
	m = signIn(t, m)

	m, _ = press(m, tea.KeyCtrlN)
	m.campaignForm.inputs[0].SetValue("Draft")
	m, cmd := press(m, tea.KeyEsc)
	drain(m, cmd)

	if m.snap.View != coordinator.Dashboard {
		t.Errorf("Esc should return to dashboard, got %s", m.snap.View)
	}
	if m.campaignForm.inputs[0].Value() != "" {
		t.Error("Leaving the panel should clear its inputs")
	}
}

func TestPitchMissingFieldNotice(t *testing.T) {
	m, backend := setupModel(t)
	m = signIn(t, m)
	calls := len(backend.Calls())

	m, _ = press(m, tea.KeyCtrlN)
	m, _ = press(m, tea.KeyCtrlN)
	m.pitchForm.inputs[0].SetValue("CTO")

	m, cmd := press(m, tea.KeyEnter)
	m = drain(m, cmd)

	if !strings.Contains(m.notice, "required") {
		t.Errorf("Expected missing field notice, got %q", m.notice)
	}
	if len(backend.Calls()) != calls {
		t.Error("Missing field must not reach the provider")
	}
}

func TestGenerationFailureShown(t *testing.T) {
	m, backend := setupModel(t)
	m = signIn(t, m)
	backend.Push(gatewaytest.Reply{Err: errors.New("quota exceeded")})

	for i := 0; i < 3; i++ {
		m, _ = press(m, tea.KeyCtrlN)
	}
	if m.snap.View != coordinator.MarketAnalysis {
		t.Fatalf("Expected market analysis, got %s", m.snap.View)
	}
	m.marketForm.inputs[0].SetValue("EV charging")

	m, cmd := press(m, tea.KeyEnter)
	m = drain(m, cmd)

	if !strings.Contains(m.View(), coordinator.FailureMessage) {
		t.Error("Market view should show the failure indicator")
	}
}

func TestLeadScoring(t *testing.T) {
	m, backend := setupModel(t)
	m = signIn(t, m)
	backend.Push(gatewaytest.Reply{Text: `[
		{"name":"John Doe","company":"Tesla","status":"hot","score":92,"reasoning":"budget approved"},
		{"name":"Walter White","company":"Blue Meth Co","status":"cold","score":20,"reasoning":"basic inquiry"}
	]`})

	for i := 0; i < 4; i++ {
		m, _ = press(m, tea.KeyCtrlN)
	}
	if m.snap.View != coordinator.LeadScoring {
		t.Fatalf("Expected lead scoring, got %s", m.snap.View)
	}

	m, _ = press(m, tea.KeyCtrlE)
	if m.leadInput.Value() != adapters.SampleLeads {
		t.Error("Ctrl+E should load the sample leads")
	}

	m, cmd := press(m, tea.KeyCtrlS)
	m = drain(m, cmd)

	if len(m.leadTable.leads) != 2 {
		t.Fatalf("Expected 2 leads in table, got %d", len(m.leadTable.leads))
	}
	view := m.View()
	if !strings.Contains(view, "John Doe") || !strings.Contains(view, "budget approved") {
		t.Error("Lead view should render rows and the selected reasoning")
	}

	m, _ = press(m, tea.KeyCtrlJ)
	if lead, _ := m.leadTable.selected(); lead.Name != "Walter White" {
		t.Errorf("Ctrl+J should select the next lead, got %q", lead.Name)
	}
}

func TestChatExchange(t *testing.T) {
	m, backend := setupModel(t)
	m = signIn(t, m)
	backend.Push(gatewaytest.Reply{Text: "Focus on retention."})

	m, _ = press(m, tea.KeyCtrlT)
	if !m.chatOpen || m.focus != FocusChat {
		t.Fatal("Ctrl+T should open and focus the chat")
	}
	if !strings.Contains(m.View(), "STRATEGY CONSULTANT") || m.snap.Chat.Messages[0].Text != adapters.ChatGreeting {
		t.Error("Chat should open with the greeting")
	}

	m.chatInput.SetValue("How do I cut churn?")
	m, cmd := press(m, tea.KeyEnter)
	if !m.thinking {
		t.Error("Chat should be thinking after send")
	}
	m = drain(m, cmd)

	if m.thinking {
		t.Error("Chat should be idle after the reply")
	}
	msgs := m.snap.Chat.Messages
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	if msgs[2].Text != "Focus on retention." {
		t.Errorf("Unexpected reply %q", msgs[2].Text)
	}

	m, _ = press(m, tea.KeyEsc)
	if m.chatOpen || m.focus != FocusPanel {
		t.Error("Esc should close the chat")
	}
}

func TestChatFailureAppendsFallback(t *testing.T) {
	m, backend := setupModel(t)
	m = signIn(t, m)
	backend.Push(gatewaytest.Reply{Err: errors.New("503")})

	m, _ = press(m, tea.KeyCtrlT)
	m.chatInput.SetValue("Hello?")
	m, cmd := press(m, tea.KeyEnter)
	m = drain(m, cmd)

	msgs := m.snap.Chat.Messages
	if len(msgs) != 3 || msgs[2].Text != adapters.ChatFallback {
		t.Errorf("Expected fallback reply, got %+v", msgs)
	}
}

func TestLogout(t *testing.T) {
	m, _ := setupModel(t)
	m = signIn(t, m)

	m, _ = press(m, tea.KeyCtrlL)

	if m.screen != ScreenLogin {
		t.Error("Ctrl+L should return to login")
	}
	if m.snap.Session.Authenticated {
		t.Error("Session should be closed")
	}
}

func TestCredentialNotice(t *testing.T) {
	m, _ := setupModel(t)
	m = signIn(t, m)

	updated, _ := m.Update(credentialMsg{err: errors.New("Requested entity was not found")})
	m = updated.(Model)

	if !strings.Contains(m.View(), credentialNotice) {
		t.Error("Credential failure should surface a notice")
	}
}

func TestNotifierDoesNotBlock(t *testing.T) {
	n := NewNotifier()
	n.Hook(context.Background(), errors.New("first"))
	n.Hook(context.Background(), errors.New("second"))

	msg := n.wait()()
	cm, ok := msg.(credentialMsg)
	if !ok || cm.err.Error() != "first" {
		t.Errorf("Expected first notice, got %#v", msg)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatal("Ctrl+C should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C should quit")
	}
}

func TestDashboardRetriesOnlyFailedInsight(t *testing.T) {
	m, backend := setupModel(t,
		gatewaytest.Reply{Err: errors.New("quota exceeded")},
		gatewaytest.Reply{Text: "Recovered insight."},
	)
	m = signIn(t, m)

	if m.snap.Dashboard.Failure == "" {
		t.Fatal("Expected the first insight to fail")
	}

	retry := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	updated, cmd := m.handleKeyPress(retry)
	m = drain(updated.(Model), cmd)

	if m.snap.Dashboard.Insight != "Recovered insight." {
		t.Errorf("Expected retried insight, got %q", m.snap.Dashboard.Insight)
	}

	updated, cmd = m.handleKeyPress(retry)
	m = drain(updated.(Model), cmd)
	if len(backend.Calls()) != 2 {
		t.Errorf("Resolved insight should not be fetched again, got %d calls", len(backend.Calls()))
	}
}
