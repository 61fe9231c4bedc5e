// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Renders coordinator snapshots and turns keys into coordinator calls run as tea.Cmds
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/coordinator"
)

// Screen is the top-level TUI state.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenApp
)

// Focus selects which pane receives keys on the app screen.
type Focus int

const (
	FocusPanel Focus = iota
	FocusChat
)

// opDoneMsg reports a finished panel call.
type opDoneMsg struct {
	view coordinator.View
	err  error
}

// chatDoneMsg reports a finished chat exchange.
type chatDoneMsg struct {
	err error
}

// Model is the main bubbletea model
type Model struct {
	ctx      context.Context
	coord    *coordinator.Coordinator
	notifier *Notifier
	renderer *glamour.TermRenderer

	screen Screen
	focus  Focus
	snap   coordinator.Snapshot

	// Login state
	loginInputs []textinput.Model
	loginFocus  int
	signup      bool
	loginErr    string

	// Panel forms, reset whenever their panel unmounts
	campaignForm form
	pitchForm    form
	marketForm   form
	leadInput    textarea.Model
	leadTable    leadTable

	// Chat state
	chatOpen  bool
	chatInput textinput.Model
	chatView  viewport.Model
	thinking  bool

	inflight map[coordinator.View]bool
	spin     spinner.Model

	notice string
	width  int
	height int
}

// NewModel creates a new TUI model on the login screen. notifier may be nil.
func NewModel(ctx context.Context, coord *coordinator.Coordinator, notifier *Notifier) Model {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask about strategy..."
	chatInput.CharLimit = 2000
	chatInput.Prompt = "› "

	m := Model{
		ctx:       ctx,
		coord:     coord,
		notifier:  notifier,
		renderer:  renderer,
		screen:    ScreenLogin,
		chatInput: chatInput,
		chatView:  viewport.New(48, 16),
		inflight:  make(map[coordinator.View]bool),
		spin:      sp,
		width:     100,
		height:    30,
	}
	m.initLoginInputs()
	m.resetForms()
	m.snap = coord.Snapshot()
	if m.snap.Session.Authenticated {
		m.screen = ScreenApp
	}
	m.refreshChat()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.notifier != nil {
		cmds = append(cmds, m.notifier.wait())
	}
	if m.screen == ScreenApp {
		cmds = append(cmds, m.refreshInsight())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case opDoneMsg:
		m.inflight[msg.view] = false
		m.notice = noticeFor(msg.err)
		m.sync()
		return m, nil
	case chatDoneMsg:
		m.thinking = false
		m.notice = noticeFor(msg.err)
		m.sync()
		return m, nil
	case credentialMsg:
		m.notice = credentialNotice
		if m.notifier == nil {
			return m, nil
		}
		return m, m.notifier.wait()
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			m.sync()
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case ScreenLogin:
		return m.renderLoginView()
	case ScreenApp:
		return m.renderAppView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.screen == ScreenLogin {
		return m.handleLoginKeys(msg)
	}

	switch msg.String() {
	case "ctrl+n":
		return m.navigate(m.neighbor(1))
	case "ctrl+p":
		return m.navigate(m.neighbor(-1))
	case "ctrl+t":
		m.chatOpen = !m.chatOpen
		m.setFocus(FocusPanel)
		if m.chatOpen {
			m.setFocus(FocusChat)
		}
		return m, nil
	case "ctrl+l":
		m.coord.Logout()
		m.screen = ScreenLogin
		m.initLoginInputs()
		m.resetForms()
		m.chatOpen = false
		m.setFocus(FocusPanel)
		m.notice = ""
		m.sync()
		return m, nil
	}

	if m.focus == FocusChat {
		return m.handleChatKeys(msg)
	}

	// Delegate to view-specific handlers
	switch m.snap.View {
	case coordinator.Dashboard:
		return m.handleDashboardKeys(msg)
	case coordinator.Campaigns, coordinator.SalesPitch, coordinator.MarketAnalysis:
		return m.handleFormKeys(msg)
	case coordinator.LeadScoring:
		return m.handleLeadKeys(msg)
	case coordinator.Insights:
		return m.handleInsightsKeys(msg)
	}
	return m, nil
}

// navigate switches panels, resets the form of the panel left behind, and
// fetches a quick insight when the dashboard mounts.
func (m Model) navigate(v coordinator.View) (tea.Model, tea.Cmd) {
	from := m.snap.View
	mounted, err := m.coord.Navigate(v)
	if err != nil {
		m.notice = noticeFor(err)
		return m, nil
	}
	if from != v {
		m.resetForm(from)
		m.inflight[from] = false
	}
	m.notice = ""
	m.sync()
	if mounted {
		return m, m.refreshInsight()
	}
	return m, nil
}

// neighbor returns the view step places away in sidebar order, wrapping.
func (m Model) neighbor(step int) coordinator.View {
	views := coordinator.Views
	for i, v := range views {
		if v == m.snap.View {
			return views[(i+step+len(views))%len(views)]
		}
	}
	return coordinator.Dashboard
}

// run issues a coordinator call off the update loop.
func (m Model) run(v coordinator.View, call func(ctx context.Context) error) tea.Cmd {
	if m.inflight[v] {
		return nil
	}
	m.inflight[v] = true
	ctx := m.ctx
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return opDoneMsg{view: v, err: call(ctx)}
	})
}

func (m Model) refreshInsight() tea.Cmd {
	coord := m.coord
	return m.run(coordinator.Dashboard, func(ctx context.Context) error {
		_, err := coord.RefreshInsight(ctx)
		return err
	})
}

// sync pulls a fresh snapshot and refreshes derived widgets.
func (m *Model) sync() {
	m.snap = m.coord.Snapshot()
	m.leadTable.setLeads(m.snap.Leads.Leads)
	m.refreshChat()
}

func (m Model) busy() bool {
	if m.thinking {
		return true
	}
	for _, pending := range m.inflight {
		if pending {
			return true
		}
	}
	return false
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusChat {
		m.chatInput.Focus()
		m.blurForms()
		return
	}
	m.chatInput.Blur()
	m.focusForms()
}

func (m *Model) resize() {
	m.chatView.Width = max(30, m.width/3)
	m.chatView.Height = max(5, m.height-12)
	m.chatInput.Width = m.chatView.Width - 4
	m.leadInput.SetWidth(max(30, m.width-m.chatWidth()-8))
	m.leadTable.setHeight(max(5, m.height-20))
	if m.renderer != nil {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(40, m.width-m.chatWidth()-8))); err == nil {
			m.renderer = r
		}
	}
	m.refreshChat()
}

func (m Model) chatWidth() int {
	if !m.chatOpen {
		return 0
	}
	return m.chatView.Width + 4
}

// markdown renders model output, falling back to the raw text.
func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func noticeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapters.ErrMissingField):
		return "Please fill in the required fields."
	case errors.Is(err, coordinator.ErrBusy):
		return "Still working on the previous request."
	case errors.Is(err, coordinator.ErrNotAuthenticated):
		return "Please sign in."
	}
	// Generation failures are shown by the panel itself.
	return ""
}

func (m Model) renderAppView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("MARKETMIND"))
	s.WriteString("  ")
	s.WriteString(userStyle.Render(m.snap.Session.DisplayName()))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")
	s.WriteString(headerStyle.Render(m.snap.Title))
	s.WriteString("\n\n")

	var body string
	switch m.snap.View {
	case coordinator.Dashboard:
		body = m.renderDashboardView()
	case coordinator.Campaigns:
		body = m.renderCampaignView()
	case coordinator.SalesPitch:
		body = m.renderPitchView()
	case coordinator.MarketAnalysis:
		body = m.renderMarketView()
	case coordinator.LeadScoring:
		body = m.renderLeadView()
	case coordinator.Insights:
		body = m.renderInsightsView()
	}

	if m.chatOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(max(30, m.width-m.chatWidth()-2)).Render(body),
			"  ",
			m.renderChatView())
	}
	s.WriteString(body)
	s.WriteString("\n\n")

	if m.notice != "" {
		s.WriteString(noticeStyle.Render(m.notice))
		s.WriteString("\n")
	}
	s.WriteString(m.renderAppHelp())
	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for _, v := range coordinator.Views {
		label := coordinator.Title(v)
		if v == m.snap.View {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderAppHelp() string {
	help := []string{
		"Ctrl+N/P: Switch panel",
		"Ctrl+T: Consultant",
		"Esc: Dashboard",
		"Ctrl+L: Log out",
		"Ctrl+C: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

// renderStatus shows a spinner while busy, otherwise the panel failure.
func (m Model) renderStatus(v coordinator.View, status coordinator.PanelStatus) string {
	if status.Busy || m.inflight[v] {
		return m.spin.View() + " " + busyStyle.Render("Generating...")
	}
	if status.Failure != "" {
		return errorStyle.Render(status.Failure)
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Underline(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)
