// ABOUTME: TUI views for the dashboard and the insights placeholder
// ABOUTME: The dashboard shows the quick insight, which resolves after first paint
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/marketmind/coordinator"
)

var (
	insightStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	statBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 2).
			MarginRight(1)
)

// stat is one headline figure on the dashboard.
type stat struct {
	label  string
	value  string
	change string
}

// dashboardStats are illustrative headline figures; nothing is persisted.
var dashboardStats = []stat{
	{"Total Leads", "12,840", "+12%"},
	{"Conversion Rate", "4.2%", "+0.5%"},
	{"Active Campaigns", "24", "-2"},
	{"Avg. Lead Score", "78", "+5"},
}

func (m Model) renderDashboardView() string {
	var s strings.Builder

	insight := m.snap.Dashboard.Insight
	if insight != coordinator.InsightPlaceholder {
		insight = m.markdown(insight)
	}
	s.WriteString(insightStyle.Render("⚡ Real-time Insight: " + insight))
	s.WriteString("\n")
	if status := m.renderStatus(coordinator.Dashboard, m.snap.Dashboard.PanelStatus); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString("\n")

	var boxes []string
	for _, st := range dashboardStats {
		boxes = append(boxes, statBoxStyle.Render(
			statLabelStyle.Render(st.label)+"\n"+
				statValueStyle.Render(st.value)+" "+mutedStyle.Render(st.change)))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	s.WriteString("\n\n")
	if m.snap.Dashboard.Failure != "" {
		s.WriteString(helpStyle.Render("r: Retry insight"))
	}
	return s.String()
}

// handleDashboardKeys only retries a failed insight; a resolved one stays for the mount.
func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if m.snap.Dashboard.Failure != "" && !m.snap.Dashboard.Busy {
			return m, m.refreshInsight()
		}
	}
	return m, nil
}

func (m Model) renderInsightsView() string {
	var s strings.Builder
	s.WriteString(statValueStyle.Render("PREDICTIVE CORE"))
	s.WriteString("\n\n")
	s.WriteString(mutedStyle.Render("Modeling engine is currently indexing deep sales archives. System availability expected shortly."))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("Enter: Return to %s", coordinator.Title(coordinator.Dashboard))))
	return s.String()
}

func (m Model) handleInsightsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		return m.navigate(coordinator.Dashboard)
	}
	return m, nil
}
