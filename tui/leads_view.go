// ABOUTME: TUI view for lead scoring
// ABOUTME: Free-text lead input and a table of scored leads in provider order
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/models"
)

var tierStyles = map[string]lipgloss.Style{
	models.TierHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	models.TierMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	models.TierLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

// leadTable wraps the bubbles table with the selected lead's reasoning.
type leadTable struct {
	table table.Model
	leads []models.Lead
}

func newLeadTable() leadTable {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Company", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "Tier", Width: 8},
	}
	return leadTable{table: table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
	)}
}

func (t *leadTable) setLeads(leads []models.Lead) {
	t.leads = leads
	rows := make([]table.Row, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, table.Row{
			l.Name,
			l.Company,
			strings.ToUpper(l.Status),
			fmt.Sprintf("%.0f", l.Score),
			l.Tier(),
		})
	}
	t.table.SetRows(rows)
	// An empty table clamps the cursor to -1; only reset once rows exist.
	if n := len(rows); n > 0 && (t.table.Cursor() < 0 || t.table.Cursor() >= n) {
		t.table.SetCursor(0)
	}
}

func (t *leadTable) setHeight(h int) {
	t.table.SetHeight(h)
}

func (t leadTable) selected() (models.Lead, bool) {
	i := t.table.Cursor()
	if i < 0 || i >= len(t.leads) {
		return models.Lead{}, false
	}
	return t.leads[i], true
}

func newLeadInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Paste lead notes: name, company, signals..."
	ta.CharLimit = 0
	ta.SetWidth(70)
	ta.SetHeight(5)
	ta.Focus()
	return ta
}

func (m Model) renderLeadView() string {
	var s strings.Builder

	s.WriteString(m.leadInput.View())
	s.WriteString("\n\n")

	if line := m.renderStatus(coordinator.LeadScoring, m.snap.Leads.PanelStatus); line != "" {
		s.WriteString(line)
		s.WriteString("\n\n")
	}

	if len(m.snap.Leads.Leads) > 0 {
		s.WriteString(m.leadTable.table.View())
		s.WriteString("\n")
		if lead, ok := m.leadTable.selected(); ok {
			style := tierStyles[lead.Tier()]
			s.WriteString(style.Render(fmt.Sprintf("%s (%.0f)", lead.Name, lead.Score)))
			s.WriteString(" ")
			s.WriteString(mutedStyle.Render(lead.Reasoning))
			s.WriteString("\n")
		}
	}

	help := []string{
		"Ctrl+S: Score leads",
		"Ctrl+E: Load sample",
		"Ctrl+J/K: Select lead",
		"Esc: Back",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleLeadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.navigate(coordinator.Dashboard)
	case "ctrl+e":
		m.leadInput.SetValue(adapters.SampleLeads)
		return m, nil
	case "ctrl+j":
		m.leadTable.table.MoveDown(1)
		return m, nil
	case "ctrl+k":
		m.leadTable.table.MoveUp(1)
		return m, nil
	case "ctrl+s":
		coord := m.coord
		in := adapters.LeadInput{Data: strings.TrimSpace(m.leadInput.Value())}
		return m, m.run(coordinator.LeadScoring, func(ctx context.Context) error {
			_, err := coord.ScoreLeads(ctx, in)
			return err
		})
	}

	var cmd tea.Cmd
	m.leadInput, cmd = m.leadInput.Update(msg)
	return m, cmd
}
