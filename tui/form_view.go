// ABOUTME: TUI views for the campaign, sales pitch, and market analysis panels
// ABOUTME: Each panel is a small text form whose result is rendered as markdown
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/coordinator"
)

var (
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// form is a focus-cycling group of single-line inputs.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newForm(placeholders ...string) form {
	f := form{inputs: make([]textinput.Model, len(placeholders))}
	for i, p := range placeholders {
		f.inputs[i] = textinput.New()
		f.inputs[i].Placeholder = p
		f.inputs[i].CharLimit = 500
		f.inputs[i].Width = 60
	}
	f.updateFocus()
	return f
}

func (f *form) updateFocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *form) cycle(step int) {
	n := len(f.inputs)
	f.focus = (f.focus + step + n) % n
	f.updateFocus()
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) view() string {
	var s strings.Builder
	for i, input := range f.inputs {
		if i == f.focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}
	return s.String()
}

func newCampaignForm() form {
	return newForm("Campaign or product name", "Target audience", "Goals (e.g. 500 signups)")
}

func newPitchForm() form {
	return newForm("Buyer persona (e.g. CTO of a fintech startup)", "Product or service")
}

func newMarketForm() form {
	return newForm("Industry or trend (e.g. AI in real estate)")
}

func (m *Model) resetForms() {
	for _, v := range coordinator.Views {
		m.resetForm(v)
	}
}

// resetForm clears a panel's inputs, as leaving a panel discards them.
func (m *Model) resetForm(v coordinator.View) {
	switch v {
	case coordinator.Campaigns:
		m.campaignForm = newCampaignForm()
	case coordinator.SalesPitch:
		m.pitchForm = newPitchForm()
	case coordinator.MarketAnalysis:
		m.marketForm = newMarketForm()
	case coordinator.LeadScoring:
		m.leadInput = newLeadInput()
		m.leadTable = newLeadTable()
	}
	if m.focus == FocusChat {
		m.blurForms()
	}
}

func (m *Model) formFor(v coordinator.View) *form {
	switch v {
	case coordinator.Campaigns:
		return &m.campaignForm
	case coordinator.SalesPitch:
		return &m.pitchForm
	case coordinator.MarketAnalysis:
		return &m.marketForm
	}
	return nil
}

func (m *Model) blurForms() {
	m.campaignForm.blur()
	m.pitchForm.blur()
	m.marketForm.blur()
	m.leadInput.Blur()
}

func (m *Model) focusForms() {
	m.campaignForm.updateFocus()
	m.pitchForm.updateFocus()
	m.marketForm.updateFocus()
	m.leadInput.Focus()
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.formFor(m.snap.View)
	if f == nil {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.navigate(coordinator.Dashboard)
	case "tab", "down":
		f.cycle(1)
		return m, nil
	case "shift+tab", "up":
		f.cycle(-1)
		return m, nil
	case "enter":
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submitForm issues the current panel's generation call.
func (m Model) submitForm() tea.Cmd {
	coord := m.coord
	switch m.snap.View {
	case coordinator.Campaigns:
		in := adapters.CampaignInput{
			Name:     m.campaignForm.value(0),
			Audience: m.campaignForm.value(1),
			Goals:    m.campaignForm.value(2),
		}
		return m.run(coordinator.Campaigns, func(ctx context.Context) error {
			_, err := coord.GenerateCampaign(ctx, in)
			return err
		})
	case coordinator.SalesPitch:
		in := adapters.PitchInput{Persona: m.pitchForm.value(0), Product: m.pitchForm.value(1)}
		return m.run(coordinator.SalesPitch, func(ctx context.Context) error {
			_, err := coord.GeneratePitch(ctx, in)
			return err
		})
	case coordinator.MarketAnalysis:
		in := adapters.MarketInput{Topic: m.marketForm.value(0)}
		return m.run(coordinator.MarketAnalysis, func(ctx context.Context) error {
			_, err := coord.AnalyzeMarket(ctx, in)
			return err
		})
	}
	return nil
}

func (m Model) renderFormPanel(v coordinator.View, f form, status coordinator.PanelStatus, result string) string {
	var s strings.Builder
	s.WriteString(f.view())
	s.WriteString("\n")
	if line := m.renderStatus(v, status); line != "" {
		s.WriteString(line)
		s.WriteString("\n\n")
	}
	if result != "" {
		s.WriteString(resultStyle.Render(result))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("Tab: Next field • Enter: Generate • Esc: Back"))
	return s.String()
}

func (m Model) renderCampaignView() string {
	var result string
	if c := m.snap.Campaigns.Campaign; c != nil {
		result = fmt.Sprintf("%s  %s\n%s\n\n%s",
			statValueStyle.Render(c.Name),
			mutedStyle.Render(strings.ToUpper(c.Status)+" • "+c.Channel),
			mutedStyle.Render("Audience: "+c.TargetAudience),
			m.markdown(c.Content))
	}
	return m.renderFormPanel(coordinator.Campaigns, m.campaignForm, m.snap.Campaigns.PanelStatus, result)
}

func (m Model) renderPitchView() string {
	var result string
	if p := m.snap.Pitch.Pitch; p != nil {
		result = fmt.Sprintf("%s  %s\n\n%s",
			statValueStyle.Render(p.Title),
			mutedStyle.Render(p.CreatedAt.Format("Jan 2 15:04")),
			m.markdown(p.Pitch))
	}
	return m.renderFormPanel(coordinator.SalesPitch, m.pitchForm, m.snap.Pitch.PanelStatus, result)
}

func (m Model) renderMarketView() string {
	var result string
	if mi := m.snap.Market.Insight; mi != nil {
		var s strings.Builder
		s.WriteString(m.markdown(mi.Summary))
		if len(mi.Sources) > 0 {
			s.WriteString("\n\n")
			s.WriteString(headerStyle.Render("Sources"))
			for i, src := range mi.Sources {
				s.WriteString(fmt.Sprintf("\n%d. %s %s", i+1, src.Title, sourceStyle.Render(src.URI)))
			}
		}
		result = s.String()
	}
	return m.renderFormPanel(coordinator.MarketAnalysis, m.marketForm, m.snap.Market.PanelStatus, result)
}
