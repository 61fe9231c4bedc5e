// ABOUTME: Read-only, deep-copied view of coordinator state for renderers
// ABOUTME: Views and HTTP responses consume Snapshot and never touch live state
package coordinator

import (
	"github.com/harperreed/marketmind/models"
	"github.com/harperreed/marketmind/session"
)

// PanelStatus is the async state shared by every panel.
type PanelStatus struct {
	Busy    bool   `json:"busy"`
	Failure string `json:"failure,omitempty"`
}

type DashboardState struct {
	PanelStatus
	Insight string `json:"insight"`
}

type CampaignState struct {
	PanelStatus
	Campaign *models.Campaign `json:"campaign,omitempty"`
}

type PitchState struct {
	PanelStatus
	Pitch *models.SalesPitch `json:"pitch,omitempty"`
}

type MarketState struct {
	PanelStatus
	Insight *models.MarketInsight `json:"insight,omitempty"`
}

type LeadState struct {
	PanelStatus
	Leads []models.Lead `json:"leads"`
}

type ChatState struct {
	Busy     bool                 `json:"busy"`
	Messages []models.ChatMessage `json:"messages"`
}

type Snapshot struct {
	Session   session.State  `json:"session"`
	View      View           `json:"view"`
	Title     string         `json:"title"`
	Dashboard DashboardState `json:"dashboard"`
	Campaigns CampaignState  `json:"campaigns"`
	Pitch     PitchState     `json:"sales_pitch"`
	Market    MarketState    `json:"market_analysis"`
	Leads     LeadState      `json:"lead_scoring"`
	Chat      ChatState      `json:"chat"`
}

// Snapshot copies all state. Mutating the result never affects the coordinator.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Session: c.gate.State(),
		View:    c.view,
		Title:   Title(c.view),
		Dashboard: DashboardState{
			PanelStatus: c.status(Dashboard),
			Insight:     c.insight,
		},
		Campaigns: CampaignState{PanelStatus: c.status(Campaigns)},
		Pitch:     PitchState{PanelStatus: c.status(SalesPitch)},
		Market:    MarketState{PanelStatus: c.status(MarketAnalysis)},
		Leads: LeadState{
			PanelStatus: c.status(LeadScoring),
			Leads:       append([]models.Lead(nil), c.leads...),
		},
		Chat: ChatState{
			Busy:     c.chat.busy,
			Messages: cloneMessages(c.transcript),
		},
	}
	if c.campaign != nil {
		campaign := *c.campaign
		snap.Campaigns.Campaign = &campaign
	}
	if c.pitch != nil {
		pitch := *c.pitch
		snap.Pitch.Pitch = &pitch
	}
	if c.market != nil {
		market := *c.market
		market.Sources = append([]models.Source(nil), c.market.Sources...)
		snap.Market.Insight = &market
	}
	return snap
}

func (c *Coordinator) status(v View) PanelStatus {
	s := c.slots[v]
	return PanelStatus{Busy: s.busy, Failure: s.failure}
}

func cloneMessages(msgs []models.ChatMessage) []models.ChatMessage {
	return append([]models.ChatMessage(nil), msgs...)
}
