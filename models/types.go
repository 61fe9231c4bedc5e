// ABOUTME: Data models for MarketMind generation results
// ABOUTME: Defines Campaign, SalesPitch, MarketInsight, Lead, and ChatMessage structs
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Campaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TargetAudience string `json:"target_audience"`
	Channel        string `json:"channel"`
	Content        string `json:"content"`
	Status         string `json:"status"`
}

type SalesPitch struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Persona   string    `json:"persona"`
	Pitch     string    `json:"pitch"`
	CreatedAt time.Time `json:"created_at"`
}

// Source is a grounding citation returned alongside a market analysis.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type MarketInsight struct {
	Topic   string   `json:"topic"`
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}

type Lead struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Company   string  `json:"company"`
	Status    string  `json:"status"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Campaign status constants.
const (
	CampaignDraft     = "draft"
	CampaignActive    = "active"
	CampaignCompleted = "completed"
)

// DefaultChannel is assigned to every generated campaign.
const DefaultChannel = "Multi-Channel"

// Lead status constants.
const (
	LeadCold = "cold"
	LeadWarm = "warm"
	LeadHot  = "hot"
)

// LeadStatuses lists the accepted lead statuses in ascending temperature.
var LeadStatuses = []string{LeadCold, LeadWarm, LeadHot}

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// MaxSources caps the citations kept on a MarketInsight.
const MaxSources = 5

// Score tiers used for display only.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Tier buckets the score for styling. NaN falls through to the low tier.
func (l Lead) Tier() string {
	switch {
	case l.Score >= 80:
		return TierHigh
	case l.Score >= 50:
		return TierMedium
	default:
		return TierLow
	}
}

// NewID returns a collision-resistant identifier for UI keys.
func NewID() string {
	return ulid.Make().String()
}
