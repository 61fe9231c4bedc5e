// ABOUTME: MCP tool handlers over the domain adapters
// ABOUTME: Implements generate_campaign, generate_sales_pitch, analyze_market, score_leads, quick_insight, ask_consultant
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/models"
)

type ToolHandlers struct {
	svc coordinator.Adapters
}

func NewToolHandlers(svc coordinator.Adapters) *ToolHandlers {
	return &ToolHandlers{svc: svc}
}

func (h *ToolHandlers) GenerateCampaign(ctx context.Context, _ *mcp.CallToolRequest, input adapters.CampaignInput) (*mcp.CallToolResult, models.Campaign, error) {
	campaign, err := h.svc.GenerateCampaign(ctx, input)
	if err != nil {
		return nil, models.Campaign{}, fmt.Errorf("failed to generate campaign: %w", err)
	}
	return nil, *campaign, nil
}

// PitchOutput carries CreatedAt as RFC 3339 text so the output schema stays plain JSON.
type PitchOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Persona   string `json:"persona"`
	Pitch     string `json:"pitch"`
	CreatedAt string `json:"created_at"`
}

func (h *ToolHandlers) GenerateSalesPitch(ctx context.Context, _ *mcp.CallToolRequest, input adapters.PitchInput) (*mcp.CallToolResult, PitchOutput, error) {
	pitch, err := h.svc.GenerateSalesPitch(ctx, input)
	if err != nil {
		return nil, PitchOutput{}, fmt.Errorf("failed to generate sales pitch: %w", err)
	}
	return nil, PitchOutput{
		ID:        pitch.ID,
		Title:     pitch.Title,
		Persona:   pitch.Persona,
		Pitch:     pitch.Pitch,
		CreatedAt: pitch.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *ToolHandlers) AnalyzeMarket(ctx context.Context, _ *mcp.CallToolRequest, input adapters.MarketInput) (*mcp.CallToolResult, models.MarketInsight, error) {
	insight, err := h.svc.AnalyzeMarket(ctx, input)
	if err != nil {
		return nil, models.MarketInsight{}, fmt.Errorf("failed to analyze market: %w", err)
	}
	return nil, *insight, nil
}

type ScoreLeadsOutput struct {
	Leads []models.Lead `json:"leads"`
}

func (h *ToolHandlers) ScoreLeads(ctx context.Context, _ *mcp.CallToolRequest, input adapters.LeadInput) (*mcp.CallToolResult, ScoreLeadsOutput, error) {
	leads, err := h.svc.ScoreLeads(ctx, input)
	if err != nil {
		return nil, ScoreLeadsOutput{}, fmt.Errorf("failed to score leads: %w", err)
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	return nil, ScoreLeadsOutput{Leads: leads}, nil
}

type QuickInsightInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"Topic for the insight (default Modern Sales Strategies)"`
}

type QuickInsightOutput struct {
	Insight string `json:"insight"`
}

func (h *ToolHandlers) QuickInsight(ctx context.Context, _ *mcp.CallToolRequest, input QuickInsightInput) (*mcp.CallToolResult, QuickInsightOutput, error) {
	topic := input.Topic
	if topic == "" {
		topic = coordinator.DefaultInsightTopic
	}
	text, err := h.svc.QuickInsight(ctx, topic)
	if err != nil {
		return nil, QuickInsightOutput{}, fmt.Errorf("failed to get insight: %w", err)
	}
	return nil, QuickInsightOutput{Insight: text}, nil
}

type Turn struct {
	Role string `json:"role" jsonschema:"user or model"`
	Text string `json:"text"`
}

type AskConsultantInput struct {
	Message string `json:"message" jsonschema:"Question for the sales and marketing consultant (required)"`
	History []Turn `json:"history,omitempty" jsonschema:"Prior turns, oldest first"`
}

type AskConsultantOutput struct {
	Reply string `json:"reply"`
}

func (h *ToolHandlers) AskConsultant(ctx context.Context, _ *mcp.CallToolRequest, input AskConsultantInput) (*mcp.CallToolResult, AskConsultantOutput, error) {
	history := make([]models.ChatMessage, len(input.History))
	for i, turn := range input.History {
		history[i] = models.ChatMessage{Role: turn.Role, Text: turn.Text}
	}
	reply, err := h.svc.Chat(ctx, history, input.Message)
	if err != nil {
		return nil, AskConsultantOutput{}, fmt.Errorf("failed to ask consultant: %w", err)
	}
	return nil, AskConsultantOutput{Reply: reply.Text}, nil
}
