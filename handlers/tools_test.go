// ABOUTME: Tests for the MarketMind MCP tool handlers
// ABOUTME: Drives each handler through a gateway backed by a scripted provider
package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/gateway/gatewaytest"
	"github.com/harperreed/marketmind/models"
)

func setupTools(t *testing.T, replies ...gatewaytest.Reply) (*ToolHandlers, *gatewaytest.Backend) {
	t.Helper()
	gw, backend := gatewaytest.NewGateway(t, replies...)
	return NewToolHandlers(adapters.New(gw, config.DefaultModels())), backend
}

func TestGenerateCampaignTool(t *testing.T) {
	handler, backend := setupTools(t, gatewaytest.Reply{Text: "# Spring\nCopy"})

	_, out, err := handler.GenerateCampaign(context.Background(), nil, adapters.CampaignInput{
		Name:     "Spring Launch",
		Audience: "Founders",
	})
	if err != nil {
		t.Fatalf("GenerateCampaign failed: %v", err)
	}

	if out.Name != "Spring Launch" {
		t.Errorf("Expected name 'Spring Launch', got %q", out.Name)
	}
	if out.Content != "# Spring\nCopy" {
		t.Errorf("Unexpected content %q", out.Content)
	}
	if out.ID == "" {
		t.Error("ID was not set")
	}
	if got := backend.LastCall().Model; got != config.DefaultModels().Campaign {
		t.Errorf("Expected campaign model, got %q", got)
	}
}

func TestGenerateCampaignToolMissingName(t *testing.T) {
	handler, backend := setupTools(t)

	_, _, err := handler.GenerateCampaign(context.Background(), nil, adapters.CampaignInput{})
	if !errors.Is(err, adapters.ErrMissingField) {
		t.Fatalf("Expected missing field error, got %v", err)
	}
	if len(backend.Calls()) != 0 {
		t.Errorf("Expected no provider calls, got %d", len(backend.Calls()))
	}
}

func TestGenerateSalesPitchTool(t *testing.T) {
	handler, _ := setupTools(t, gatewaytest.Reply{Text: "Dear CFO"})

	_, out, err := handler.GenerateSalesPitch(context.Background(), nil, adapters.PitchInput{
		Persona: "CFO",
		Product: "Ledger",
	})
	if err != nil {
		t.Fatalf("GenerateSalesPitch failed: %v", err)
	}
	if out.Pitch != "Dear CFO" {
		t.Errorf("Unexpected pitch %q", out.Pitch)
	}
}

func TestAnalyzeMarketTool(t *testing.T) {
	handler, _ := setupTools(t, gatewaytest.Reply{
		Text: "EV demand is rising",
		Sources: []models.Source{
			{Title: "Report", URI: "https://example.com/ev"},
		},
	})

	_, out, err := handler.AnalyzeMarket(context.Background(), nil, adapters.MarketInput{Topic: "EVs"})
	if err != nil {
		t.Fatalf("AnalyzeMarket failed: %v", err)
	}
	if out.Summary != "EV demand is rising" {
		t.Errorf("Unexpected summary %q", out.Summary)
	}
	if len(out.Sources) != 1 || out.Sources[0].URI != "https://example.com/ev" {
		t.Errorf("Unexpected sources %+v", out.Sources)
	}
}

func TestScoreLeadsTool(t *testing.T) {
	handler, _ := setupTools(t, gatewaytest.Reply{
		Text: `[{"name":"John Doe","company":"Tesla","status":"hot","score":92,"reasoning":"Budget approved"}]`,
	})

	_, out, err := handler.ScoreLeads(context.Background(), nil, adapters.LeadInput{Data: "John Doe, Tesla"})
	if err != nil {
		t.Fatalf("ScoreLeads failed: %v", err)
	}
	if len(out.Leads) != 1 {
		t.Fatalf("Expected 1 lead, got %d", len(out.Leads))
	}
	if out.Leads[0].Status != models.LeadHot || out.Leads[0].Score != 92 {
		t.Errorf("Unexpected lead %+v", out.Leads[0])
	}
}

func TestScoreLeadsToolEmptyBatch(t *testing.T) {
	handler, _ := setupTools(t, gatewaytest.Reply{Text: "[]"})

	_, out, err := handler.ScoreLeads(context.Background(), nil, adapters.LeadInput{Data: "nobody"})
	if err != nil {
		t.Fatalf("ScoreLeads failed: %v", err)
	}
	if out.Leads == nil || len(out.Leads) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", out.Leads)
	}
}

func TestScoreLeadsToolMalformedOutput(t *testing.T) {
	handler, _ := setupTools(t, gatewaytest.Reply{Text: "not json"})

	_, _, err := handler.ScoreLeads(context.Background(), nil, adapters.LeadInput{Data: "John Doe, Tesla"})
	if !errors.Is(err, gateway.ErrGenerationFailed) {
		t.Fatalf("Expected generation failure, got %v", err)
	}
}

func TestQuickInsightToolDefaultsTopic(t *testing.T) {
	handler, backend := setupTools(t, gatewaytest.Reply{Text: "Follow up within an hour."})

	_, out, err := handler.QuickInsight(context.Background(), nil, QuickInsightInput{})
	if err != nil {
		t.Fatalf("QuickInsight failed: %v", err)
	}
	if out.Insight != "Follow up within an hour." {
		t.Errorf("Unexpected insight %q", out.Insight)
	}
	if !strings.Contains(backend.LastCall().Prompt(), coordinator.DefaultInsightTopic) {
		t.Errorf("Expected prompt to mention %q, got %q", coordinator.DefaultInsightTopic, backend.LastCall().Prompt())
	}
}

func TestAskConsultantToolSendsHistory(t *testing.T) {
	handler, backend := setupTools(t, gatewaytest.Reply{Text: "Lead with ROI."})

	_, out, err := handler.AskConsultant(context.Background(), nil, AskConsultantInput{
		Message: "How do I pitch a CFO?",
		History: []Turn{
			{Role: models.RoleUser, Text: "Hi"},
			{Role: models.RoleModel, Text: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("AskConsultant failed: %v", err)
	}
	if out.Reply != "Lead with ROI." {
		t.Errorf("Unexpected reply %q", out.Reply)
	}
	if n := len(backend.LastCall().Contents); n != 3 {
		t.Errorf("Expected 3 contents (2 history + message), got %d", n)
	}
}

func TestToolsSurfaceProviderFailure(t *testing.T) {
	handler, backend := setupTools(t)
	backend.Default = gatewaytest.Reply{Err: errors.New("quota exceeded")}

	_, _, err := handler.GenerateSalesPitch(context.Background(), nil, adapters.PitchInput{Persona: "CFO", Product: "Ledger"})
	if !errors.Is(err, gateway.ErrGenerationFailed) {
		t.Errorf("Expected generation failure, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "failed to generate sales pitch") {
		t.Errorf("Expected wrapped error, got %v", err)
	}
}
