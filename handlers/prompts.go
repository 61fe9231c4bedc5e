// ABOUTME: MCP prompt handlers for reusable marketing and sales workflow templates
// ABOUTME: Each prompt steers the client toward one of the MarketMind tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marketmind/adapters"
)

type PromptHandlers struct{}

func NewPromptHandlers() *PromptHandlers {
	return &PromptHandlers{}
}

// Prompts lists the templates GetPrompt serves.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "campaign-brief",
			Description: "Draft a campaign brief, then generate the campaign",
			Arguments: []*mcp.PromptArgument{
				{Name: "name", Description: "Campaign or product name", Required: true},
				{Name: "audience", Description: "Target audience"},
				{Name: "goals", Description: "Campaign goals"},
			},
		},
		{
			Name:        "lead-triage",
			Description: "Score a batch of leads and decide who to call first",
			Arguments: []*mcp.PromptArgument{
				{Name: "leads", Description: "Lead lines; the sample batch is used when omitted"},
			},
		},
		{
			Name:        "market-briefing",
			Description: "Research a market with grounded search and summarize for the sales team",
			Arguments: []*mcp.PromptArgument{
				{Name: "topic", Description: "Industry, market, or trend", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(_ context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "campaign-brief":
		return h.getCampaignBriefPrompt(arguments)
	case "lead-triage":
		return h.getLeadTriagePrompt(arguments)
	case "market-briefing":
		return h.getMarketBriefingPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getCampaignBriefPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	name := strings.TrimSpace(args["name"])
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Plan a marketing campaign for: %s\n\n", name))
	if audience := strings.TrimSpace(args["audience"]); audience != "" {
		promptText.WriteString(fmt.Sprintf("Audience: %s\n", audience))
	}
	if goals := strings.TrimSpace(args["goals"]); goals != "" {
		promptText.WriteString(fmt.Sprintf("Goals: %s\n", goals))
	}
	promptText.WriteString("\nCall generate_campaign with these details, then:")
	promptText.WriteString("\n1. Summarize the strategy in two sentences")
	promptText.WriteString("\n2. Suggest which channel to launch first")

	return userPrompt(fmt.Sprintf("Campaign brief for %s", name), promptText.String()), nil
}

func (h *PromptHandlers) getLeadTriagePrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	leads := strings.TrimSpace(args["leads"])
	if leads == "" {
		leads = adapters.SampleLeads
	}

	var promptText strings.Builder
	promptText.WriteString("Triage these leads:\n\n")
	promptText.WriteString(leads)
	promptText.WriteString("\n\nCall score_leads with the text above, then:")
	promptText.WriteString("\n1. Rank the hot leads by score")
	promptText.WriteString("\n2. Propose a first touch for each hot lead")

	return userPrompt("Lead triage", promptText.String()), nil
}

func (h *PromptHandlers) getMarketBriefingPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	topic := strings.TrimSpace(args["topic"])
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Prepare a market briefing on: %s\n\n", topic))
	promptText.WriteString("Call analyze_market for current, cited findings, then:")
	promptText.WriteString("\n1. List the three trends that matter most for sales conversations")
	promptText.WriteString("\n2. Keep the source links next to the claims they support")

	return userPrompt(fmt.Sprintf("Market briefing on %s", topic), promptText.String()), nil
}
