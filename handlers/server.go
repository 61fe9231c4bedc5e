// ABOUTME: Assembles the MarketMind MCP server
// ABOUTME: Registers every tool, prompt, and resource on one mcp.Server
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/coordinator"
)

// NewServer registers the generation tools over svc. The MCP surface is
// stateless and does not go through the session gate.
func NewServer(svc coordinator.Adapters, m config.Models, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "marketmind",
		Version: version,
	}, nil)

	tools := NewToolHandlers(svc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_campaign",
		Description: "Generate a marketing campaign (strategy, channels, headline, body copy) for a product and audience",
	}, tools.GenerateCampaign)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_sales_pitch",
		Description: "Write a sales pitch in Markdown for a buyer persona and product",
	}, tools.GenerateSalesPitch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_market",
		Description: "Research a market with live web search and return a summary with up to five source links",
	}, tools.AnalyzeMarket)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_leads",
		Description: "Score free-text leads 0-100 and classify each as hot, warm, or cold",
	}, tools.ScoreLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quick_insight",
		Description: "Get one short, punchy sales or marketing insight about a topic",
	}, tools.QuickInsight)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_consultant",
		Description: "Ask the sales and marketing strategy consultant a question, optionally with prior turns",
	}, tools.AskConsultant)

	prompts := NewPromptHandlers()
	for _, p := range prompts.Prompts() {
		server.AddPrompt(p, prompts.GetPrompt)
	}

	resources := NewResourceHandlers(m)
	for _, r := range resources.Resources() {
		server.AddResource(r, resources.ReadResource)
	}

	return server
}
