// ABOUTME: MCP resource handlers exposing MarketMind reference data
// ABOUTME: Serves the sample lead batch, the lead scoring schema, and the configured models
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/config"
)

const resourceScheme = "marketmind://"

type ResourceHandlers struct {
	models config.Models
}

func NewResourceHandlers(m config.Models) *ResourceHandlers {
	return &ResourceHandlers{models: m}
}

// Resources lists the URIs ReadResource serves.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{
			URI:         resourceScheme + "sample-leads",
			Name:        "sample-leads",
			Description: "Example lead lines accepted by score_leads",
			MIMEType:    "text/plain",
		},
		{
			URI:         resourceScheme + "lead-schema",
			Name:        "lead-schema",
			Description: "Response schema every scored lead batch must match",
			MIMEType:    "application/json",
		},
		{
			URI:         resourceScheme + "models",
			Name:        "models",
			Description: "Model id used by each tool",
			MIMEType:    "application/json",
		},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(_ context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	switch strings.TrimPrefix(uri, resourceScheme) {
	case "sample-leads":
		return textResource(uri, "text/plain", adapters.SampleLeads), nil
	case "lead-schema":
		return h.jsonResource(uri, adapters.LeadSchema())
	case "models":
		return h.jsonResource(uri, map[string]string{
			"generate_campaign":    h.models.Campaign,
			"generate_sales_pitch": h.models.Pitch,
			"analyze_market":       h.models.Market,
			"score_leads":          h.models.Leads,
			"quick_insight":        h.models.Insight,
			"ask_consultant":       h.models.Chat,
		})
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

func (h *ResourceHandlers) jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return textResource(uri, "application/json", string(data)), nil
}

func textResource(uri, mime, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: mime,
			Text:     text,
		},
	}}
}
