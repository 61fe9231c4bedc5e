package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

// placeholderURI marks a citation with no usable link.
const placeholderURI = "#"

const untitledSource = "Source"

type MarketInput struct {
	Topic string `json:"topic" jsonschema:"Industry, market, or trend to analyze (required)"`
}

// AnalyzeMarket runs a search-grounded trend analysis.
func (s *Service) AnalyzeMarket(ctx context.Context, in MarketInput) (*models.MarketInsight, error) {
	if err := requireFields(field("topic", in.Topic)); err != nil {
		return nil, err
	}

	resp, err := s.gw.Complete(ctx, gateway.Request{
		Model:     s.models.Market,
		Prompt:    fmt.Sprintf("Analyze current market trends for: %s. Focus on 2024-2025 data.", in.Topic),
		Grounding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze market: %w", err)
	}

	return &models.MarketInsight{
		Topic:   in.Topic,
		Summary: resp.Text,
		Sources: CleanSources(resp.Citations),
	}, nil
}

// CleanSources drops citations without a real URI, names untitled ones, and
// keeps the first MaxSources in order.
func CleanSources(citations []models.Source) []models.Source {
	sources := make([]models.Source, 0, models.MaxSources)
	for _, c := range citations {
		uri := strings.TrimSpace(c.URI)
		if uri == "" || uri == placeholderURI {
			continue
		}
		title := c.Title
		if strings.TrimSpace(title) == "" {
			title = untitledSource
		}
		sources = append(sources, models.Source{Title: title, URI: uri})
		if len(sources) == models.MaxSources {
			break
		}
	}
	return sources
}
