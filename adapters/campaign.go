package adapters

import (
	"context"
	"fmt"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

type CampaignInput struct {
	Name     string `json:"name" jsonschema:"Campaign or product name (required)"`
	Audience string `json:"audience,omitempty" jsonschema:"Target audience"`
	Goals    string `json:"goals,omitempty" jsonschema:"Campaign goals"`
}

// GenerateCampaign drafts a multi-channel campaign plan.
func (s *Service) GenerateCampaign(ctx context.Context, in CampaignInput) (*models.Campaign, error) {
	if err := requireFields(field("name", in.Name)); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Generate a marketing campaign for %s.\n"+
		"Target: %s.\n"+
		"Goals: %s.\n"+
		"Format as a professional structured plan including headline, body, and channels.",
		in.Name, in.Audience, in.Goals)

	resp, err := s.gw.Complete(ctx, gateway.Request{Model: s.models.Campaign, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generate campaign: %w", err)
	}

	return &models.Campaign{
		ID:             models.NewID(),
		Name:           in.Name,
		TargetAudience: in.Audience,
		Channel:        models.DefaultChannel,
		Content:        resp.Text,
		Status:         models.CampaignDraft,
	}, nil
}
