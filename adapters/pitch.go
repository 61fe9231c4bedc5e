package adapters

import (
	"context"
	"fmt"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

type PitchInput struct {
	Persona string `json:"persona" jsonschema:"Buyer persona the pitch targets (required)"`
	Product string `json:"product" jsonschema:"Product or service being pitched (required)"`
}

// GenerateSalesPitch writes a pitch for product aimed at persona. Both are required.
func (s *Service) GenerateSalesPitch(ctx context.Context, in PitchInput) (*models.SalesPitch, error) {
	if err := requireFields(field("persona", in.Persona), field("product", in.Product)); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Create a high-converting sales pitch for %s targeting %s.\n"+
		"Focus on pain points and specific value propositions.", in.Product, in.Persona)

	resp, err := s.gw.Complete(ctx, gateway.Request{Model: s.models.Pitch, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generate sales pitch: %w", err)
	}

	return &models.SalesPitch{
		ID:        models.NewID(),
		Title:     fmt.Sprintf("%s for %s", in.Product, in.Persona),
		Persona:   in.Persona,
		Pitch:     resp.Text,
		CreatedAt: s.now(),
	}, nil
}
