package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

type LeadInput struct {
	Data string `json:"data" jsonschema:"Free text describing one or more leads (required)"`
}

// leadRow is the wire shape the provider is constrained to.
type leadRow struct {
	Name      string  `json:"name"`
	Company   string  `json:"company"`
	Status    string  `json:"status"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// LeadSchema constrains scoring output to an ordered list of complete leads.
func LeadSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":      {Type: genai.TypeString},
				"company":   {Type: genai.TypeString},
				"status":    {Type: genai.TypeString, Enum: models.LeadStatuses},
				"score":     {Type: genai.TypeNumber},
				"reasoning": {Type: genai.TypeString},
			},
			Required: []string{"name", "company", "status", "score", "reasoning"},
		},
	}
}

// ScoreLeads scores every lead described in the input. The result is all or
// nothing: output that does not match LeadSchema is a generation failure.
func (s *Service) ScoreLeads(ctx context.Context, in LeadInput) ([]models.Lead, error) {
	if err := requireFields(field("data", in.Data)); err != nil {
		return nil, err
	}

	var rows []leadRow
	err := s.gw.CompleteJSON(ctx, gateway.Request{
		Model:  s.models.Leads,
		Prompt: fmt.Sprintf("Score these leads based on potential value: %s", in.Data),
		Schema: LeadSchema(),
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("score leads: %w", err)
	}

	leads := make([]models.Lead, len(rows))
	for i, row := range rows {
		leads[i] = models.Lead{
			ID:        models.NewID(),
			Name:      row.Name,
			Company:   row.Company,
			Status:    row.Status,
			Score:     row.Score,
			Reasoning: row.Reasoning,
		}
	}
	return leads, nil
}

// SampleLeads is the canned input offered by the lead scoring panel.
const SampleLeads = `John Doe, Tesla, high interest in CRM
Sarah Connor, Skynet, looking for security automation
Walter White, Blue Meth Co, basic inquiry`
