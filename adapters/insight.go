package adapters

import (
	"context"
	"fmt"

	"github.com/harperreed/marketmind/gateway"
)

const noInsight = "No insight available."

// QuickInsight returns a two-sentence insight from the low-latency model.
func (s *Service) QuickInsight(ctx context.Context, topic string) (string, error) {
	if err := requireFields(field("topic", topic)); err != nil {
		return "", err
	}

	resp, err := s.gw.Complete(ctx, gateway.Request{
		Model:  s.models.Insight,
		Prompt: fmt.Sprintf("Provide a 2-sentence marketing insight about %s. Be extremely concise and fast.", topic),
	})
	if err != nil {
		return "", fmt.Errorf("quick insight: %w", err)
	}
	return orDefault(resp.Text, noInsight), nil
}
