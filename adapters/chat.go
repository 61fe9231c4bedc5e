package adapters

import (
	"context"
	"fmt"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

const (
	// ConsultantInstruction is the persistent system instruction for chat.
	ConsultantInstruction = "You are a world-class sales and marketing consultant for MarketMind. Provide strategic, data-driven advice."

	// ChatGreeting opens every transcript. It is display-only and never sent.
	ChatGreeting = "Hello! I am your AI Sales Consultant. How can I help you optimize your strategy today?"

	// ChatFallback replaces the model turn when an exchange fails.
	ChatFallback = "Sorry, I encountered an error. Please try again."

	noResponse = "No response generated."
)

// Chat sends one user turn with the prior history and returns the model turn.
func (s *Service) Chat(ctx context.Context, history []models.ChatMessage, message string) (*models.ChatMessage, error) {
	if err := requireFields(field("message", message)); err != nil {
		return nil, err
	}

	budget := s.chatBudget
	resp, err := s.gw.Complete(ctx, gateway.Request{
		Model:             s.models.Chat,
		Prompt:            message,
		History:           conversation(history),
		SystemInstruction: ConsultantInstruction,
		ThinkingBudget:    &budget,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	return &models.ChatMessage{
		Role:      models.RoleModel,
		Text:      orDefault(resp.Text, noResponse),
		Timestamp: s.now(),
	}, nil
}

// conversation drops model turns that precede the first user turn, such as
// the greeting, so the provider sees a user-first exchange. Failed exchanges
// stay in the displayed transcript but are never replayed: a ChatFallback
// turn is removed together with the user turn it answered.
func conversation(history []models.ChatMessage) []models.ChatMessage {
	var out []models.ChatMessage
	for _, msg := range history {
		if msg.Role == models.RoleModel && msg.Text == ChatFallback {
			if n := len(out); n > 0 && out[n-1].Role == models.RoleUser {
				out = out[:n-1]
			}
			continue
		}
		if len(out) == 0 && msg.Role != models.RoleUser {
			continue
		}
		out = append(out, msg)
	}
	return out
}
