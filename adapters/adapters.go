// ABOUTME: Domain adapters mapping panel inputs to gateway requests and typed results
// ABOUTME: Holds the shared Service, its options, and the missing-field precondition
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/gateway"
)

// ErrMissingField is returned before any gateway call when a required input is blank.
var ErrMissingField = errors.New("missing required field")

// Completer is the gateway surface the adapters depend on.
type Completer interface {
	Complete(ctx context.Context, req gateway.Request) (*gateway.Response, error)
	CompleteJSON(ctx context.Context, req gateway.Request, out any) error
}

// DefaultChatThinkingBudget is the reasoning budget given to the consultant.
const DefaultChatThinkingBudget int32 = 2000

type Service struct {
	gw         Completer
	models     config.Models
	chatBudget int32
	now        func() time.Time
}

type Option func(*Service)

// WithChatThinkingBudget overrides the chat reasoning budget. Zero or negative
// values keep the default, since the consultant always reasons.
func WithChatThinkingBudget(budget int32) Option {
	return func(s *Service) {
		if budget > 0 {
			s.chatBudget = budget
		}
	}
}

// WithClock replaces time.Now for createdAt and message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the adapter service around one long-lived gateway.
func New(gw Completer, m config.Models, opts ...Option) *Service {
	s := &Service{
		gw:         gw,
		models:     m,
		chatBudget: DefaultChatThinkingBudget,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireFields returns ErrMissingField naming the first blank field.
func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f[0])
		}
	}
	return nil
}

func field(name, value string) [2]string {
	return [2]string{name, value}
}

func orDefault(text, fallback string) string {
	if text == "" {
		return fallback
	}
	return text
}
