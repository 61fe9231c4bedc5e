// ABOUTME: Provider gateway, the single choke point for Gemini calls
// ABOUTME: Builds request config, collects grounding citations, logs and wraps every failure once
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/harperreed/marketmind/models"
)

// ErrGenerationFailed wraps every provider-side or transport failure.
var ErrGenerationFailed = errors.New("generation failed")

// credentialErrorText is what the provider returns when the key's project
// cannot see the requested model.
const credentialErrorText = "Requested entity was not found"

// Backend is the subset of genai.Models the gateway needs.
type Backend interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// CredentialHook lets the host offer credential reselection. It is best-effort.
type CredentialHook func(ctx context.Context, err error)

// Request describes one generation call.
type Request struct {
	Model  string
	Prompt string
	// History holds prior turns sent before Prompt, oldest first.
	History           []models.ChatMessage
	SystemInstruction string
	// Schema constrains the response to JSON of this shape.
	Schema         *genai.Schema
	Grounding      bool
	ThinkingBudget *int32
}

// Response is the provider's answer.
type Response struct {
	Text string
	// Citations is populated only for grounded requests, in provider order.
	Citations []models.Source
}

type Gateway struct {
	backend      Backend
	logger       *zap.Logger
	metrics      *Metrics
	onCredential CredentialHook
}

type Option func(*Gateway)

// WithCredentialHook registers the credential-reselection affordance.
func WithCredentialHook(hook CredentialHook) Option {
	return func(g *Gateway) { g.onCredential = hook }
}

// WithMetrics records per-call counters and latency.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// New creates a gateway around a long-lived backend.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		backend: backend,
		logger:  logger.Named("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGenAIBackend creates the production backend. Call once at startup.
func NewGenAIBackend(ctx context.Context, apiKey string) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// Complete issues exactly one provider call. There are no retries.
func (g *Gateway) Complete(ctx context.Context, req Request) (*Response, error) {
	return g.complete(ctx, req, nil)
}

// complete runs one call. A non-nil check vets the response text before the
// outcome is recorded, so every call is counted exactly once.
func (g *Gateway) complete(ctx context.Context, req Request, check func(text string) error) (*Response, error) {
	if req.Model == "" {
		return nil, g.fail(ctx, req, errors.New("model is required"))
	}

	g.logger.Debug("generate",
		zap.String("model", req.Model),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Int("history", len(req.History)),
		zap.Bool("grounding", req.Grounding),
		zap.Bool("schema", req.Schema != nil))

	start := time.Now()
	resp, err := g.backend.GenerateContent(ctx, req.Model, buildContents(req), buildConfig(req))
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		g.metrics.observe(req.Model, outcomeError, time.Since(start))
		return nil, g.fail(ctx, req, err)
	}
	out := &Response{Text: resp.Text()}
	if check != nil {
		if err := check(out.Text); err != nil {
			g.metrics.observe(req.Model, outcomeInvalid, time.Since(start))
			g.logger.Error("structured response rejected",
				zap.String("model", req.Model),
				zap.Int("response_len", len(out.Text)),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
	}
	g.metrics.observe(req.Model, outcomeOK, time.Since(start))

	if req.Grounding {
		out.Citations = citations(resp)
	}

	g.logger.Debug("generate complete",
		zap.String("model", req.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(out.Text)),
		zap.Int("citations", len(out.Citations)))

	return out, nil
}

// fail logs the cause, fires the credential hook when it applies, and wraps.
func (g *Gateway) fail(ctx context.Context, req Request, cause error) error {
	g.logger.Error("generation failed", zap.String("model", req.Model), zap.Error(cause))

	if IsCredentialError(cause) && g.onCredential != nil {
		g.logger.Warn("provider did not recognize credential, requesting reselection")
		g.onCredential(ctx, cause)
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, cause)
}

// IsCredentialError reports whether err carries the provider's
// unrecognized-credential message.
func IsCredentialError(err error) bool {
	return err != nil && strings.Contains(err.Error(), credentialErrorText)
}

func buildContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		var role genai.Role = genai.RoleUser
		if msg.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.Schema
	}
	if req.Grounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.ThinkingBudget != nil {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: req.ThinkingBudget}
	}
	return config
}

func citations(resp *genai.GenerateContentResponse) []models.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []models.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, models.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return sources
}
