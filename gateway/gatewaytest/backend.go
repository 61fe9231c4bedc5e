// ABOUTME: Scripted in-memory Backend for tests that must not touch the network
// ABOUTME: Queues canned replies, records every call, and can hold calls open
package gatewaytest

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
)

// Reply is one scripted backend answer.
type Reply struct {
	Text    string
	Sources []models.Source
	Err     error
}

// Call records the arguments of one GenerateContent invocation.
type Call struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// Prompt returns the text of the final (newest) content.
func (c Call) Prompt() string {
	if len(c.Contents) == 0 {
		return ""
	}
	return contentText(c.Contents[len(c.Contents)-1])
}

// Backend replays queued replies in order, then Default.
type Backend struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
	gate    chan struct{}

	Default Reply
}

func New(replies ...Reply) *Backend {
	return &Backend{replies: replies}
}

// NewGateway wires a Backend into a gateway with a test logger.
func NewGateway(t *testing.T, replies ...Reply) (*gateway.Gateway, *Backend) {
	t.Helper()
	backend := New(replies...)
	return gateway.New(backend, zaptest.NewLogger(t)), backend
}

// Push queues another reply.
func (b *Backend) Push(r Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = append(b.replies, r)
}

// Hold makes subsequent calls block until release is called or their
// context ends.
func (b *Backend) Hold() (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate := make(chan struct{})
	b.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gate == gate {
				b.gate = nil
			}
			b.mu.Unlock()
			close(gate)
		})
	}
}

func (b *Backend) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	b.mu.Lock()
	b.calls = append(b.calls, Call{Model: model, Contents: contents, Config: config})
	reply := b.Default
	if len(b.replies) > 0 {
		reply = b.replies[0]
		b.replies = b.replies[1:]
	}
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if reply.Err != nil {
		return nil, reply.Err
	}
	return Response(reply.Text, reply.Sources...), nil
}

// Calls returns a copy of the recorded calls.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// LastCall returns the most recent call, or a zero Call.
func (b *Backend) LastCall() Call {
	calls := b.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

// Response builds a single-candidate provider response.
func Response(text string, sources ...models.Source) *genai.GenerateContentResponse {
	candidate := &genai.Candidate{
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}
	if len(sources) > 0 {
		meta := &genai.GroundingMetadata{}
		for _, src := range sources {
			meta.GroundingChunks = append(meta.GroundingChunks, &genai.GroundingChunk{
				Web: &genai.GroundingChunkWeb{Title: src.Title, URI: src.URI},
			})
		}
		candidate.GroundingMetadata = meta
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}
}

func contentText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var text string
	for _, part := range c.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}
