// ABOUTME: Schema-validated decoding of structured provider output
// ABOUTME: Mirrors the genai response schema into JSON Schema and validates before decoding
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// CompleteJSON runs req and decodes the response into out. The response must
// parse as JSON and satisfy req.Schema, otherwise nothing is written to out
// and an ErrGenerationFailed error is returned.
func (g *Gateway) CompleteJSON(ctx context.Context, req Request, out any) error {
	if req.Schema == nil {
		return g.fail(ctx, req, errors.New("structured request without schema"))
	}

	resp, err := g.complete(ctx, req, func(text string) error {
		return Validate(req.Schema, text)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(resp.Text), out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrGenerationFailed, err)
	}
	return nil
}

// Validate checks that text is JSON conforming to schema.
func Validate(schema *genai.Schema, text string) error {
	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	resolved, err := ToJSONSchema(schema).Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}

// ToJSONSchema converts the provider schema into an equivalent JSON Schema.
func ToJSONSchema(s *genai.Schema) *jsonschema.Schema {
	if s == nil {
		return nil
	}

	out := &jsonschema.Schema{
		Required: s.Required,
		Items:    ToJSONSchema(s.Items),
	}
	if s.Type != "" && s.Type != genai.TypeUnspecified {
		out.Type = strings.ToLower(string(s.Type))
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ToJSONSchema(prop)
		}
	}
	for _, v := range s.Enum {
		out.Enum = append(out.Enum, v)
	}
	return out
}
