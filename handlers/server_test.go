// ABOUTME: End-to-end tests for the MCP server over in-memory transports
// ABOUTME: Lists the registered surface and calls tools through a real client session
package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/config"
	"github.com/harperreed/marketmind/gateway/gatewaytest"
)

func connect(t *testing.T, replies ...gatewaytest.Reply) (*mcp.ClientSession, *gatewaytest.Backend) {
	t.Helper()
	ctx := context.Background()
	gw, backend := gatewaytest.NewGateway(t, replies...)
	server := NewServer(adapters.New(gw, config.DefaultModels()), config.DefaultModels(), "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session, backend
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}

func TestServerListsTools(t *testing.T) {
	session, _ := connect(t)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	got := map[string]bool{}
	for _, tool := range result.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"generate_campaign", "generate_sales_pitch", "analyze_market", "score_leads", "quick_insight", "ask_consultant"} {
		if !got[name] {
			t.Errorf("Tool %s not registered", name)
		}
	}
}

func TestServerListsPromptsAndResources(t *testing.T) {
	session, _ := connect(t)
	ctx := context.Background()

	prompts, err := session.ListPrompts(ctx, nil)
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(prompts.Prompts) != 3 {
		t.Errorf("Expected 3 prompts, got %d", len(prompts.Prompts))
	}

	resources, err := session.ListResources(ctx, nil)
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	if len(resources.Resources) != 3 {
		t.Errorf("Expected 3 resources, got %d", len(resources.Resources))
	}
}

func TestServerCallTool(t *testing.T) {
	session, backend := connect(t, gatewaytest.Reply{Text: "Dear CFO, meet Ledger."})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "generate_sales_pitch",
		Arguments: map[string]any{"persona": "CFO", "product": "Ledger"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Dear CFO, meet Ledger.") {
		t.Errorf("Expected pitch in result, got %q", resultText(t, result))
	}
	if len(backend.Calls()) != 1 {
		t.Errorf("Expected 1 provider call, got %d", len(backend.Calls()))
	}
}

func TestServerCallToolFailureIsToolError(t *testing.T) {
	session, backend := connect(t)
	backend.Default = gatewaytest.Reply{Err: errors.New("quota exceeded")}

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "quick_insight",
		Arguments: map[string]any{"topic": "pricing"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error result")
	}
	if !strings.Contains(resultText(t, result), "failed to get insight") {
		t.Errorf("Unexpected error text %q", resultText(t, result))
	}
}
