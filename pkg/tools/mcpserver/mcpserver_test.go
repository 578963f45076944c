package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tally/pkg/session"
	"github.com/germanamz/tally/pkg/tools/calctools"
	"github.com/germanamz/tally/pkg/tools/toolbox"
)

func errorHandler(_ context.Context, _ json.RawMessage) (string, error) {
	return "", errors.New("tool failed")
}

// setupTestClient creates an MCPServer, connects an SDK client via in-memory
// transports, and returns the client session. The server runs in a background
// goroutine tied to t.Cleanup.
func setupTestClient(t *testing.T, tools ...toolbox.Tool) *mcp.ClientSession {
	t.Helper()

	s := New("test-server", "1.0.0", nil)
	s.Register(tools...)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.run(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func calculatorTools() []toolbox.Tool {
	return calctools.New(session.New(session.Options{ID: "mcp"})).Tools()
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestListTools(t *testing.T) {
	cs := setupTestClient(t, calculatorTools()...)

	result, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"press", "calculate", "display", "state", "clear"} {
		assert.True(t, names[want], "missing tool %q", want)
	}
}

func TestPressAcrossCalls(t *testing.T) {
	cs := setupTestClient(t, calculatorTools()...)
	ctx := context.Background()

	result, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "press",
		Arguments: map[string]any{"keys": "6*"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "6", textOf(t, result))

	result, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "press",
		Arguments: map[string]any{"keys": "7="},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", textOf(t, result))

	result, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "display", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, "42", textOf(t, result))
}

func TestCalculateDivisionByZero(t *testing.T) {
	cs := setupTestClient(t, calculatorTools()...)

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "calculate",
		Arguments: map[string]any{"keys": "5/0="},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Error", textOf(t, result))
}

func TestToolCallHandlerError(t *testing.T) {
	cs := setupTestClient(t, toolbox.Tool{
		Name:        "fail",
		Description: "Always fails",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     errorHandler,
	})

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "fail",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "tool failed", textOf(t, result))
}

func TestToolCallNotFound(t *testing.T) {
	cs := setupTestClient(t)

	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "missing",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestContextCancellation(t *testing.T) {
	s := New("srv", "1.0.0", nil)
	serverTransport, _ := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.run(ctx, serverTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
