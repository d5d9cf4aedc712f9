package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	server := newMCPServer("test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = server.Run(ctx, serverT) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "gitbookconverter-test", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any, out any) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "tool %s returned an error", name)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestMCP_ListTools(t *testing.T) {
	session := mcpSession(t)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
		assert.True(t, tool.Annotations.ReadOnlyHint, "%s should be read-only", tool.Name)
	}
	assert.Equal(t, map[string]bool{"clean_mdx": true, "sanitize_path": true}, names)
}

func TestMCP_CleanMDX(t *testing.T) {
	session := mcpSession(t)

	var out CleanMDXOutput
	callTool(t, session, "clean_mdx", map[string]any{"text": "import X from 'x'\n<X>Body {y}</X>\n"}, &out)

	assert.Equal(t, "Body \n", out.Text)
}

func TestMCP_SanitizePath(t *testing.T) {
	session := mcpSession(t)

	var out SanitizePathOutput
	callTool(t, session, "sanitize_path", map[string]any{"paths": []string{
		"Roadmap 0123456789abcdef0123456789abcdef.md",
		"",
	}}, &out)

	assert.Equal(t, []string{"Roadmap.md", "untitled"}, out.Paths)
}

func TestHandleSanitizePath_Empty(t *testing.T) {
	_, out, err := handleSanitizePath(context.Background(), nil, SanitizePathInput{})

	require.NoError(t, err)
	assert.Empty(t, out.Paths)
}
