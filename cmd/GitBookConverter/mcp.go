package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// CleanMDXInput is the input for the clean_mdx tool.
type CleanMDXInput struct {
	Text string `json:"text" jsonschema:"MDX source to clean"`
}

// CleanMDXOutput is the output for the clean_mdx tool.
type CleanMDXOutput struct {
	Text string `json:"text" jsonschema:"Markdown left after removing JSX, expressions and import/export lines"`
}

// SanitizePathInput is the input for the sanitize_path tool.
type SanitizePathInput struct {
	Paths []string `json:"paths" jsonschema:"relative paths from a Notion export"`
}

// SanitizePathOutput is the output for the sanitize_path tool.
type SanitizePathOutput struct {
	Paths []string `json:"paths" jsonschema:"sanitized paths in the same order"`
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run GitBookConverter as a Model Context Protocol (MCP) server over stdio.

Available tools: clean_mdx, sanitize_path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newMCPServer(version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// newMCPServer creates an MCP server with the conversion tools registered.
func newMCPServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gitbookconverter",
		Version: version,
	}, nil)

	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clean_mdx",
		Description: "Strip JSX tags, {expressions} and import/export lines from MDX text, leaving plain Markdown.",
		Annotations: readOnly,
	}, handleCleanMDX)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sanitize_path",
		Description: "Sanitize Notion export paths: remove page identifiers, replace spaces and reserved characters with hyphens and drop non-ASCII characters.",
		Annotations: readOnly,
	}, handleSanitizePath)

	return server
}

func handleCleanMDX(_ context.Context, _ *mcp.CallToolRequest, input CleanMDXInput) (*mcp.CallToolResult, CleanMDXOutput, error) {
	return nil, CleanMDXOutput{Text: gitbookconverter.CleanMDX(input.Text)}, nil
}

func handleSanitizePath(_ context.Context, _ *mcp.CallToolRequest, input SanitizePathInput) (*mcp.CallToolResult, SanitizePathOutput, error) {
	paths := make([]string, len(input.Paths))
	for i, path := range input.Paths {
		paths[i] = gitbookconverter.SanitizePath(path)
	}
	return nil, SanitizePathOutput{Paths: paths}, nil
}
