// Package tools exercises the HARPA AI tools of a running server
package tools

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

type testCase struct {
	name      string
	arguments map[string]any
}

// Samples holds example arguments for every operation tool
var Samples = map[string][]testCase{
	"pingNode": {
		{name: "Ping default node", arguments: map[string]any{}},
	},
	"searchWeb": {
		{name: "Basic search", arguments: map[string]any{"searchQuery": "golang mcp server"}},
		{name: "Search on a node", arguments: map[string]any{"searchQuery": "site:go.dev generics", "nodeId": "1"}},
	},
	"scrapePage": {
		{name: "Whole page", arguments: map[string]any{"url": "https://example.com"}},
		{
			name: "Selected headings",
			arguments: map[string]any{
				"url": "https://example.com",
				"grabSelectors": []any{
					map[string]any{"selector": "h1", "label": "title"},
					map[string]any{"selector": "a", "at": "all", "take": "href", "label": "links"},
				},
			},
		},
	},
	"runCommand": {
		{
			name: "Summary",
			arguments: map[string]any{
				"commandName":   "Summary",
				"commandInputs": []any{"DEFAULT"},
				"url":           "https://example.com",
			},
		},
	},
	"apiCall": {
		{
			name: "Raw grid ping",
			arguments: map[string]any{
				"method": "POST",
				"url":    "/grid",
				"headers": []any{
					map[string]any{"key": "X-Client", "value": "harpa-client"},
				},
			},
		},
	},
}

// TestOperation calls tool with each of its sample arguments
func TestOperation(ctx context.Context, c client.MCPClient, tool string, dryRun bool) error {
	cases, ok := Samples[tool]
	if !ok {
		return fmt.Errorf("no samples for tool %s", tool)
	}

	for _, tc := range cases {
		log.Printf("Running %s test: %s", tool, tc.name)

		arguments := make(map[string]any, len(tc.arguments)+1)
		for k, v := range tc.arguments {
			arguments[k] = v
		}
		if dryRun {
			arguments["dryRun"] = true
		}

		callReq := mcp.CallToolRequest{}
		callReq.Params.Name = tool
		callReq.Params.Arguments = arguments

		result, err := c.CallTool(ctx, callReq)
		if err != nil {
			log.Printf("Failed to call %s: %v", tool, err)
			continue
		}
		logResult(tool, result)
	}
	return nil
}

// TestUsageStats prints the usage statistics tool output
func TestUsageStats(ctx context.Context, c client.MCPClient) error {
	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = "usageStats"

	result, err := c.CallTool(ctx, callReq)
	if err != nil {
		return fmt.Errorf("failed to call usageStats: %w", err)
	}
	logResult("usageStats", result)
	return nil
}

func logResult(tool string, result *mcp.CallToolResult) {
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			if result.IsError {
				log.Printf("%s returned an error:\n%s", tool, text.Text)
			} else {
				log.Printf("%s result:\n%s", tool, text.Text)
			}
		}
	}
}
