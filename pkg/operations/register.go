package operations

import (
	"context"
	"log"
	"time"

	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
	"github.com/harpa-grid/harpa-mcp/pkg/stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Handler returns the tool handler for op
func (s *Service) Handler(op harpa.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		params, err := ParseParams(op, args)
		if err != nil {
			return nil, err
		}
		return s.Execute(ctx, op, params, boolArg(args, "dryRun"))
	}
}

// HandleHarpa runs the operation named by the "operation" argument. Usage
// is recorded under that operation; unknown names count against "harpa".
func (s *Service) HandleHarpa(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	op, err := harpa.ParseOperation(stringArg(request.GetArguments(), "operation"))
	if err != nil {
		stats.RecordUsage(harpaToolName, time.Now(), true)
		return nil, err
	}
	return stats.WrapHandler(string(op), s.Handler(op))(ctx, request)
}

// Tools returns every operation tool, wrapped with usage tracking
func (s *Service) Tools() []server.ServerTool {
	declared := map[harpa.Operation]func() mcp.Tool{
		harpa.OpAPICall:    apiCallTool,
		harpa.OpPingNode:   pingNodeTool,
		harpa.OpRunCommand: runCommandTool,
		harpa.OpScrapePage: scrapePageTool,
		harpa.OpSearchWeb:  searchWebTool,
	}

	tools := make([]server.ServerTool, 0, len(harpa.Operations)+1)
	for _, op := range harpa.Operations {
		tools = append(tools, server.ServerTool{
			Tool:    declared[op](),
			Handler: stats.WrapHandler(string(op), s.Handler(op)),
		})
	}
	tools = append(tools, server.ServerTool{
		Tool:    harpaTool(),
		Handler: s.HandleHarpa,
	})
	return tools
}

// Register adds the operation tools to mcpServer
func Register(mcpServer *server.MCPServer, s *Service) {
	tools := s.Tools()
	mcpServer.AddTools(tools...)
	log.Printf("[Operations] Registered %d tools", len(tools))
}
