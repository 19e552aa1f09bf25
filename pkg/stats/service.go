package stats

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/harpa-grid/harpa-mcp/pkg/webhook"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WebhookOperation is the name webhook deliveries are recorded under
const WebhookOperation = "webhook"

var (
	// Global stats manager instance
	globalStatsManager *StatsManager
)

// InitStatsManager initializes the global stats manager
func InitStatsManager(dataDir string) error {
	statsFilePath := filepath.Join(dataDir, "stats.json")
	var err error
	globalStatsManager, err = NewStatsManager(statsFilePath)
	return err
}

// GetStatsManager returns the global stats manager
func GetStatsManager() *StatsManager {
	return globalStatsManager
}

// RecordUsage records one call against the global manager
func RecordUsage(name string, startTime time.Time, failed bool) {
	if globalStatsManager == nil {
		return
	}

	executionTime := time.Since(startTime)
	if err := globalStatsManager.RecordUsage(name, executionTime, failed); err != nil {
		// Log the error but don't fail the request
		log.Printf("[Stats] Failed to record usage of '%s': %v", name, err)
	}
}

// WrapHandler wraps a tool handler with stats tracking
func WrapHandler(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		result, err := handler(ctx, request)
		failed := err != nil || (result != nil && result.IsError)
		if err != nil {
			log.Printf("[Stats] Error executing operation '%s': %v", name, err)
		}

		RecordUsage(name, startTime, failed)
		return result, err
	}
}

// WebhookSink counts relayed webhook records
type WebhookSink struct{}

// Emit records one webhook delivery
func (WebhookSink) Emit(_ context.Context, _ webhook.Record) error {
	RecordUsage(WebhookOperation, time.Now(), false)
	return nil
}

// HandleGetStats handles requests to get operation usage statistics
func HandleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if globalStatsManager == nil {
		return nil, fmt.Errorf("stats manager not initialized")
	}

	sessionStats := globalStatsManager.GetSessionStats()
	persistentStats := globalStatsManager.GetPersistentStats()

	if reset, ok := request.GetArguments()["reset_session"].(bool); ok && reset {
		globalStatsManager.ResetSessionStats()
		log.Printf("[Stats] Session statistics reset")
	}

	return mcp.NewToolResultText(FormatStats(sessionStats, persistentStats)), nil
}

// RegisterStats registers the stats tool with the MCP server
func RegisterStats(mcpServer *server.MCPServer, dataDir string) error {
	if err := InitStatsManager(dataDir); err != nil {
		return err
	}

	statsTool := mcp.NewTool("usageStats",
		mcp.WithDescription("Shows how often each Harpa AI operation was called, failures and latency"),
		mcp.WithBoolean("reset_session",
			mcp.Description("Reset the session statistics after reporting them (default: false)"),
		),
	)

	mcpServer.AddTool(statsTool, HandleGetStats)
	return nil
}
