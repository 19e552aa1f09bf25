package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	URLResourceURI     = "harpa://webhook/url"
	RecordsResourceURI = "harpa://webhook/records"
)

// Store lists relayed records
type Store interface {
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Register publishes the trigger URL and the most recent records as MCP
// resources. The URL is what users paste into resultsWebhook.
func Register(mcpServer *server.MCPServer, receiver *Receiver, publicURL string, store Store) {
	webhookURL := receiver.URL(publicURL)

	mcpServer.AddResource(
		mcp.NewResource(
			URLResourceURI,
			"Harpa AI Trigger webhook URL",
			mcp.WithResourceDescription("Pass this URL as resultsWebhook to receive action results"),
			mcp.WithMIMEType("text/plain"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "text/plain",
					Text:     webhookURL,
				},
			}, nil
		},
	)

	mcpServer.AddResource(
		mcp.NewResource(
			RecordsResourceURI,
			"Harpa AI Trigger records",
			mcp.WithResourceDescription("Payloads received on the trigger webhook, oldest first"),
			mcp.WithMIMEType("application/json"),
		),
		RecordsHandler(store),
	)

	log.Printf("[Webhook] Trigger URL: %s", webhookURL)
}

// RecordsHandler serves the recent records of store as a JSON array
func RecordsHandler(store Store) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, err := store.Recent(ctx, DefaultMemoryCapacity)
		if err != nil {
			return nil, fmt.Errorf("failed to list webhook records: %w", err)
		}
		if records == nil {
			records = []Record{}
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal webhook records: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
