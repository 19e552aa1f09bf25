package serverinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/harpa-grid/harpa-mcp/pkg/credentials"
	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ResourceURI identifies the plugin info resource
const ResourceURI = "harpa://plugin/info"

// Info describes the running plugin
type Info struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Operations    []string `json:"operations"`
	Credential    string   `json:"credential"`
	BaseURL       string   `json:"base_url"`
	Timestamp     string   `json:"timestamp"`
	GoVersion     string   `json:"go_version"`
	OS            string   `json:"os"`
	Architecture  string   `json:"architecture"`
	Goroutines    int      `json:"goroutines"`
	AllocMB       float64  `json:"alloc_mb"`
	UptimeSeconds float64  `json:"uptime_seconds"`
}

// startTime is used to calculate uptime
var startTime = time.Now()

// Collect gathers the current plugin information
func Collect(name, version, baseURL string) Info {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	ops := make([]string, len(harpa.Operations))
	for i, op := range harpa.Operations {
		ops[i] = string(op)
	}

	return Info{
		Name:          name,
		Version:       version,
		Operations:    ops,
		Credential:    credentials.Name,
		BaseURL:       baseURL,
		Timestamp:     time.Now().Format(time.RFC3339),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Architecture:  runtime.GOARCH,
		Goroutines:    runtime.NumGoroutine(),
		AllocMB:       float64(memStats.Alloc) / 1024 / 1024,
		UptimeSeconds: time.Since(startTime).Seconds(),
	}
}

// Handler serves the plugin info as JSON
func Handler(name, version, baseURL string) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.MarshalIndent(Collect(name, version, baseURL), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plugin info: %w", err)
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

// RegisterServerInfo registers the plugin info resource with the MCP server
func RegisterServerInfo(mcpServer *server.MCPServer, name, version, baseURL string) {
	mcpServer.AddResource(
		mcp.NewResource(
			ResourceURI,
			"HARPA AI plugin information",
			mcp.WithResourceDescription("Operations, credential type, API base URL and runtime details"),
			mcp.WithMIMEType("application/json"),
		),
		Handler(name, version, baseURL),
	)
}
