package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harpa-grid/harpa-mcp/cmd/harpa-client/tools"
	"github.com/harpa-grid/harpa-mcp/pkg/credentials"
	"github.com/harpa-grid/harpa-mcp/pkg/serverinfo"
	"github.com/harpa-grid/harpa-mcp/pkg/webhook"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	serverURL   = flag.String("server", "http://localhost:8080/sse", "MCP server SSE URL")
	timeoutSecs = flag.Int("timeout", 360, "Client timeout in seconds")
	testTool    = flag.String("tool", "pingNode", "Tool to test (apiCall, pingNode, runCommand, scrapePage, searchWeb, all)")
	dryRun      = flag.Bool("dry-run", true, "Ask the server for the request instead of sending it")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSecs)*time.Second)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Client failed: %v", err)
	}
	log.Println("Client operations completed successfully")
}

func run(ctx context.Context) error {
	log.Printf("Connecting to MCP server at %s...", *serverURL)
	sseClient, err := client.NewSSEMCPClient(*serverURL)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %w", err)
	}
	defer sseClient.Close()

	if err := sseClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start SSE client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "harpa-client", Version: "1.0.0"}

	initResult, err := sseClient.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	log.Printf("Connected to %s %s", initResult.ServerInfo.Name, initResult.ServerInfo.Version)

	toolsResult, err := sseClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}
	available := make(map[string]bool, len(toolsResult.Tools))
	log.Printf("Available tools (%d):", len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		available[tool.Name] = true
		log.Printf("  - %s: %s", tool.Name, tool.Description)
	}

	selected := []string{*testTool}
	if *testTool == "all" {
		selected = []string{"pingNode", "searchWeb", "scrapePage", "runCommand", "apiCall"}
	}
	for _, name := range selected {
		if !available[name] {
			log.Printf("Tool %s not found on server", name)
			continue
		}
		if err := tools.TestOperation(ctx, sseClient, name, *dryRun); err != nil {
			return err
		}
	}

	if available["usageStats"] {
		if err := tools.TestUsageStats(ctx, sseClient); err != nil {
			log.Printf("%v", err)
		}
	}

	for _, uri := range []string{serverinfo.ResourceURI, credentials.SchemaURI, webhook.URLResourceURI} {
		_ = ReadResource(ctx, sseClient, uri)
	}
	return nil
}
