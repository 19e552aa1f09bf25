package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harpa-grid/harpa-mcp/pkg/config"
	"github.com/harpa-grid/harpa-mcp/pkg/credentials"
	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
	"github.com/harpa-grid/harpa-mcp/pkg/operations"
	"github.com/harpa-grid/harpa-mcp/pkg/serverinfo"
	"github.com/harpa-grid/harpa-mcp/pkg/stats"
	"github.com/harpa-grid/harpa-mcp/pkg/webhook"
	"github.com/mark3labs/mcp-go/server"
)

var (
	port         = flag.Int("port", 8080, "Port to listen on")
	baseURL      = flag.String("baseurl", "", "Public base URL of this server (e.g., http://localhost:8080)")
	serverName   = flag.String("name", "HARPA AI MCP Server", "Server name")
	serverVer    = flag.String("version", "1.0.0", "Server version")
	instructions = flag.String("instructions", "Automate web browsing, scraping and AI commands through HARPA AI nodes.", "Server instructions")
	configPath   = flag.String("config", "", "Path to a YAML config file")
	dataDir      = flag.String("data-dir", filepath.Join(".", "data"), "Directory to store data files")
	stdio        = flag.Bool("stdio", false, "Serve MCP over stdin/stdout; HTTP only serves the webhook")
	webhookID    = flag.String("webhook-id", "", "Webhook ID for the trigger URL (generated when empty)")
	webhookDB    = flag.String("webhook-db", "", "SQLite database for webhook records (in memory only when empty)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *webhookID != "" {
		cfg.WebhookID = *webhookID
	}
	if *webhookDB != "" {
		cfg.WebhookDB = *webhookDB
	}
	if cfg.APIKey == "" {
		log.Printf("[Server] HARPA_API_KEY is not set; only dry runs will succeed")
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	publicURL := *baseURL
	if publicURL == "" {
		publicURL = cfg.PublicURL
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", *port)
	}

	mcpServer := server.NewMCPServer(
		*serverName,
		*serverVer,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithInstructions(*instructions),
	)

	if err := stats.RegisterStats(mcpServer, *dataDir); err != nil {
		log.Fatalf("Failed to register stats tool: %v", err)
	}

	creds := credentials.New(cfg.APIKey)
	builder := harpa.NewBuilder(cfg.BaseURL, creds)
	operations.Register(mcpServer, operations.NewService(builder, harpa.NewClient(cfg)))
	credentials.RegisterSchema(mcpServer)
	serverinfo.RegisterServerInfo(mcpServer, *serverName, *serverVer, builder.BaseURL())

	// Webhook sinks, durable first: optional SQLite, then memory and stats
	memory := webhook.NewMemorySink(webhook.DefaultMemoryCapacity)
	var sinks []webhook.Sink
	var store webhook.Store = memory
	if cfg.WebhookDB != "" {
		sqliteSink, err := webhook.OpenSQLiteSink(context.Background(), cfg.WebhookDB)
		if err != nil {
			log.Fatalf("Failed to open webhook database: %v", err)
		}
		defer sqliteSink.Close()
		sinks = append(sinks, sqliteSink)
		store = sqliteSink
	}
	sinks = append(sinks, memory, stats.WebhookSink{})
	receiver := webhook.NewReceiver(cfg.WebhookID, sinks...)
	webhook.Register(mcpServer, receiver, publicURL, store)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	receiver.Mount(router)

	if !*stdio {
		sseServer := server.NewSSEServer(
			mcpServer,
			server.WithBaseURL(publicURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
		)
		router.Handle("/*", sseServer)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	// Set up signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[Server] Listening on port %d...", *port)
		log.Printf("[Server] Base URL: %s", publicURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] Failed to start server: %v", err)
		}
	}()

	if *stdio {
		go func() {
			log.Printf("[Server] Serving MCP over stdio")
			if err := server.ServeStdio(mcpServer); err != nil {
				log.Printf("[Server] Stdio server stopped: %v", err)
			}
			stop <- syscall.SIGTERM
		}()
	}

	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Println("[Server] Shutting down server...")

	if statsManager := stats.GetStatsManager(); statsManager != nil {
		statsText := stats.FormatStats(statsManager.GetSessionStats(), statsManager.GetPersistentStats())
		log.Printf("[Server] Final usage statistics:\n%s", statsText)
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Server shutdown failed: %v", err)
	}
	log.Println("[Server] Server stopped")
}
