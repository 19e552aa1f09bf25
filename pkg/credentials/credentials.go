// Package credentials declares the HARPA AI API credential type and applies
// it to outgoing requests.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	Name             = "harpaAiApi"
	DisplayName      = "Harpa AI API"
	DocumentationURL = "https://harpa.ai/grid/grid-rest-api-reference"

	// SchemaURI is the resource URI the credential schema is published under
	SchemaURI = "harpa://credentials/schema"
)

// Property describes one field of the credential form
type Property struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Secret      bool   `json:"secret"`
}

// Type is the declared credential schema
type Type struct {
	Name             string     `json:"name"`
	DisplayName      string     `json:"displayName"`
	DocumentationURL string     `json:"documentationUrl"`
	Properties       []Property `json:"properties"`
	Authenticate     string     `json:"authenticate"`
}

// Schema is the credential declaration for the HARPA AI API
var Schema = Type{
	Name:             Name,
	DisplayName:      DisplayName,
	DocumentationURL: DocumentationURL,
	Properties: []Property{
		{DisplayName: "API Key", Name: "apiKey", Type: "string", Secret: true},
	},
	Authenticate: "header Authorization: Bearer {apiKey}",
}

// Credentials carries the opaque API key. It is never inspected or validated.
type Credentials struct {
	APIKey string
}

// New wraps an API key
func New(apiKey string) Credentials {
	return Credentials{APIKey: apiKey}
}

// Authenticate sets the bearer Authorization header
func (c Credentials) Authenticate(headers map[string]string) {
	headers["Authorization"] = "Bearer " + c.APIKey
}

// String keeps the key out of logs and formatted errors
func (c Credentials) String() string {
	if c.APIKey == "" {
		return Name + "{apiKey:<unset>}"
	}
	return Name + "{apiKey:****}"
}

// GoString keeps the key out of %#v output
func (c Credentials) GoString() string {
	return c.String()
}

// HandleSchema serves the credential schema as JSON
func HandleSchema(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(Schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential schema: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// RegisterSchema publishes the credential schema as an MCP resource
func RegisterSchema(mcpServer *server.MCPServer) {
	mcpServer.AddResource(
		mcp.NewResource(
			SchemaURI,
			DisplayName+" credential",
			mcp.WithResourceDescription("Credential fields required by the Harpa AI operations"),
			mcp.WithMIMEType("application/json"),
		),
		HandleSchema,
	)
	log.Printf("[Credentials] Registered credential schema %s", Name)
}
