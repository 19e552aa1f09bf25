// Package operations exposes the HARPA AI operations as MCP tools. Each
// tool declares its fields and hands the parsed parameters to the request
// builder before sending.
package operations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
	"github.com/mark3labs/mcp-go/mcp"
)

// Doer sends a built request
type Doer interface {
	Do(ctx context.Context, d *harpa.RequestDescriptor) (*harpa.Response, error)
}

// Service builds and sends requests for the tool handlers
type Service struct {
	builder *harpa.Builder
	client  Doer
}

// NewService creates a service. A nil client leaves only dry runs working.
func NewService(builder *harpa.Builder, client Doer) *Service {
	return &Service{builder: builder, client: client}
}

// Execute builds the request for op and sends it. With dryRun set the
// redacted request is returned instead of being sent.
//
// Validation failures come back as errors. Remote errors come back as an
// error result carrying the remote body unmodified.
func (s *Service) Execute(ctx context.Context, op harpa.Operation, params harpa.Params, dryRun bool) (*mcp.CallToolResult, error) {
	d, err := s.builder.Build(op, params)
	if err != nil {
		return nil, err
	}

	if dryRun {
		data, err := json.MarshalIndent(d.Redacted(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	if s.client == nil {
		return nil, fmt.Errorf("no client configured for %s", op)
	}

	resp, err := s.client.Do(ctx, d)
	if err != nil {
		var apiErr *harpa.APIError
		if errors.As(err, &apiErr) {
			log.Printf("[Operations] %s failed with HTTP %d", op, apiErr.StatusCode)
			return mcp.NewToolResultError(formatAPIError(apiErr)), nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Body) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("HTTP %d", resp.StatusCode)), nil
	}
	return mcp.NewToolResultText(string(resp.Body)), nil
}

func formatAPIError(apiErr *harpa.APIError) string {
	if len(apiErr.Body) == 0 {
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	return string(apiErr.Body)
}
