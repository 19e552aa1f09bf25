package harpa

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/harpa-grid/harpa-mcp/pkg/config"
)

// Response is a successful reply from the remote API, passed through as is
type Response struct {
	StatusCode  int               `json:"status_code"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers"`
	Body        []byte            `json:"-"`
}

// TimeoutSlack is added to a grid action's timeout to form the local deadline
const TimeoutSlack = 30 * time.Second

// Client sends descriptors. It makes exactly one attempt per call.
type Client struct {
	httpClient      *http.Client
	userAgent       string
	timeout         time.Duration
	maxResponseSize int64
}

// NewClient creates a client from the shared configuration
func NewClient(cfg config.Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxResponseSize
	}
	return &Client{
		httpClient:      &http.Client{},
		userAgent:       cfg.UserAgent,
		timeout:         timeout,
		maxResponseSize: maxSize,
	}
}

// Do sends d. Non-2xx replies come back as *APIError with the body intact.
func (c *Client) Do(ctx context.Context, d *RequestDescriptor) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadline(d))
	defer cancel()

	req, err := d.NewHTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Printf("[Harpa] %s %s", req.Method, req.URL.Redacted())
	startTime := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("harpa: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("harpa: read response body: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, fmt.Errorf("harpa: %w: more than %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}

	log.Printf("[Harpa] %s %s -> %d (%d bytes) in %v",
		req.Method, req.URL.Path, resp.StatusCode, len(body), time.Since(startTime).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	response := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Headers:     make(map[string]string),
		Body:        body,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			response.Headers[key] = values[0]
		}
	}
	return response, nil
}

// deadline is the configured timeout, or the body timeout plus
// TimeoutSlack when that is longer
func (c *Client) deadline(d *RequestDescriptor) time.Duration {
	limit := c.timeout
	if ms := bodyTimeout(d.Body); ms > 0 {
		if remote := time.Duration(ms)*time.Millisecond + TimeoutSlack; remote > limit {
			limit = remote
		}
	}
	return limit
}

func bodyTimeout(body map[string]any) int64 {
	switch v := body["timeout"].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
