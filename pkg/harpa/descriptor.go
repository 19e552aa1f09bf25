package harpa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/harpa-grid/harpa-mcp/pkg/config"
)

// DefaultBaseURL is prepended to every grid path
const DefaultBaseURL = config.DefaultBaseURL

// RequestDescriptor is the single output of the builder
type RequestDescriptor struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Body    map[string]any    `json:"body,omitempty"`
}

// EncodeBody returns the JSON body, or nil when the descriptor has none
func (d *RequestDescriptor) EncodeBody() ([]byte, error) {
	if d.Body == nil {
		return nil, nil
	}
	data, err := json.Marshal(d.Body)
	if err != nil {
		return nil, fmt.Errorf("harpa: encode body: %w", err)
	}
	return data, nil
}

// NewHTTPRequest converts the descriptor into an *http.Request
func (d *RequestDescriptor) NewHTTPRequest(ctx context.Context) (*http.Request, error) {
	target, err := url.Parse(d.URL)
	if err != nil {
		return nil, fmt.Errorf("harpa: parse url: %w", err)
	}
	if len(d.Query) > 0 {
		q := target.Query()
		for key, value := range d.Query {
			q.Set(key, value)
		}
		target.RawQuery = q.Encode()
	}

	data, err := d.EncodeBody()
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("harpa: new request: %w", err)
	}
	for key, value := range d.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Redacted returns a copy safe to log or show, with the credential masked
func (d *RequestDescriptor) Redacted() *RequestDescriptor {
	out := *d
	out.Headers = make(map[string]string, len(d.Headers))
	for key, value := range d.Headers {
		if strings.EqualFold(key, "Authorization") {
			value = "Bearer ****"
		}
		out.Headers[key] = value
	}
	return &out
}
