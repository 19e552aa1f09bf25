// Package harpa turns operation parameters into requests against the
// HARPA AI grid API and sends them.
package harpa

import (
	"strings"
)

// Authenticator adds credentials to the headers of a request
type Authenticator interface {
	Authenticate(headers map[string]string)
}

// Builder produces request descriptors. It holds no per-request state and
// is safe for concurrent use.
type Builder struct {
	baseURL string
	auth    Authenticator
}

// NewBuilder creates a builder for the given base URL. An empty base URL
// falls back to DefaultBaseURL.
func NewBuilder(baseURL string, auth Authenticator) *Builder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
	}
}

// BaseURL returns the base URL grid paths are joined to
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// Build produces exactly one descriptor for op, or an error before any
// request exists.
func (b *Builder) Build(op Operation, p Params) (*RequestDescriptor, error) {
	r, ok := rules[op]
	if !ok {
		return nil, unknownOperation(string(op))
	}

	for _, field := range r.required {
		if strings.TrimSpace(field.value(p)) == "" {
			return nil, MissingField(field.name)
		}
	}

	d := &RequestDescriptor{
		Method:  r.method,
		Headers: defaultHeaders(),
	}
	if r.path != "" {
		d.URL = b.join(r.path)
	}

	if r.action != "" {
		body := map[string]any{"action": r.action}
		if r.bind != nil {
			if err := r.bind(p, body); err != nil {
				return nil, err
			}
		}
		if r.additional {
			applyAdditional(p.Additional, body)
		}
		d.Body = body
	}

	for _, hook := range r.preSend {
		if err := hook(b, p, d); err != nil {
			return nil, err
		}
	}

	if b.auth != nil {
		b.auth.Authenticate(d.Headers)
	}
	return d, nil
}

func (b *Builder) join(path string) string {
	return b.baseURL + "/" + strings.TrimLeft(path, "/")
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}
