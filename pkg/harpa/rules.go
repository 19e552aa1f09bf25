package harpa

import (
	"fmt"
	"net/http"
	"strings"
)

// GridPath is the endpoint every structured action is posted to
const GridPath = "/grid"

// requiredField names a parameter that must be non-empty
type requiredField struct {
	name  string
	value func(p Params) string
}

// rule is one row of the operation table
type rule struct {
	// method is fixed for grid actions; empty means caller chosen
	method string
	// path is joined to the base URL; empty means the caller's URL
	path string
	// action is the grid discriminator; empty means no body
	action   string
	required []requiredField
	// bind copies operation parameters into the body
	bind func(p Params, body map[string]any) error
	// additional merges AdditionalFields into the body
	additional bool
	// preSend hooks reshape the descriptor after the table is applied
	preSend []func(b *Builder, p Params, d *RequestDescriptor) error
}

var rules = map[Operation]rule{
	OpAPICall: {
		required: []requiredField{
			{name: "url", value: func(p Params) string { return p.URL }},
		},
		preSend: []func(*Builder, Params, *RequestDescriptor) error{
			applyMethod,
			applyURL,
			applyHeadersAndQuery,
		},
	},
	OpPingNode: {
		method:     http.MethodPost,
		path:       GridPath,
		action:     "ping",
		bind:       bindPing,
		additional: true,
	},
	OpRunCommand: {
		method: http.MethodPost,
		path:   GridPath,
		action: "command",
		required: []requiredField{
			{name: "commandName", value: func(p Params) string { return p.CommandName }},
		},
		bind:       bindCommand,
		additional: true,
	},
	OpScrapePage: {
		method: http.MethodPost,
		path:   GridPath,
		action: "scrape",
		required: []requiredField{
			{name: "url", value: func(p Params) string { return p.ScrapeURL }},
		},
		bind:       bindScrape,
		additional: true,
	},
	OpSearchWeb: {
		method: http.MethodPost,
		path:   GridPath,
		action: "serp",
		required: []requiredField{
			{name: "searchQuery", value: func(p Params) string { return p.SearchQuery }},
		},
		bind:       bindSearch,
		additional: true,
	},
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// DefaultMethod is used by apiCall when no method is given
const DefaultMethod = http.MethodPost

func applyMethod(_ *Builder, p Params, d *RequestDescriptor) error {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = DefaultMethod
	}
	if !allowedMethods[method] {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, p.Method)
	}
	d.Method = method
	return nil
}

// applyURL uses absolute URLs verbatim and resolves "/path" against the base URL
func applyURL(b *Builder, p Params, d *RequestDescriptor) error {
	target := strings.TrimSpace(p.URL)
	if strings.HasPrefix(target, "/") {
		target = b.join(target)
	}
	d.URL = target
	return nil
}

func applyHeadersAndQuery(_ *Builder, p Params, d *RequestDescriptor) error {
	for key, value := range Fold(p.Headers) {
		d.Headers[key] = value
	}
	d.Query = Fold(p.QueryParameters)
	return nil
}

// bindPing sets the ping node field. A non-empty additional nodeId is
// merged afterwards and wins.
func bindPing(p Params, body map[string]any) error {
	if p.PingNodeID != "" {
		body["node"] = p.PingNodeID
	}
	return nil
}

func bindCommand(p Params, body map[string]any) error {
	body["name"] = p.CommandName
	if len(p.CommandInputs) > 0 {
		body["inputs"] = append([]string(nil), p.CommandInputs...)
	}
	if p.CommandURL != "" {
		body["url"] = p.CommandURL
	}
	if p.ResultParam != "" {
		body["resultParam"] = p.ResultParam
	}
	return nil
}

func bindScrape(p Params, body map[string]any) error {
	body["url"] = p.ScrapeURL
	if len(p.GrabSelectors) == 0 {
		return nil
	}
	grab := make([]SelectorSpec, len(p.GrabSelectors))
	for i, s := range p.GrabSelectors {
		if strings.TrimSpace(s.Selector) == "" {
			return MissingField(fmt.Sprintf("grabSelectors[%d].selector", i))
		}
		grab[i] = s
	}
	body["grab"] = grab
	return nil
}

func bindSearch(p Params, body map[string]any) error {
	body["query"] = p.SearchQuery
	return nil
}

// applyAdditional merges the shared fields; timeout is always present
func applyAdditional(a AdditionalFields, body map[string]any) {
	if a.NodeID != "" {
		body["node"] = a.NodeID
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	body["timeout"] = timeout
	if a.ResultsWebhook != "" {
		body["resultsWebhook"] = a.ResultsWebhook
	}
}
