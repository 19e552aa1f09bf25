package harpa

import (
	"errors"
	"reflect"
	"testing"

	"github.com/harpa-grid/harpa-mcp/pkg/credentials"
)

func newTestBuilder() *Builder {
	return NewBuilder("", credentials.New("test-key"))
}

func TestBuildRunCommandDefaults(t *testing.T) {
	d, err := newTestBuilder().Build(OpRunCommand, Params{CommandName: "summarize"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]any{"action": "command", "name": "summarize", "timeout": 300000}
	if !reflect.DeepEqual(d.Body, want) {
		t.Errorf("body = %#v, want %#v", d.Body, want)
	}
	if d.Method != "POST" {
		t.Errorf("method = %q, want POST", d.Method)
	}
	if d.URL != "https://api.harpa.ai/api/v1/grid" {
		t.Errorf("url = %q", d.URL)
	}
}

func TestBuildRunCommandOptionalFields(t *testing.T) {
	d, err := newTestBuilder().Build(OpRunCommand, Params{
		CommandName:   "summarize",
		CommandInputs: []string{"in short", "english"},
		CommandURL:    "https://example.com",
		ResultParam:   "g.data.email",
		Additional:    AdditionalFields{NodeID: "r2", Timeout: 15000, ResultsWebhook: "https://hooks.example/x"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]any{
		"action":         "command",
		"name":           "summarize",
		"inputs":         []string{"in short", "english"},
		"url":            "https://example.com",
		"resultParam":    "g.data.email",
		"node":           "r2",
		"timeout":        15000,
		"resultsWebhook": "https://hooks.example/x",
	}
	if !reflect.DeepEqual(d.Body, want) {
		t.Errorf("body = %#v, want %#v", d.Body, want)
	}
}

func TestBuildPingNode(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantNode any
	}{
		{name: "no node", params: Params{}, wantNode: nil},
		{name: "additional node", params: Params{Additional: AdditionalFields{NodeID: "x91k t3od"}}, wantNode: "x91k t3od"},
		{name: "ping node field", params: Params{PingNodeID: "first"}, wantNode: "first"},
		{name: "additional wins", params: Params{PingNodeID: "first", Additional: AdditionalFields{NodeID: "*"}}, wantNode: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newTestBuilder().Build(OpPingNode, tt.params)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			node, ok := d.Body["node"]
			if tt.wantNode == nil {
				if ok {
					t.Errorf("body.node = %v, want omitted", node)
				}
				return
			}
			if node != tt.wantNode {
				t.Errorf("body.node = %v, want %v", node, tt.wantNode)
			}
			if d.Body["action"] != "ping" || d.Body["timeout"] != DefaultTimeout {
				t.Errorf("unexpected body %#v", d.Body)
			}
		})
	}
}

func TestBuildScrapePagePreservesSelectors(t *testing.T) {
	selectors := []SelectorSpec{
		{Selector: "h1", SelectorType: SelectorCSS, At: AtFirst, Take: TakeInnerText, Label: "title"},
		{Selector: "//a", SelectorType: SelectorXPath, At: AtAll, Take: TakeHref, Label: "links"},
		{Selector: "Price", SelectorType: SelectorText, At: AtLast, Take: TakeOuterHTML, Label: "price"},
	}

	d, err := newTestBuilder().Build(OpScrapePage, Params{ScrapeURL: "https://example.com", GrabSelectors: selectors})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	grab, ok := d.Body["grab"].([]SelectorSpec)
	if !ok {
		t.Fatalf("body.grab has type %T", d.Body["grab"])
	}
	if !reflect.DeepEqual(grab, selectors) {
		t.Errorf("grab = %#v, want %#v", grab, selectors)
	}
	if d.Body["url"] != "https://example.com" || d.Body["action"] != "scrape" {
		t.Errorf("unexpected body %#v", d.Body)
	}

	// the body owns its copy
	selectors[0].Selector = "changed"
	if grab[0].Selector != "h1" {
		t.Error("grab aliases the caller's slice")
	}
}

func TestBuildScrapePageWithoutSelectors(t *testing.T) {
	d, err := newTestBuilder().Build(OpScrapePage, Params{ScrapeURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := d.Body["grab"]; ok {
		t.Errorf("body.grab present for empty selector list: %#v", d.Body)
	}
}

func TestBuildScrapePageEmptySelector(t *testing.T) {
	_, err := newTestBuilder().Build(OpScrapePage, Params{
		ScrapeURL:     "https://example.com",
		GrabSelectors: []SelectorSpec{{Selector: "h1"}, {Selector: " "}},
	})
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingFieldError", err)
	}
	if missing.Field != "grabSelectors[1].selector" {
		t.Errorf("field = %q", missing.Field)
	}
}

func TestBuildSearchWeb(t *testing.T) {
	d, err := newTestBuilder().Build(OpSearchWeb, Params{SearchQuery: "go generics"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := map[string]any{"action": "serp", "query": "go generics", "timeout": 300000}
	if !reflect.DeepEqual(d.Body, want) {
		t.Errorf("body = %#v, want %#v", d.Body, want)
	}
}

func TestBuildMissingRequiredFields(t *testing.T) {
	tests := []struct {
		op    Operation
		field string
	}{
		{OpSearchWeb, "searchQuery"},
		{OpRunCommand, "commandName"},
		{OpScrapePage, "url"},
		{OpAPICall, "url"},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			d, err := newTestBuilder().Build(tt.op, Params{})
			if d != nil {
				t.Errorf("descriptor produced despite error: %#v", d)
			}
			if !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("err = %v, want ErrMissingRequiredField", err)
			}
			var missing *MissingFieldError
			if !errors.As(err, &missing) || missing.Field != tt.field {
				t.Errorf("err = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestBuildAPICall(t *testing.T) {
	d, err := newTestBuilder().Build(OpAPICall, Params{
		Method: "put",
		URL:    "https://api.harpa.ai/api/v1/nodes",
		Headers: []KeyValuePair{
			{Key: "A", Value: "1"},
			{Key: "A", Value: "2"},
			{Key: "X-Trace", Value: "t"},
		},
		QueryParameters: []KeyValuePair{{Key: "page", Value: "1"}, {Key: "page", Value: "3"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if d.Method != "PUT" {
		t.Errorf("method = %q", d.Method)
	}
	if d.URL != "https://api.harpa.ai/api/v1/nodes" {
		t.Errorf("url = %q", d.URL)
	}
	if d.Headers["A"] != "2" || d.Headers["X-Trace"] != "t" {
		t.Errorf("headers = %#v", d.Headers)
	}
	if !reflect.DeepEqual(d.Query, map[string]string{"page": "3"}) {
		t.Errorf("query = %#v", d.Query)
	}
	if d.Body != nil {
		t.Errorf("body = %#v, want none", d.Body)
	}
}

func TestBuildAPICallDefaults(t *testing.T) {
	d, err := newTestBuilder().Build(OpAPICall, Params{URL: "/grid"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Method != DefaultMethod {
		t.Errorf("method = %q, want %q", d.Method, DefaultMethod)
	}
	if d.URL != "https://api.harpa.ai/api/v1/grid" {
		t.Errorf("url = %q", d.URL)
	}
	if d.Query != nil {
		t.Errorf("query = %#v, want omitted", d.Query)
	}
	if _, ok := d.Body["timeout"]; ok {
		t.Error("apiCall must not carry additional fields")
	}
}

func TestBuildAPICallUnsupportedMethod(t *testing.T) {
	_, err := newTestBuilder().Build(OpAPICall, Params{URL: "https://x", Method: "TRACE"})
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("err = %v, want ErrUnsupportedMethod", err)
	}
}

func TestBuildHeaders(t *testing.T) {
	for _, op := range Operations {
		t.Run(string(op), func(t *testing.T) {
			d, err := newTestBuilder().Build(op, Params{
				URL:         "https://example.com",
				CommandName: "c",
				ScrapeURL:   "https://example.com",
				SearchQuery: "q",
				Headers:     []KeyValuePair{{Key: "Authorization", Value: "spoofed"}},
			})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if d.Headers["Authorization"] != "Bearer test-key" {
				t.Errorf("Authorization = %q", d.Headers["Authorization"])
			}
			if d.Headers["Accept"] != "application/json" || d.Headers["Content-Type"] != "application/json" {
				t.Errorf("headers = %#v", d.Headers)
			}
		})
	}
}

func TestBuildCustomBaseURL(t *testing.T) {
	d, err := NewBuilder("http://localhost:8081/api/v1/", nil).Build(OpSearchWeb, Params{SearchQuery: "q"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.URL != "http://localhost:8081/api/v1/grid" {
		t.Errorf("url = %q", d.URL)
	}
	if _, ok := d.Headers["Authorization"]; ok {
		t.Error("no authenticator, no Authorization header expected")
	}
}

func TestBuildUnknownOperation(t *testing.T) {
	_, err := newTestBuilder().Build(Operation("deleteNode"), Params{})
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestFold(t *testing.T) {
	if got := Fold(nil); got != nil {
		t.Errorf("Fold(nil) = %#v, want nil", got)
	}
	got := Fold([]KeyValuePair{{Key: "A", Value: "1"}, {Key: "A", Value: "2"}})
	if !reflect.DeepEqual(got, map[string]string{"A": "2"}) {
		t.Errorf("Fold = %#v", got)
	}
}
