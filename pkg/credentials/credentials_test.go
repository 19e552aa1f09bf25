package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestAuthenticate(t *testing.T) {
	headers := map[string]string{"Authorization": "Basic old"}
	New("k-123").Authenticate(headers)
	if got := headers["Authorization"]; got != "Bearer k-123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer k-123")
	}
}

func TestAuthenticateEmptyKeyIsPassedThrough(t *testing.T) {
	headers := map[string]string{}
	New("").Authenticate(headers)
	if got := headers["Authorization"]; got != "Bearer " {
		t.Errorf("Authorization = %q", got)
	}
}

func TestStringRedactsKey(t *testing.T) {
	creds := New("super-secret")
	for _, s := range []string{creds.String(), fmt.Sprintf("%v", creds), fmt.Sprintf("%#v", creds), fmt.Sprintf("%+v", creds)} {
		if strings.Contains(s, "super-secret") {
			t.Errorf("formatted credentials leaked key: %s", s)
		}
	}
	if New("").String() != "harpaAiApi{apiKey:<unset>}" {
		t.Errorf("unexpected unset rendering: %s", New("").String())
	}
}

func TestHandleSchema(t *testing.T) {
	var req mcp.ReadResourceRequest
	req.Params.URI = SchemaURI

	contents, err := HandleSchema(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleSchema: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}

	var decoded Type
	if err := json.Unmarshal([]byte(text.Text), &decoded); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if decoded.Name != Name || len(decoded.Properties) != 1 || decoded.Properties[0].Name != "apiKey" {
		t.Errorf("unexpected schema: %+v", decoded)
	}
}
