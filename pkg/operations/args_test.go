package operations

import (
	"errors"
	"reflect"
	"testing"

	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
)

func TestSelectorArgDefaults(t *testing.T) {
	args := map[string]any{
		"grabSelectors": []any{
			map[string]any{"selector": "h1"},
			map[string]any{"selector": "//a", "selectorType": "xpath", "at": "all", "take": "href", "label": "links"},
		},
	}

	got, err := selectorArg(args)
	if err != nil {
		t.Fatalf("selectorArg: %v", err)
	}
	want := []harpa.SelectorSpec{
		{Selector: "h1", SelectorType: harpa.SelectorAuto, At: harpa.AtFirst, Take: harpa.TakeInnerText, Label: "data"},
		{Selector: "//a", SelectorType: harpa.SelectorXPath, At: harpa.AtAll, Take: harpa.TakeHref, Label: "links"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectors = %+v, want %+v", got, want)
	}
}

func TestSelectorArgCollectionShape(t *testing.T) {
	args := map[string]any{
		"grabSelectors": map[string]any{
			"selectorValues": []any{map[string]any{"selector": ".price"}},
		},
	}
	got, err := selectorArg(args)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Selector != ".price" {
		t.Errorf("selectors = %+v", got)
	}
}

func TestSelectorArgMalformed(t *testing.T) {
	for name, value := range map[string]any{
		"string":        "h1",
		"list of ints":  []any{1, 2},
		"no selector":   []any{map[string]any{"label": "x"}},
		"wrapper value": map[string]any{"selectorValues": "h1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := selectorArg(map[string]any{"grabSelectors": value})
			if !errors.Is(err, harpa.ErrMissingRequiredField) {
				t.Errorf("err = %v, want missing required field", err)
			}
		})
	}
}

func TestKeyValueArgKeepsOrder(t *testing.T) {
	args := map[string]any{
		"headers": []any{
			map[string]any{"key": "X-A", "value": "1"},
			map[string]any{"key": "X-A", "value": 2.0},
			map[string]any{"key": "", "value": "blank"},
		},
	}
	got, err := keyValueArg(args, "headers")
	if err != nil {
		t.Fatal(err)
	}
	want := []harpa.KeyValuePair{{Key: "X-A", Value: "1"}, {Key: "X-A", Value: "2"}, {Key: "", Value: "blank"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pairs = %+v, want %+v", got, want)
	}

	if _, err := keyValueArg(map[string]any{"headers": "X-A: 1"}, "headers"); err == nil {
		t.Error("expected error for a string value")
	}
}

func TestAdditionalArgs(t *testing.T) {
	args := map[string]any{
		"timeout": "1500",
		"additionalFields": map[string]any{
			"nodeId":         "r2d2",
			"timeout":        9000.0,
			"resultsWebhook": "https://example.com/hook",
		},
	}
	got, err := additionalArgs(args)
	if err != nil {
		t.Fatal(err)
	}
	want := harpa.AdditionalFields{NodeID: "r2d2", Timeout: 1500, ResultsWebhook: "https://example.com/hook"}
	if got != want {
		t.Errorf("additional = %+v, want %+v", got, want)
	}

	if _, err := additionalArgs(map[string]any{"timeout": "soon"}); err == nil {
		t.Error("expected error for a non-numeric timeout")
	}
}

func TestStringListArg(t *testing.T) {
	got, err := stringListArg(map[string]any{"commandInputs": []any{"a", "b"}}, "commandInputs")
	if err != nil || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("list = %v, %v", got, err)
	}
	got, err = stringListArg(map[string]any{"commandInputs": "only"}, "commandInputs")
	if err != nil || !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("single = %v, %v", got, err)
	}
	if _, err := stringListArg(map[string]any{"commandInputs": []any{1}}, "commandInputs"); err == nil {
		t.Error("expected error for a non-string input")
	}
}
