package operations

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
)

// stringArg returns a trimmed string argument, or "" when absent
func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return strings.TrimSpace(value)
}

func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// intArg accepts JSON numbers and numeric strings
func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return int(n), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}
}

// stringListArg accepts an array of strings or a single string
func stringListArg(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings, got %T", key, v)
	}
}

// objectListArg returns the entries of an array of objects. It also
// accepts the collection shape {"<wrapper>": [...]}.
func objectListArg(args map[string]any, key, wrapper string) ([]map[string]any, bool) {
	raw := args[key]
	if obj, ok := raw.(map[string]any); ok {
		if len(obj) == 0 {
			return nil, true
		}
		raw = obj[wrapper]
	}

	switch v := raw.(type) {
	case nil:
		return nil, true
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, entry)
		}
		return out, true
	case []map[string]any:
		return v, true
	default:
		return nil, false
	}
}

// keyValueArg reads a list of {key, value} pairs in order. Pairs are kept
// verbatim, an empty key included.
func keyValueArg(args map[string]any, key string) ([]harpa.KeyValuePair, error) {
	entries, ok := objectListArg(args, key, "parameter")
	if !ok {
		return nil, fmt.Errorf("%s must be an array of {key, value} objects", key)
	}

	pairs := make([]harpa.KeyValuePair, 0, len(entries))
	for _, entry := range entries {
		name, _ := entry["key"].(string)
		pairs = append(pairs, harpa.KeyValuePair{Key: name, Value: fmt.Sprint(valueOrEmpty(entry["value"]))})
	}
	return pairs, nil
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// selectorArg reads grabSelectors. Anything that is not a list of
// selector objects is reported as a missing grabSelectors field.
func selectorArg(args map[string]any) ([]harpa.SelectorSpec, error) {
	entries, ok := objectListArg(args, "grabSelectors", "selectorValues")
	if !ok {
		return nil, harpa.MissingField("grabSelectors")
	}

	selectors := make([]harpa.SelectorSpec, 0, len(entries))
	for i, entry := range entries {
		selector, ok := entry["selector"].(string)
		if !ok {
			return nil, harpa.MissingField(fmt.Sprintf("grabSelectors[%d].selector", i))
		}
		spec := harpa.SelectorSpec{
			Selector:     selector,
			SelectorType: harpa.SelectorType(stringOr(entry, "selectorType", string(harpa.DefaultSelectorType))),
			At:           harpa.Position(stringOr(entry, "at", string(harpa.DefaultPosition))),
			Take:         harpa.Take(stringOr(entry, "take", string(harpa.DefaultTake))),
			Label:        stringOr(entry, "label", harpa.DefaultLabel),
		}
		selectors = append(selectors, spec)
	}
	return selectors, nil
}

func stringOr(entry map[string]any, key, fallback string) string {
	if s, ok := entry[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// additionalArgs reads nodeId, timeout and resultsWebhook from the top
// level or from a nested additionalFields object. Top level wins.
func additionalArgs(args map[string]any) (harpa.AdditionalFields, error) {
	var fields harpa.AdditionalFields
	if nested, ok := args["additionalFields"].(map[string]any); ok {
		var err error
		if fields, err = additionalArgs(nested); err != nil {
			return fields, err
		}
	}

	if nodeID := stringArg(args, "nodeId"); nodeID != "" {
		fields.NodeID = nodeID
	}
	timeout, err := intArg(args, "timeout")
	if err != nil {
		return fields, err
	}
	if timeout > 0 {
		fields.Timeout = timeout
	}
	if webhook := stringArg(args, "resultsWebhook"); webhook != "" {
		fields.ResultsWebhook = webhook
	}
	return fields, nil
}
