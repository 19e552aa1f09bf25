package operations

import (
	"fmt"

	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
)

type paramParser func(args map[string]any) (harpa.Params, error)

var paramParsers = map[harpa.Operation]paramParser{
	harpa.OpAPICall:    apiCallParams,
	harpa.OpPingNode:   pingNodeParams,
	harpa.OpRunCommand: runCommandParams,
	harpa.OpScrapePage: scrapePageParams,
	harpa.OpSearchWeb:  searchWebParams,
}

// ParseParams reads the tool arguments of op into harpa.Params
func ParseParams(op harpa.Operation, args map[string]any) (harpa.Params, error) {
	parse, ok := paramParsers[op]
	if !ok {
		return harpa.Params{}, fmt.Errorf("%w %q", harpa.ErrUnknownOperation, op)
	}
	if args == nil {
		args = map[string]any{}
	}
	return parse(args)
}

func apiCallParams(args map[string]any) (harpa.Params, error) {
	headers, err := keyValueArg(args, "headers")
	if err != nil {
		return harpa.Params{}, err
	}
	query, err := keyValueArg(args, "queryParameters")
	if err != nil {
		return harpa.Params{}, err
	}
	return harpa.Params{
		Method:          stringArg(args, "method"),
		URL:             stringArg(args, "url"),
		Headers:         headers,
		QueryParameters: query,
	}, nil
}

func pingNodeParams(args map[string]any) (harpa.Params, error) {
	additional, err := additionalArgs(args)
	if err != nil {
		return harpa.Params{}, err
	}
	return harpa.Params{
		PingNodeID: stringArg(args, "node"),
		Additional: additional,
	}, nil
}

func runCommandParams(args map[string]any) (harpa.Params, error) {
	inputs, err := stringListArg(args, "commandInputs")
	if err != nil {
		return harpa.Params{}, err
	}
	additional, err := additionalArgs(args)
	if err != nil {
		return harpa.Params{}, err
	}
	return harpa.Params{
		CommandName:   stringArg(args, "commandName"),
		CommandInputs: inputs,
		CommandURL:    stringArg(args, "url"),
		ResultParam:   stringArg(args, "resultParam"),
		Additional:    additional,
	}, nil
}

func scrapePageParams(args map[string]any) (harpa.Params, error) {
	selectors, err := selectorArg(args)
	if err != nil {
		return harpa.Params{}, err
	}
	additional, err := additionalArgs(args)
	if err != nil {
		return harpa.Params{}, err
	}
	return harpa.Params{
		ScrapeURL:     stringArg(args, "url"),
		GrabSelectors: selectors,
		Additional:    additional,
	}, nil
}

func searchWebParams(args map[string]any) (harpa.Params, error) {
	additional, err := additionalArgs(args)
	if err != nil {
		return harpa.Params{}, err
	}
	return harpa.Params{
		SearchQuery: stringArg(args, "searchQuery"),
		Additional:  additional,
	}, nil
}
