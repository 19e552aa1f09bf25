package operations

import (
	"github.com/harpa-grid/harpa-mcp/pkg/harpa"
	"github.com/mark3labs/mcp-go/mcp"
)

var keyValueSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"key":   map[string]any{"type": "string"},
		"value": map[string]any{"type": "string"},
	},
	"required": []string{"key"},
}

var selectorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"selector": map[string]any{
			"type":        "string",
			"description": "CSS selector, XPath expression or text to match",
		},
		"selectorType": map[string]any{
			"type":    "string",
			"enum":    []string{string(harpa.SelectorAuto), string(harpa.SelectorCSS), string(harpa.SelectorXPath), string(harpa.SelectorText)},
			"default": string(harpa.DefaultSelectorType),
		},
		"at": map[string]any{
			"type":    "string",
			"enum":    []string{string(harpa.AtAll), string(harpa.AtFirst), string(harpa.AtLast)},
			"default": string(harpa.DefaultPosition),
		},
		"take": map[string]any{
			"type": "string",
			"enum": []string{
				string(harpa.TakeInnerText), string(harpa.TakeTextContent),
				string(harpa.TakeInnerHTML), string(harpa.TakeOuterHTML), string(harpa.TakeHref),
			},
			"default": string(harpa.DefaultTake),
		},
		"label": map[string]any{
			"type":    "string",
			"default": harpa.DefaultLabel,
		},
	},
	"required": []string{"selector"},
}

// gridOptions are the fields shared by every grid action
func gridOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("nodeId",
			mcp.Description("Node ID(s) to run on, e.g. \"r2d2\", \"r2d2 c3po\", \"5\" for five nodes or \"*\" for all"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum time to wait for the action in milliseconds"),
			mcp.DefaultNumber(harpa.DefaultTimeout),
		),
		mcp.WithString("resultsWebhook",
			mcp.Description("URL to receive results asynchronously, kept for 30 days"),
		),
		dryRunOption(),
	}
}

func dryRunOption() mcp.ToolOption {
	return mcp.WithBoolean("dryRun",
		mcp.Description("Return the request that would be sent instead of sending it (default: false)"),
	)
}

func apiCallTool() mcp.Tool {
	return mcp.NewTool(string(harpa.OpAPICall),
		mcp.WithDescription("Make a custom HTTP request to the HARPA AI API"),
		mcp.WithString("method",
			mcp.Description("HTTP method"),
			mcp.Enum("GET", "POST", "PUT", "PATCH", "DELETE"),
			mcp.DefaultString(harpa.DefaultMethod),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL, or a path such as /grid resolved against the API base URL"),
		),
		mcp.WithArray("headers",
			mcp.Description("Extra headers as {key, value} pairs; later keys win"),
			mcp.Items(keyValueSchema),
		),
		mcp.WithArray("queryParameters",
			mcp.Description("Query parameters as {key, value} pairs; later keys win"),
			mcp.Items(keyValueSchema),
		),
		dryRunOption(),
	)
}

func pingNodeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Check that a HARPA AI node is online"),
		mcp.WithString("node",
			mcp.Description("Node to ping; the service picks the first node when omitted"),
		),
	}
	return mcp.NewTool(string(harpa.OpPingNode), append(opts, gridOptions()...)...)
}

func runCommandTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Run a HARPA AI command such as \"Summary\" on a web page"),
		mcp.WithString("commandName",
			mcp.Required(),
			mcp.Description("Name of the command to execute"),
		),
		mcp.WithArray("commandInputs",
			mcp.Description("Inputs passed to the command, in order"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("url",
			mcp.Description("Page to run the command on; the service uses a blank page when omitted"),
		),
		mcp.WithString("resultParam",
			mcp.Description("Command variable to return as the result; the service uses \"message\" when omitted"),
		),
	}
	return mcp.NewTool(string(harpa.OpRunCommand), append(opts, gridOptions()...)...)
}

func scrapePageTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Extract content from a web page, whole or by selectors"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Web page URL to scrape"),
		),
		mcp.WithArray("grabSelectors",
			mcp.Description("Elements to extract; the whole page is returned when empty"),
			mcp.Items(selectorSchema),
		),
	}
	return mcp.NewTool(string(harpa.OpScrapePage), append(opts, gridOptions()...)...)
}

func searchWebTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search the web and return the result list"),
		mcp.WithString("searchQuery",
			mcp.Required(),
			mcp.Description("Query to search for, search operators allowed"),
		),
	}
	return mcp.NewTool(string(harpa.OpSearchWeb), append(opts, gridOptions()...)...)
}

const harpaToolName = "harpa"

// harpaTool takes the operation as a field, like the node it mirrors
func harpaTool() mcp.Tool {
	names := make([]string, len(harpa.Operations))
	for i, op := range harpa.Operations {
		names[i] = string(op)
	}

	opts := []mcp.ToolOption{
		mcp.WithDescription("Run any HARPA AI operation; the other fields follow the operation's own tool"),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Enum(names...),
		),
		mcp.WithString("method", mcp.Description("apiCall: HTTP method")),
		mcp.WithString("url", mcp.Description("apiCall, runCommand, scrapePage: target URL")),
		mcp.WithArray("headers", mcp.Description("apiCall: {key, value} pairs"), mcp.Items(keyValueSchema)),
		mcp.WithArray("queryParameters", mcp.Description("apiCall: {key, value} pairs"), mcp.Items(keyValueSchema)),
		mcp.WithString("node", mcp.Description("pingNode: node to ping")),
		mcp.WithString("commandName", mcp.Description("runCommand: command to execute")),
		mcp.WithArray("commandInputs", mcp.Description("runCommand: inputs"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("resultParam", mcp.Description("runCommand: variable to return")),
		mcp.WithArray("grabSelectors", mcp.Description("scrapePage: elements to extract"), mcp.Items(selectorSchema)),
		mcp.WithString("searchQuery", mcp.Description("searchWeb: query")),
	}
	return mcp.NewTool(harpaToolName, append(opts, gridOptions()...)...)
}
