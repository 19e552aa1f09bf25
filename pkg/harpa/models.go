package harpa

// Operation selects which request rule applies
type Operation string

const (
	OpAPICall    Operation = "apiCall"
	OpPingNode   Operation = "pingNode"
	OpRunCommand Operation = "runCommand"
	OpScrapePage Operation = "scrapePage"
	OpSearchWeb  Operation = "searchWeb"
)

// Operations lists every supported operation in declaration order
var Operations = []Operation{OpAPICall, OpPingNode, OpRunCommand, OpScrapePage, OpSearchWeb}

// SelectorType tells the remote service how to interpret a selector
type SelectorType string

const (
	SelectorAuto  SelectorType = "auto"
	SelectorCSS   SelectorType = "css"
	SelectorXPath SelectorType = "xpath"
	SelectorText  SelectorType = "text"
)

// Position picks which matched elements are extracted
type Position string

const (
	AtAll   Position = "all"
	AtFirst Position = "first"
	AtLast  Position = "last"
)

// Take names the element property to extract
type Take string

const (
	TakeInnerText   Take = "innerText"
	TakeTextContent Take = "textContent"
	TakeInnerHTML   Take = "innerHTML"
	TakeOuterHTML   Take = "outerHTML"
	TakeHref        Take = "href"
)

// SelectorSpec is one DOM extraction rule of a scrape action
type SelectorSpec struct {
	Selector     string       `json:"selector"`
	SelectorType SelectorType `json:"selectorType"`
	At           Position     `json:"at"`
	Take         Take         `json:"take"`
	Label        string       `json:"label"`
}

// Selector defaults applied when a caller leaves a field blank
const (
	DefaultSelectorType = SelectorAuto
	DefaultPosition     = AtFirst
	DefaultTake         = TakeInnerText
	DefaultLabel        = "data"
)

// KeyValuePair is one header or query parameter entry
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fold reduces pairs to a map left to right, so later keys overwrite
// earlier ones. It returns nil when pairs is empty.
func Fold(pairs []KeyValuePair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		out[pair.Key] = pair.Value
	}
	return out
}

// DefaultTimeout is the synchronous action timeout in milliseconds
const DefaultTimeout = 300000

// AdditionalFields are merged into the body of every grid action
type AdditionalFields struct {
	NodeID         string `json:"nodeId,omitempty"`
	Timeout        int    `json:"timeout,omitempty"`
	ResultsWebhook string `json:"resultsWebhook,omitempty"`
}

// Params holds the user supplied parameters of one invocation. Each
// operation reads only its own fields.
type Params struct {
	// apiCall
	Method          string
	URL             string
	Headers         []KeyValuePair
	QueryParameters []KeyValuePair

	// pingNode
	PingNodeID string

	// runCommand
	CommandName   string
	CommandInputs []string
	CommandURL    string
	ResultParam   string

	// scrapePage
	ScrapeURL     string
	GrabSelectors []SelectorSpec

	// searchWeb
	SearchQuery string

	Additional AdditionalFields
}
