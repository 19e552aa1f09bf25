package harpa

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sajari/fuzzy"
)

var (
	operationModel     *fuzzy.Model
	operationModelOnce sync.Once
)

// getOperationModel returns the fuzzy model trained on operation names
func getOperationModel() *fuzzy.Model {
	operationModelOnce.Do(func() {
		model := fuzzy.NewModel()
		model.SetDepth(2)
		model.SetThreshold(1)
		model.SetUseAutocomplete(false)

		// Each name is seen past the threshold so its delete keys are stored
		for i := 0; i < 3; i++ {
			for _, op := range Operations {
				model.TrainWord(strings.ToLower(string(op)))
			}
		}
		operationModel = model
	})
	return operationModel
}

// Suggest returns the operation closest to name, or "" when nothing is near
func Suggest(name string) Operation {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	for _, suggestion := range getOperationModel().SpellCheckSuggestions(lower, 3) {
		for _, op := range Operations {
			if strings.ToLower(string(op)) == suggestion {
				return op
			}
		}
	}
	return ""
}

// ParseOperation resolves an operation name. Unknown names yield
// ErrUnknownOperation with a suggestion when one is close enough.
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", unknownOperation(name)
}

func unknownOperation(name string) error {
	if suggestion := Suggest(name); suggestion != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownOperation, name, suggestion)
	}
	return fmt.Errorf("%w %q", ErrUnknownOperation, name)
}
