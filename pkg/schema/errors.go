package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one unusable key of an artifact.
type ValidationError struct {
	Key    string // e.g. "args0[1].name"
	Reason string
	Value  any // offending value, if any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every ValidationError of one artifact.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid artifact: " + e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid artifact (%d problems):", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ValidationErrors unwraps the individual failures of an AggregateError found
// anywhere in err's chain. It returns nil for any other error.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
