package schema

import (
	"fmt"
	"strings"
)

// Lint reports arguments a code generator cannot address unambiguously: a missing
// type or name, names that collide once upper-cased and unlabeled options.
// It reports every problem at once.
//
// The editor produces such artifacts through ordinary edits and imports accept
// them; Lint is for curated block sets such as a library.
func Lint(b Bundle) error {
	var errs []error

	seen := make(map[string]int, len(b.Shape.Args))
	for i, a := range b.Shape.Args {
		path := fmt.Sprintf("%s[%d]", KeyArgs, i)

		if strings.TrimSpace(a.Type) == "" {
			errs = append(errs, &ValidationError{Key: path + "." + KeyArgType, Reason: "required"})
		}
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, &ValidationError{Key: path + "." + KeyArgName, Reason: "required"})
		} else if prev, dup := seen[strings.ToUpper(a.Name)]; dup {
			errs = append(errs, &ValidationError{
				Key:    path + "." + KeyArgName,
				Reason: fmt.Sprintf("duplicates %s[%d]", KeyArgs, prev),
				Value:  a.Name,
			})
		} else {
			seen[strings.ToUpper(a.Name)] = i
		}

		for j, o := range a.Options {
			if strings.TrimSpace(o.Label()) == "" {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("%s.%s[%d]", path, KeyArgOptions, j),
					Reason: "empty label",
				})
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
