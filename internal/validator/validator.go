package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
)

// ValidateLibrary loads every block of lib and reports blocks that fail to load,
// compile to arguments that schema.Lint flags, have no type, or share their
// type with another block (their exports would overwrite each other).
func ValidateLibrary(ctx context.Context, lib ports.BlockLibrary) error {
	entries, err := lib.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}

	var errors []string
	owners := make(map[string][]string)

	for _, e := range entries {
		def, err := lib.Get(ctx, e.ID)
		if err != nil {
			errors = append(errors, fmt.Sprintf("'%s': %v", e.ID, err))
			continue
		}

		if def.Type == "" {
			errors = append(errors, fmt.Sprintf("'%s': label %q yields no block type", e.ID, def.Name))
		} else {
			owners[def.Type] = append(owners[def.Type], e.ID)
		}

		for _, verr := range schema.ValidationErrors(schema.Lint(compiler.Compile(def))) {
			errors = append(errors, fmt.Sprintf("'%s': %v", e.ID, verr))
		}
	}

	types := make([]string, 0, len(owners))
	for t := range owners {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if ids := owners[t]; len(ids) > 1 {
			errors = append(errors, fmt.Sprintf("type '%s' is shared by %s", t, strings.Join(ids, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
