package editor

import (
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// InputRow is the list view of one input, with every property in its editable text form.
type InputRow struct {
	ID       int              `json:"id"`
	Position int              `json:"position"`
	Kind     domain.InputKind `json:"type"`
	Name     string           `json:"name"`
	// Placeholder is the template token that references this row, e.g. "%2".
	Placeholder string `json:"placeholder"`
	// Referenced is false when the label template does not mention Placeholder.
	Referenced bool `json:"referenced"`

	ShowDefault bool   `json:"showDefault"`
	Default     string `json:"default,omitempty"`
	ShowOptions bool   `json:"showOptions"`
	Options     string `json:"options,omitempty"`
	ShowCheck   bool   `json:"showCheck"`
	Check       string `json:"check,omitempty"`
}

// Rows renders the input list view of def.
func Rows(def *domain.BlockDefinition) []InputRow {
	items := def.Inputs.Items()
	rows := make([]InputRow, 0, len(items))
	for i, in := range items {
		pos := i + 1
		row := InputRow{
			ID:          in.ID,
			Position:    pos,
			Kind:        in.Kind,
			Name:        in.Name,
			Placeholder: domain.Placeholder(pos),
			Referenced:  domain.HasPlaceholder(def.Name, pos),
			ShowDefault: in.Kind.IsField(),
			ShowOptions: in.Kind == domain.KindFieldDropdown,
			ShowCheck:   in.Kind.IsValue(),
			Check:       in.Check,
			Options:     domain.FormatOptions(in.Options),
		}
		if in.Default != nil {
			row.Default = *in.Default
		}
		rows = append(rows, row)
	}
	return rows
}
