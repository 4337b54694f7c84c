package tui

import (
	"fmt"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/internal/editor"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Falls back to the raw markdown when no renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Markdown describes a snapshot: block summary, input list and the serialized schema.
func Markdown(snap editor.Snapshot) string {
	def := snap.Definition
	var sb strings.Builder

	blockType := def.Type
	if blockType == "" {
		blockType = "(no type)"
	}
	fmt.Fprintf(&sb, "# %s\n\n", blockType)
	fmt.Fprintf(&sb, "- **Label:** `%s`\n", def.Name)
	fmt.Fprintf(&sb, "- **Colour:** `%s`  **Style:** `%s`\n", def.Color, def.Style)
	fmt.Fprintf(&sb, "- **Shape:** %s, %gx%g\n", snap.Geometry.Shape, snap.Geometry.Width, snap.Geometry.Height)
	fmt.Fprintf(&sb, "- **Connections:** %s\n", connections(snap))
	if def.Tooltip != "" {
		fmt.Fprintf(&sb, "- **Tooltip:** %s\n", def.Tooltip)
	}
	sb.WriteString("\n")

	if len(snap.Inputs) == 0 {
		sb.WriteString("_No inputs._\n\n")
	} else {
		sb.WriteString("| id | slot | type | name | default / options / check |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, row := range snap.Inputs {
			slot := row.Placeholder
			if !row.Referenced {
				slot += " (unused)"
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", row.ID, slot, row.Kind, row.Name, detail(row))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("```json\n")
	sb.WriteString(snap.Serialized)
	sb.WriteString("\n```\n")
	return sb.String()
}

func connections(snap editor.Snapshot) string {
	c := snap.Definition.Connections
	if c.Output {
		if c.OutputType == "" {
			return "output (any)"
		}
		return "output (" + c.OutputType + ")"
	}
	var parts []string
	if c.Previous {
		parts = append(parts, "previous")
	}
	if c.Next {
		parts = append(parts, "next")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func detail(row editor.InputRow) string {
	switch {
	case row.ShowOptions:
		return strings.ReplaceAll(row.Options, "\n", "; ")
	case row.ShowDefault:
		return row.Default
	case row.ShowCheck:
		if row.Check == "" {
			return "any"
		}
		return row.Check
	}
	return ""
}
