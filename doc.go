/*
Package blockfactory authors custom visual-programming blocks.

A block is described by a label template ("move %1 steps"), a colour, its connections
and an ordered list of typed inputs. Every edit is applied to a single in-progress
definition, after which the package re-derives, synchronously and in full:

  - the block type ("custom_move"),
  - the input list view,
  - the puzzle-piece preview geometry (an SVG path plus field and label placements),
  - the export artifact: a declarative shape schema and a code-generation template.

# Usage

The Factory hosts any number of editing sessions over a pluggable store.

	package main

	import (
		"context"
		"os"

		"github.com/Edusharks/block-ide-vite-sub001"
		"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		f := blockfactory.New()

		id, _, _ := f.Create(ctx, nil)
		_, _ = f.Apply(ctx, id, domain.SetField(domain.FieldName, "move"))
		_, _ = f.Apply(ctx, id, domain.AddInput(domain.KindInputValue))

		_, _ = f.Export(ctx, id, os.Stdout, "json")
	}

# Architecture

  - pkg/domain: definition, input list and editing events.
  - pkg/schema: the export artifact and its JSON/YAML codecs.
  - internal/geometry, internal/compiler, internal/editor: the derivation pipeline.
  - pkg/adapters: stores (memory, Redis), block library (Loam), HTTP and MCP transports.
  - cmd/blockfactory: the command line (compile, preview, export, edit, serve, mcp, library, session).
*/
package blockfactory
