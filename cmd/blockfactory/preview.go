package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/svg"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [artifact]",
	Short: "Render a block as SVG",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, snap, err := openSource(cmd, args)
		if err != nil {
			return err
		}
		doc := svg.Render(snap.Geometry, svg.DefaultStyle().WithFill(snap.Definition.Color))

		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err := io.WriteString(cmd.OutOrStdout(), doc)
			return err
		}
		if err := os.WriteFile(out, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%gx%g)\n", out, snap.Geometry.Width, snap.Geometry.Height)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addSourceFlags(previewCmd)
	previewCmd.Flags().StringP("output", "o", "", "Write the SVG to a file instead of stdout")
}
