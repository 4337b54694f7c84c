package main

import (
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [artifact]",
	Short: "Parse a block and print its normalized artifact",
	Long: `Reads an exported artifact (JSON or YAML) or a library block, imports it and
prints the artifact recompiled from the resulting definition. Use --format to
convert between JSON and YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, id, _, err := openSource(cmd, args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		_, err = f.Export(cmd.Context(), id, cmd.OutOrStdout(), format)
		return err
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	addSourceFlags(compileCmd)
	compileCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
}
