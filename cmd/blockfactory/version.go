package main

import (
	"fmt"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blockfactory",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blockfactory version %s\n", blockfactory.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
