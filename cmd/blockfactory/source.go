package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/internal/config"
	"github.com/spf13/cobra"
)

// addSourceFlags registers the flags of commands that read one block.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("from", "l", "", "Library block ID to use instead of an artifact file")
}

// openSource loads the block named by the command line into a throwaway
// in-memory session: either an exported artifact file or a library block.
func openSource(cmd *cobra.Command, args []string) (*blockfactory.Factory, string, blockfactory.Snapshot, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, "", blockfactory.Snapshot{}, err
	}
	cfg.Store.Backend = config.BackendMemory

	debug, _ := cmd.Flags().GetBool("debug")
	f, _, err := cli.NewFactory(cmd.Context(), cfg, logger, cli.FactoryOptions{Debug: debug})
	if err != nil {
		return nil, "", blockfactory.Snapshot{}, err
	}

	from, _ := cmd.Flags().GetString("from")
	switch {
	case from != "" && len(args) > 0:
		return nil, "", blockfactory.Snapshot{}, errors.New("pass either an artifact file or --from, not both")
	case from != "":
		id, snap, err := f.CreateFromLibrary(cmd.Context(), from)
		return f, id, snap, err
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", blockfactory.Snapshot{}, fmt.Errorf("failed to read artifact: %w", err)
		}
		id, snap, err := f.Import(cmd.Context(), data, formatOf(args[0]))
		if err != nil {
			return nil, "", blockfactory.Snapshot{}, fmt.Errorf("%s: %w", args[0], err)
		}
		return f, id, snap, nil
	}
	return nil, "", blockfactory.Snapshot{}, errors.New("an artifact file or --from <library-id> is required")
}

// formatOf returns the artifact format implied by the file extension, or "" to sniff.
func formatOf(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
