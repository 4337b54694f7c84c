package main

import (
	"fmt"
	"text/tabwriter"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/internal/config"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/tui"
	"github.com/Edusharks/block-ide-vite-sub001/internal/validator"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the block library",
	Long:  `Lists and shows the ready-made blocks stored as Markdown files in the library directory.`,
}

var libraryLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List library blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary(cmd)
		if err != nil {
			return err
		}

		entries, err := lib.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No library blocks found.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tNAME")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Type, e.Name)
		}
		return tw.Flush()
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <block-id>",
	Short: "Show a library block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := libraryFactory(cmd)
		if err != nil {
			return err
		}

		_, snap, err := f.CreateFromLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprintln(cmd.OutOrStdout(), snap.Serialized)
			return nil
		}
		out, err := tui.NewRenderer()(tui.Markdown(snap))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var libraryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every library block for consistency",
	Long:  `Loads every library block and reports load failures, artifacts that would not import back and block types shared by several blocks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		if err := validator.ValidateLibrary(cmd.Context(), lib); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Library is valid!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryValidateCmd)
	libraryCmd.AddCommand(libraryLsCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryShowCmd.Flags().Bool("raw", false, "Print the JSON artifact instead of the rendered summary")
}

// libraryFactory builds a throwaway in-memory factory over the configured library.
func libraryFactory(cmd *cobra.Command) (*blockfactory.Factory, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Store.Backend = config.BackendMemory
	f, _, err := cli.NewFactory(cmd.Context(), cfg, logger, cli.FactoryOptions{})
	if err != nil {
		return nil, err
	}
	if f.Library() == nil {
		return nil, fmt.Errorf("no block library at %q", cfg.Library.Dir)
	}
	return f, nil
}

func openLibrary(cmd *cobra.Command) (ports.BlockLibrary, error) {
	f, err := libraryFactory(cmd)
	if err != nil {
		return nil, err
	}
	return f.Library(), nil
}
