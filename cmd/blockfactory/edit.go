package main

import (
	"errors"
	"fmt"
	"os"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a block interactively",
	Long: `Opens an interactive editing session. Without flags a new default block is
created; --session resumes a stored session, --from seeds it from the library
and --import from an exported artifact. Type 'help' for the command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		f, closeFactory, err := cli.NewFactory(ctx, cfg, logger, cli.FactoryOptions{Debug: debug})
		if err != nil {
			return err
		}
		defer closeFactory()

		sessionID, err := openEditSession(cmd, f)
		if err != nil {
			return err
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout(), blockfactory.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s\n", sessionID)
		}

		repl := cli.NewREPL(f, sessionID, cmd.InOrStdin(), cmd.OutOrStdout(),
			cli.WithPrompt(interactive),
			cli.WithExport(cfg.Export.Dir, cfg.Export.Format),
		)
		err = repl.Run(ctx)
		if ctx.Signal() != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nInterrupted. Session %s kept.\n", sessionID)
			return nil
		}
		if cli.IsInterrupted(err) {
			return nil
		}
		return err
	},
}

func openEditSession(cmd *cobra.Command, f *blockfactory.Factory) (string, error) {
	sessionID, _ := cmd.Flags().GetString("session")
	from, _ := cmd.Flags().GetString("from")
	importPath, _ := cmd.Flags().GetString("import")

	set := 0
	for _, v := range []string{sessionID, from, importPath} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", errors.New("--session, --from and --import are mutually exclusive")
	}

	ctx := cmd.Context()
	switch {
	case sessionID != "":
		if _, err := f.Open(ctx, sessionID); err != nil {
			return "", err
		}
		return sessionID, nil
	case from != "":
		id, _, err := f.CreateFromLibrary(ctx, from)
		return id, err
	case importPath != "":
		data, err := os.ReadFile(importPath)
		if err != nil {
			return "", fmt.Errorf("failed to read artifact: %w", err)
		}
		id, _, err := f.Import(ctx, data, formatOf(importPath))
		return id, err
	}
	id, _, err := f.Create(ctx, nil)
	return id, err
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("session", "s", "", "Resume a stored session")
	editCmd.Flags().StringP("from", "l", "", "Seed the session from a library block")
	editCmd.Flags().StringP("import", "i", "", "Seed the session from an artifact file")
}
