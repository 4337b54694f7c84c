package main

import (
	"fmt"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored editing sessions",
	Long:  `List, inspect, and remove the editing sessions kept by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFactory, err := sessionFactory(cmd)
		if err != nil {
			return err
		}
		defer closeFactory()

		sessions, err := f.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored sessions found.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Stored Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the artifact of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFactory, err := sessionFactory(cmd)
		if err != nil {
			return err
		}
		defer closeFactory()

		snap, err := f.Open(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), snap.Serialized)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFactory, err := sessionFactory(cmd)
		if err != nil {
			return err
		}
		defer closeFactory()

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = f.List(cmd.Context()); err != nil {
				return err
			}
		}

		failed := 0
		for _, sessionID := range args {
			if err := f.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", sessionID, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		if failed > 0 {
			return fmt.Errorf("%d session(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func sessionFactory(cmd *cobra.Command) (*blockfactory.Factory, func() error, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cli.NewFactory(cmd.Context(), cfg, logger, cli.FactoryOptions{})
}
