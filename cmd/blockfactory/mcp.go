package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Edusharks/block-ide-vite-sub001/internal/cli"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes block editing as MCP tools so that AI agents can design blocks.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		debug, _ := cmd.Flags().GetBool("debug")

		// Logs must never reach stdout: it carries the JSON-RPC stream.
		log.SetOutput(os.Stderr)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		f, closeFactory, err := cli.NewFactory(ctx, cfg, logger, cli.FactoryOptions{Debug: debug})
		if err != nil {
			return err
		}
		defer closeFactory()

		srv := mcp.NewServer(f, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting blockfactory MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting blockfactory MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
