package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpAdapter "github.com/castlet/castlet/internal/adapters/mcp"
	"github.com/castlet/castlet/internal/cli"
	"github.com/castlet/castlet/internal/logging"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the castlet controller as an MCP Server.
This allows AI agents to register applications, negotiate presentation
sessions and drive them as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		logger := logging.New(cfg.SlogLevel())
		slog.SetDefault(logger)

		ctrl, err := cli.NewController(cmd.Context(), cfg, logger, nil)
		if err != nil {
			log.Fatalf("Error initializing castlet: %v", err)
		}

		srv := mcpAdapter.NewServer(ctrl)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting castlet MCP server (stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting castlet MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				slog.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Unknown transport: %s\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "MCP transport (stdio or sse)")
	mcpCmd.Flags().Int("port", 8421, "Port for the SSE transport")
	rootCmd.AddCommand(mcpCmd)
}
