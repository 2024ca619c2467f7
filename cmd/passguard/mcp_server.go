package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/passguard/passguard/internal/mcp"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}

// mcpServerCmd starts the MCP server for AI coding assistant integration.
var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Starts the MCP server for AI assistant integration",
	Long: `Starts an MCP server over stdio transport exposing non-secret tools
only. No tool ever returns stored credential material.

Available tools:
  - vault_status:      Vault existence, account name, state, item counts
  - password_generate: Generate a random password
  - password_score:    Rate a password's strength
  - breach_check:      Check an account against the breach index

Authentication:
  Set PASSGUARD_PASSWORD to unlock the vault for the session. The variable
  is read once and immediately cleared from the environment. Without it the
  server runs locked and vault_status omits item counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			<-sigChan
			cancel()
			server.Close()
		}()

		if err := server.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
