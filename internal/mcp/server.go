// Package mcp implements the MCP (Model Context Protocol) server for
// passguard. Only non-secret tools are exposed: AI agents can inspect vault
// status, generate and score passwords, and run breach checks, but no tool
// ever returns stored secret material.
package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/passguard/passguard/internal/config"
	"github.com/passguard/passguard/pkg/breach"
	"github.com/passguard/passguard/pkg/vault"
)

// serverVersion is reported in the MCP handshake.
const serverVersion = "1.0.0"

// Server is the passguard MCP server.
type Server struct {
	server *mcp.Server
	vault  *vault.Vault
	breach *breach.Client
}

// NewServer creates an MCP server over the vault described by cfg. If the
// PASSGUARD_PASSWORD environment variable is set the vault is unlocked so
// vault_status can report item counts; otherwise the server runs against a
// locked vault.
func NewServer(cfg *config.Config) (*Server, error) {
	mode, err := vault.ParseDigestMode(cfg.DigestMode)
	if err != nil {
		return nil, err
	}
	v := vault.New(cfg.VaultPath,
		vault.WithDigestMode(mode),
		vault.WithMaxAttempts(cfg.MaxAttempts))

	if password := os.Getenv("PASSGUARD_PASSWORD"); password != "" {
		// Clear the variable after reading so child processes never see it.
		os.Unsetenv("PASSGUARD_PASSWORD")
		if err := v.AttemptLogin(password); err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to unlock vault: %w", err)
		}
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "passguard",
			Version: serverVersion,
		}, nil),
		vault:  v,
		breach: breach.NewClient(cfg.BreachAPIKey),
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "vault_status",
		Description: "Report vault status: whether an account exists, the account name, the session state, and item counts when unlocked. Does NOT return any stored secrets.",
	}, s.handleVaultStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "password_generate",
		Description: "Generate a random password or passphrase. Modes: phrase (random words), charset-full (letters, digits, symbols), charset-alnum (letters and digits).",
	}, s.handlePasswordGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "password_score",
		Description: "Score a candidate password's complexity from 0 to 5 with a qualitative tier. The password is not stored.",
	}, s.handlePasswordScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "breach_check",
		Description: "Check an account identifier against the Have I Been Pwned breach database for a given site. Advisory only.",
	}, s.handleBreachCheck)
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.vault.Lock()
	defer s.vault.Close()

	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close locks the vault and releases its store connection.
func (s *Server) Close() error {
	s.vault.Lock()
	s.vault.Close()
	return nil
}
