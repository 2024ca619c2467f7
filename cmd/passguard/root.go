package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/passguard/passguard/internal/config"
	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg *config.Config
	v   *vault.Vault
)

var rootCmd = &cobra.Command{
	Use:   "passguard",
	Short: "passguard is a local, single-user credential vault",
	Long:  `A local password manager with a master-password gated credential store.`,
	// PersistentPreRunE runs before every subcommand and builds the Vault
	// object from the layered configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		mode, err := vault.ParseDigestMode(cfg.DigestMode)
		if err != nil {
			return err
		}
		v = vault.New(cfg.VaultPath,
			vault.WithDigestMode(mode),
			vault.WithMaxAttempts(cfg.MaxAttempts),
		)
		return nil
	},
	SilenceUsage: true,
}

// ensureUnlocked ensures the vault is unlocked, prompting for the master
// password until the session's attempt counter runs out.
func ensureUnlocked() error {
	for {
		if v.State() == vault.StateUnlocked {
			return nil
		}

		password, err := readPassword("Enter master password: ")
		if err != nil {
			return err
		}

		err = v.AttemptLogin(password)
		if err == nil {
			return nil
		}

		var authErr *vault.AuthError
		if errors.As(err, &authErr) && authErr.Remaining > 0 {
			fmt.Fprintf(os.Stderr, "Invalid master password (%d attempts remaining)\n", authErr.Remaining)
			continue
		}
		return err
	}
}

// readPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(passwordBytes), nil
	}
	return readLine()
}

// readLine reads a single line from stdin, trimming the trailing newline.
func readLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// confirm asks a yes/no question and returns true only on an explicit yes.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	return response == "y" || response == "Y"
}

// parseItemID parses a positional item ID argument.
func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item ID %q", arg)
	}
	return id, nil
}
