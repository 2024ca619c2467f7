package main

import (
	"fmt"

	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusCmd reports the vault's lifecycle state without unlocking it.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows whether the vault exists and its session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		exists, err := v.CheckExists()
		if err != nil {
			return fmt.Errorf("failed to check vault: %w", err)
		}

		if !exists {
			fmt.Println("No vault found. Run 'passguard init <account-name>' to create one.")
			return nil
		}

		name, err := v.GetAccountName()
		if err != nil {
			return fmt.Errorf("failed to read account: %w", err)
		}

		state := v.State()
		fmt.Printf("Vault:   %s\n", v.Path())
		fmt.Printf("Account: %s\n", name)
		fmt.Printf("State:   %s\n", state)
		if state == vault.StateLocked {
			fmt.Printf("Login attempts remaining: %d\n", v.AttemptsRemaining())
		}
		return nil
	},
}
