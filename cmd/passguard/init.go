package main

import (
	"fmt"

	"github.com/passguard/passguard/pkg/strength"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

// initCmd onboards the vault's single account.
var initCmd = &cobra.Command{
	Use:   "init [account-name]",
	Short: "Creates the vault and onboards the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		fmt.Println("Initializing new vault...")

		password, err := readPassword("Enter master password: ")
		if err != nil {
			return err
		}

		score := strength.Score(password)
		fmt.Printf("Password strength: %s (%d/%d)\n", strength.Classify(score), score, strength.MaxScore)

		confirmation, err := readPassword("Confirm master password: ")
		if err != nil {
			return err
		}

		if err := v.Onboard(name, password, confirmation); err != nil {
			return err
		}

		fmt.Printf("Vault initialized at %s\n", v.Path())
		fmt.Println("Run 'passguard login' to unlock it.")
		return nil
	},
}
