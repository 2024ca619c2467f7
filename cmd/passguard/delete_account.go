package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteAccountCmd)
}

// deleteAccountCmd destroys the vault after an explicit typed confirmation.
var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Deletes the account and every stored item",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureUnlocked(); err != nil {
			return err
		}

		name, err := v.GetAccountName()
		if err != nil {
			return err
		}

		fmt.Printf("This permanently deletes account '%s' and all stored items.\n", name)
		fmt.Printf("Type the account name to confirm: ")
		typed, err := readLine()
		if err != nil {
			return err
		}
		if typed != name {
			fmt.Println("Aborted")
			return nil
		}

		if err := v.DeleteAccount(); err != nil {
			return err
		}
		fmt.Println("Account deleted")
		return nil
	},
}
