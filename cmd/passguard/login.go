package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

// loginCmd verifies the master password against the stored digest.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verifies the master password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		name, err := v.GetAccountName()
		if err != nil {
			return err
		}
		fmt.Printf("Master password verified for account '%s'\n", name)
		return nil
	},
}
