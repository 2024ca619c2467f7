package main

import (
	"fmt"

	"github.com/passguard/passguard/pkg/strength"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// scoreCmd rates a password without touching the vault.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rates a password's strength",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Enter password to rate: ")
		if err != nil {
			return err
		}

		score := strength.Score(password)
		fmt.Printf("%s (%d/%d)\n", strength.Classify(score), score, strength.MaxScore)
		return nil
	},
}
