package main

import (
	"fmt"

	"github.com/passguard/passguard/pkg/generate"
	"github.com/passguard/passguard/pkg/strength"

	"github.com/spf13/cobra"
)

var (
	generateMode   string
	generateLength int
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateMode, "mode", "m", "", "Generation mode: phrase, charset-full, charset-alnum")
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", 0, "Password length (words for phrase mode)")
}

// generateCmd produces a random password without storing it.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a random password",
	Long: `Generates a random password. Defaults come from the configuration
(generate_mode, generate_length).

Examples:
  passguard generate
  passguard generate --mode charset-alnum --length 16
  passguard generate --mode phrase --length 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName := generateMode
		if modeName == "" {
			modeName = cfg.GenerateMode
		}
		mode, err := generate.ParseMode(modeName)
		if err != nil {
			return err
		}

		length := generateLength
		if length == 0 {
			length = cfg.GenerateLength
			if mode == generate.ModePhrase {
				length = 5
			}
		}

		password, err := generate.Generate(mode, length)
		if err != nil {
			return err
		}

		score := strength.Score(password)
		fmt.Println(password)
		fmt.Printf("Strength: %s (%d/%d)\n", strength.Classify(score), score, strength.MaxScore)
		return nil
	},
}
