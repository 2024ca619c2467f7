package main

import (
	"fmt"
	"os"

	"github.com/passguard/passguard/pkg/importer"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

// importCmd loads items from another password manager's export file.
var importCmd = &cobra.Command{
	Use:   "import [source] [file]",
	Short: "Imports items from another password manager",
	Long: `Imports items from a competitor export file.

Supported sources:
  bitwarden   Bitwarden JSON export
  lastpass    LastPass CSV export
  1password   1Password CSV export

Examples:
  passguard import bitwarden export.json
  passguard import lastpass lastpass_export.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := importer.NewParser(args[0])
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read export file: %w", err)
		}

		result, err := parser.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s export: %w", parser.Source(), err)
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		imported := 0
		for i := range result.Items {
			if _, err := v.AddItem(&result.Items[i]); err != nil {
				fmt.Fprintf(os.Stderr, "warning: skipping %q: %v\n", result.Items[i].Tag, err)
				continue
			}
			imported++
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %q: %s\n", s.Name, s.Reason)
		}

		fmt.Printf("Imported %d items from %s\n", imported, parser.Source())
		return nil
	},
}
