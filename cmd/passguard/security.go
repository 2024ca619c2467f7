package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/passguard/passguard/pkg/security"

	"github.com/spf13/cobra"
)

var securityJSON bool

func init() {
	rootCmd.AddCommand(securityCmd)

	securityCmd.Flags().BoolVar(&securityJSON, "json", false, "Output the report as JSON")
}

// securityCmd analyzes stored passwords and prints a health report.
var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Analyzes the vault and reports weak, reused, and compromised passwords",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		report, err := security.Analyze(v)
		if err != nil {
			return fmt.Errorf("failed to analyze vault: %w", err)
		}

		if securityJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}

		fmt.Printf("Security score: %d/100\n", report.Overall)
		fmt.Printf("  Strength:   %d/40\n", report.Components.Strength)
		fmt.Printf("  Uniqueness: %d/30\n", report.Components.Uniqueness)
		fmt.Printf("  Exposure:   %d/30\n", report.Components.Exposure)

		if len(report.Issues) > 0 {
			fmt.Println("\nIssues:")
			for _, issue := range report.Issues {
				fmt.Printf("  [%s] item %d (%s): %s\n", issue.Severity, issue.ObjectID, issue.Tag, issue.Detail)
			}
		}
		if len(report.Suggestions) > 0 {
			fmt.Println("\nSuggestions:")
			for _, s := range report.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
		}
		return nil
	},
}
