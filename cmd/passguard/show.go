package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/passguard/passguard/pkg/strength"
	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
)

var showReveal bool

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "Print secret fields in plaintext")
}

// showCmd prints a single item, masking secrets unless --reveal is set.
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Shows a credential item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		item, err := v.GetItem(id)
		if err != nil {
			return err
		}

		sec, err := v.GetSecurity(id)
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %d\n", item.ObjectID)
		fmt.Printf("Tag:      %s\n", item.Tag)
		fmt.Printf("Type:     %s\n", item.Type)
		switch item.Type {
		case vault.TypePassword:
			fmt.Printf("Username: %s\n", item.Username)
			fmt.Printf("Password: %s\n", maskSecret(item.Password))
			if item.Webpage != "" {
				fmt.Printf("Webpage:  %s\n", item.Webpage)
			}
		case vault.TypeCard:
			fmt.Printf("Number:   %s\n", maskSecret(item.CardNumber))
			fmt.Printf("Expiry:   %s\n", item.Expiry)
			fmt.Printf("CVV:      %s\n", maskSecret(item.CVV))
		}
		if item.Notes != "" {
			fmt.Printf("Notes:    %s\n", item.Notes)
		}
		fmt.Printf("Accessed: %s\n", item.DateAccessed.Format(time.RFC3339))
		fmt.Printf("Strength: %s (%d/%d)\n", strength.Classify(sec.Complexity), sec.Complexity, strength.MaxScore)
		if sec.Compromised {
			fmt.Println("WARNING: this item is flagged as compromised")
		}
		return nil
	},
}

// maskSecret hides all but the last four characters of a secret value.
func maskSecret(s string) string {
	if showReveal || s == "" {
		return s
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return "****" + s[len(s)-4:]
}
