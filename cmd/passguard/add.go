package main

import (
	"fmt"

	"github.com/passguard/passguard/pkg/generate"
	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
)

var (
	addType       string
	addUsername   string
	addWebpage    string
	addCardNumber string
	addExpiry     string
	addCVV        string
	addNotes      string
	addGenerate   bool
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addType, "type", "t", "password", "Item type: password, note, card")
	addCmd.Flags().StringVarP(&addUsername, "username", "u", "", "Username (password items)")
	addCmd.Flags().StringVar(&addWebpage, "url", "", "Webpage (password items)")
	addCmd.Flags().StringVar(&addCardNumber, "card-number", "", "Card number (card items)")
	addCmd.Flags().StringVar(&addExpiry, "expiry", "", "Card expiry, MM/YYYY (card items)")
	addCmd.Flags().StringVar(&addCVV, "cvv", "", "Card CVV (card items)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "Generate the password instead of prompting")
}

// addCmd stores a new credential item.
var addCmd = &cobra.Command{
	Use:   "add [tag]",
	Short: "Adds a credential item to the vault",
	Long: `Adds a credential item. The tag is the item's display label.

Examples:
  # Store a login, prompting for the password
  passguard add github --username alice --url https://github.com

  # Store a login with a generated password
  passguard add github --username alice --generate

  # Store a secure note
  passguard add "wifi code" --type note --notes "QZ81-..."

  # Store a card
  passguard add visa --type card --card-number 4111... --expiry 12/2028 --cvv 123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemType, err := parseItemType(addType)
		if err != nil {
			return err
		}

		item := &vault.Item{
			Tag:   args[0],
			Type:  itemType,
			Notes: addNotes,
		}

		switch itemType {
		case vault.TypePassword:
			item.Username = addUsername
			item.Webpage = addWebpage
			item.Password, err = resolvePassword()
			if err != nil {
				return err
			}
		case vault.TypeCard:
			item.CardNumber = addCardNumber
			item.Expiry = addExpiry
			item.CVV = addCVV
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		id, err := v.AddItem(item)
		if err != nil {
			return err
		}

		fmt.Printf("Item '%s' saved with ID %d\n", item.Tag, id)
		if addGenerate {
			fmt.Printf("Generated password: %s\n", item.Password)
		}
		return nil
	},
}

func parseItemType(s string) (vault.ItemType, error) {
	switch s {
	case "password":
		return vault.TypePassword, nil
	case "note":
		return vault.TypeNote, nil
	case "card":
		return vault.TypeCard, nil
	default:
		return "", fmt.Errorf("unknown item type %q (use password, note, or card)", s)
	}
}

// resolvePassword produces the item password from --generate or a prompt.
func resolvePassword() (string, error) {
	if addGenerate {
		mode, err := generate.ParseMode(cfg.GenerateMode)
		if err != nil {
			return "", err
		}
		return generate.Generate(mode, cfg.GenerateLength)
	}
	return readPassword("Enter item password: ")
}
