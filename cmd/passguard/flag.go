package main

import (
	"fmt"
	"os"

	"github.com/passguard/passguard/pkg/breach"
	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
)

var (
	flagAccount string
	flagClear   bool
)

func init() {
	rootCmd.AddCommand(flagCmd)

	flagCmd.Flags().StringVar(&flagAccount, "account", "", "Account (email) to check against the breach index")
	flagCmd.Flags().BoolVar(&flagClear, "clear", false, "Clear the compromised flag without a breach check")
}

// flagCmd checks an item against the breach index and records the verdict.
var flagCmd = &cobra.Command{
	Use:   "flag [id]",
	Short: "Checks an item for known breaches and flags it",
	Long: `Checks the item's account against the Have I Been Pwned breach index.
The item's tag is matched against breach site names; a match flags the item
as compromised. The check is advisory and requires PASSGUARD_BREACH_API_KEY
(or breach_api_key in config.yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		if flagClear {
			if err := v.MarkCompromised(id, false); err != nil {
				return err
			}
			fmt.Printf("Item %d unflagged\n", id)
			return nil
		}

		item, err := v.GetItem(id)
		if err != nil {
			return err
		}
		if item.Type != vault.TypePassword {
			return fmt.Errorf("breach checks apply to password items only (item %d is a %s)", id, item.Type)
		}

		account := flagAccount
		if account == "" {
			account = item.Username
		}
		if account == "" {
			return fmt.Errorf("no account to check (set --account or the item's username)")
		}
		if cfg.BreachAPIKey == "" {
			return fmt.Errorf("no breach API key configured")
		}

		client := breach.NewClient(cfg.BreachAPIKey)
		check := client.CheckAccount(cmd.Context(), account, item.Tag)
		fmt.Println(breach.Describe(check, item.Tag))

		switch check.Result {
		case breach.ResultBreachFound:
			if err := v.MarkCompromised(id, true); err != nil {
				return err
			}
			fmt.Printf("Item %d flagged as compromised\n", id)
		case breach.ResultNoBreach:
			if err := v.MarkCompromised(id, false); err != nil {
				return err
			}
		default:
			// Advisory check failed; leave the stored flag untouched.
			fmt.Fprintln(os.Stderr, "warning: breach check inconclusive, flag unchanged")
		}
		return nil
	},
}
