package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeForce bool

func init() {
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(restoreItemCmd)
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "Skip confirmation prompt")
}

// trashCmd moves an item to the trash.
var trashCmd = &cobra.Command{
	Use:   "trash [id]",
	Short: "Moves a credential item to the trash",
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

		if err := v.TrashItem(id); err != nil {
			return err
		}
		fmt.Printf("Item %d moved to trash\n", id)
		return nil
	},
}

// restoreItemCmd moves an item out of the trash.
var restoreItemCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restores a credential item from the trash",
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

		if err := v.RestoreItem(id); err != nil {
			return err
		}
		fmt.Printf("Item %d restored\n", id)
		return nil
	},
}

// purgeCmd permanently deletes a trashed item.
var purgeCmd = &cobra.Command{
	Use:   "purge [id]",
	Short: "Permanently deletes a trashed item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}

		if !purgeForce && !confirm(fmt.Sprintf("Permanently delete item %d?", id)) {
			fmt.Println("Aborted")
			return nil
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		if err := v.PurgeItem(id); err != nil {
			return err
		}
		fmt.Printf("Item %d permanently deleted\n", id)
		return nil
	},
}
