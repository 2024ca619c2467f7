package main

import (
	"fmt"

	"github.com/passguard/passguard/internal/cli"
	"github.com/passguard/passguard/pkg/vault"

	"github.com/spf13/cobra"
)

var (
	listTrash  bool
	listFilter string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listTrash, "trash", false, "List trashed items instead")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Filter by tag (glob patterns allowed, e.g. 'git*')")
}

// listCmd lists items, most recently accessed first.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists credential items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		if listTrash {
			entries, err := v.ListTrash()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Trash is empty")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%-6d %-10s %-24s trashed %s\n",
					e.ObjectID, e.Type, e.Tag, e.TrashedDate.Format("2006-01-02"))
			}
			return nil
		}

		items, err := v.ListItems()
		if err != nil {
			return err
		}

		if listFilter != "" {
			items, err = filterByTag(items, listFilter)
			if err != nil {
				return err
			}
		}

		if len(items) == 0 {
			fmt.Println("No items stored")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%-6d %-10s %-24s accessed %s\n",
				item.ObjectID, item.Type, item.Tag, item.DateAccessed.Format("2006-01-02"))
		}
		return nil
	},
}

// filterByTag keeps items whose tag matches the glob pattern.
func filterByTag(items []vault.Item, pattern string) ([]vault.Item, error) {
	tags := make([]string, len(items))
	for i, item := range items {
		tags[i] = item.Tag
	}

	matched, err := cli.ExpandTagPattern(pattern, tags)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(matched))
	for _, tag := range matched {
		keep[tag] = true
	}

	var filtered []vault.Item
	for _, item := range items {
		if keep[item.Tag] {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
