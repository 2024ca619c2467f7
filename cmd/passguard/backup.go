package main

import (
	"fmt"
	"os"

	"github.com/passguard/passguard/pkg/audit"
	"github.com/passguard/passguard/pkg/backup"

	"github.com/spf13/cobra"
)

var (
	backupOutput string
	backupForce  bool
)

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	backupExportCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Output file path (required)")
	backupExportCmd.Flags().BoolVarP(&backupForce, "force", "f", false, "Overwrite existing file")
}

// backupCmd is the parent command for backup operations.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Encrypted vault backup operations",
}

// backupExportCmd writes an encrypted backup of the vault.
var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Creates an encrypted backup of the vault",
	Long: `Creates an encrypted backup containing every item, its security
record, and trash membership. The backup is sealed with a separate backup
password.

Examples:
  passguard backup export -o vault-backup.pgb
  passguard backup export -o vault-backup.pgb --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backupOutput == "" {
			return fmt.Errorf("--output is required")
		}
		if !backupForce {
			if _, err := os.Stat(backupOutput); err == nil {
				return fmt.Errorf("output file already exists: %s (use --force to overwrite)", backupOutput)
			}
		}

		password, err := promptBackupPassword()
		if err != nil {
			return err
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		out, err := os.OpenFile(backupOutput, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := backup.Export(v, out, password); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		_ = v.Audit().LogSuccess(audit.OpBackupExport, audit.SourceCLI, "")

		fmt.Printf("Backup created: %s\n", backupOutput)
		return nil
	},
}

// backupRestoreCmd reads a backup file back into the vault.
var backupRestoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Restores items from an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup file: %w", err)
		}
		defer in.Close()

		password, err := readPassword("Enter backup password: ")
		if err != nil {
			return err
		}

		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		result, err := backup.Restore(v, in, password)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		_ = v.Audit().LogSuccess(audit.OpBackupRestore, audit.SourceCLI, "")

		fmt.Printf("Restored %d items (%d in trash)\n", result.ItemsRestored, result.ItemsTrashed)
		return nil
	},
}

func promptBackupPassword() (string, error) {
	password1, err := readPassword("Enter backup password: ")
	if err != nil {
		return "", err
	}
	password2, err := readPassword("Confirm backup password: ")
	if err != nil {
		return "", err
	}
	if password1 != password2 {
		return "", fmt.Errorf("passwords do not match")
	}
	if password1 == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password1, nil
}
