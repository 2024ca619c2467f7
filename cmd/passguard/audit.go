package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
}

// auditCmd is the parent command for audit log operations.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
}

// auditVerifyCmd verifies the audit log's HMAC chain.
var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verifies audit log HMAC chain integrity",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The HMAC key derives from the master-password digest, so the
		// chain can only be checked against an unlocked session.
		if err := ensureUnlocked(); err != nil {
			return err
		}
		defer v.Lock()

		result, err := v.Audit().Verify()
		if err != nil {
			return fmt.Errorf("failed to verify audit log: %w", err)
		}

		if result.Valid {
			fmt.Printf("Audit log verified: %d records, chain intact\n", result.RecordsTotal)
			return nil
		}

		fmt.Printf("Audit log verification FAILED (%d records)\n", result.RecordsTotal)
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
		return fmt.Errorf("audit log integrity check failed")
	},
}
