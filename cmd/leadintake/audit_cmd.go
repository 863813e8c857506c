package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leadintake/internal/audit"
)

var tailLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the lead audit log",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the most recent audit events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Storage.AuditEnabled {
			return errors.New("audit log is disabled (storage.audit_enabled: false)")
		}
		db, err := audit.Open(cfg.AuditPath())
		if err != nil {
			return err
		}
		defer db.Close()

		evs, err := db.Recent(cmd.Context(), tailLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range evs {
			fmt.Fprintf(out, "%s  %-12s lead=%d %s\n", e.At.Format(time.RFC3339), e.Type, e.LeadID, e.Detail)
		}
		return nil
	},
}

func init() {
	auditTailCmd.Flags().IntVar(&tailLimit, "limit", 20, "number of events to print")
	auditCmd.AddCommand(auditTailCmd)
}
