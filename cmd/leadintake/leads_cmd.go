package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"leadintake/internal/domain"
	"leadintake/internal/leads"
	"leadintake/internal/store"
)

var (
	listPage  int
	listLimit int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of leads, newest first, as JSON",
	Example: `  leadintake leads list
  leadintake leads list --page 2 --limit 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := leads.NewService(store.NewFile[domain.Lead](cfg.LeadsPath(), logger), logger)
		page, err := svc.List(cmd.Context(), listPage, listLimit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	},
}

func init() {
	leadsListCmd.Flags().IntVar(&listPage, "page", leads.DefaultPage, "page number, starting at 1")
	leadsListCmd.Flags().IntVar(&listLimit, "limit", leads.DefaultLimit, "records per page")
	leadsCmd.AddCommand(leadsListCmd)
}
