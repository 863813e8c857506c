package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadintake/internal/secrets"
)

var adminPassword string

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the admin password in the OS keychain",
}

var setAdminPasswordCmd = &cobra.Command{
	Use:   "set-admin-password",
	Short: "Store the admin password in the OS keychain",
	Long: `Stores the password for admin.username in the OS keychain. The keychain
entry takes precedence over admin.password and LEADS_ADMIN_PASSWORD.

Without --password the password is read from the first line of stdin.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Admin.Username == "" {
			return errors.New("admin.username is empty")
		}
		pw := adminPassword
		if pw == "" {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		if err := secrets.SetAdminPassword(secrets.AdminAccount(cfg.Admin.Username), pw); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored admin password for %q\n", cfg.Admin.Username)
		return nil
	},
}

var deleteAdminPasswordCmd = &cobra.Command{
	Use:   "delete-admin-password",
	Short: "Remove the admin password from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return secrets.DeleteAdminPassword(secrets.AdminAccount(cfg.Admin.Username))
	},
}

func init() {
	setAdminPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "password to store (default: read from stdin)")
	secretsCmd.AddCommand(setAdminPasswordCmd, deleteAdminPasswordCmd)
}
