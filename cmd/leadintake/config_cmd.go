package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"leadintake/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or check config.yml",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default config.yml if none exists",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.EnsureUserConfig(cfgPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left unchanged\n", cfgPath)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:         "validate",
	Short:       "Report config errors and warnings after env overrides",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipValidate: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res := config.NormalizeAndValidate(cfg)
		out := cmd.OutOrStdout()
		for _, e := range res.Errors {
			fmt.Fprintf(out, "error: %s\n", e)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if !res.OK() {
			return errors.New("config is invalid")
		}
		fmt.Fprintln(out, "ok")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configValidateCmd)
}
