package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leadintake/internal/config"
	"leadintake/internal/logging"
)

// skipValidate marks commands that must run against a config that may not
// pass validation yet.
const skipValidate = "skip-validate"

var (
	cfgPath  string
	logLevel string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leadintake",
	Short: "Lead intake service for immigration-visa prospects",
	Long: `leadintake accepts prospect submissions over HTTP, validates them and
stores them in a JSON file under the data directory.

Configuration comes from config.yml (see "leadintake config init"), then .env,
then LEADS_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		config.ApplyEnv(&c)
		if logLevel != "" {
			c.Log.Level = logLevel
		}

		lenient := cmd.Annotations[skipValidate] == "true"
		if !lenient {
			if err := config.Validate(c); err != nil {
				return err
			}
		}

		l, err := logging.New(c.Log.Level, c.Log.Format)
		if err != nil {
			if !lenient {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			l = zap.NewNop()
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yml", "path to config.yml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, leadsCmd, configCmd, auditCmd, secretsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
