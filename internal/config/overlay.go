package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from files into the process environment.
// Missing files are skipped; variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays LEADS_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set("LEADS_ADDR", &cfg.App.Addr)
	set("LEADS_DATA_DIR", &cfg.App.DataDir)
	set("LEADS_LOG_LEVEL", &cfg.Log.Level)
	set("LEADS_LOG_FORMAT", &cfg.Log.Format)
	set("LEADS_ADMIN_USERNAME", &cfg.Admin.Username)
	set("LEADS_ADMIN_PASSWORD", &cfg.Admin.Password)

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" && !strings.Contains(v, ":") {
		host := "0.0.0.0"
		if i := strings.LastIndex(cfg.App.Addr, ":"); i > 0 {
			host = cfg.App.Addr[:i]
		}
		cfg.App.Addr = host + ":" + v
	}
}
