package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if _, port, err := net.SplitHostPort(cfg.App.Addr); err != nil {
		errs = append(errs, fmt.Sprintf("app.addr %q must be host:port", cfg.App.Addr))
	} else if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, "app.addr port must be 1..65535")
	}
	if strings.TrimSpace(cfg.App.DataDir) == "" {
		errs = append(errs, "app.data_dir is required")
	}

	if strings.TrimSpace(cfg.Storage.LeadsFile) == "" {
		errs = append(errs, "storage.leads_file is required")
	}
	if strings.TrimSpace(cfg.Storage.UsersFile) == "" {
		errs = append(errs, "storage.users_file is required")
	}
	if cfg.Storage.AuditEnabled {
		if strings.TrimSpace(cfg.Storage.AuditDB) == "" {
			errs = append(errs, "storage.audit_db is required when storage.audit_enabled=true")
		}
		if cfg.Storage.AuditRetentionDays < 0 {
			errs = append(errs, "storage.audit_retention_days must be >= 0")
		}
		if cfg.Storage.AuditRetentionDays > 0 && cfg.Storage.PruneEveryMinutes <= 0 {
			errs = append(errs, "storage.prune_every_minutes must be > 0 when retention is set")
		}
	}

	if cfg.Pagination.DefaultLimit <= 0 {
		errs = append(errs, "pagination.default_limit must be > 0")
	}
	if cfg.Pagination.MaxLimit < cfg.Pagination.DefaultLimit {
		errs = append(errs, "pagination.max_limit must be >= pagination.default_limit")
	}

	if cfg.RateLimit.SubmitPerMinute < 0 {
		errs = append(errs, "rate_limit.submit_per_minute must be >= 0 (0 disables)")
	}
	if cfg.RateLimit.SubmitPerMinute > 0 && cfg.RateLimit.Burst <= 0 {
		errs = append(errs, "rate_limit.burst must be > 0 when rate limiting is on")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug|info|warn|error", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be json|console", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// SaveAtomic validates cfg and replaces path via a temp file, keeping the
// previous version as path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
