package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Addr    string `yaml:"addr" json:"addr"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Storage struct {
		LeadsFile          string `yaml:"leads_file" json:"leads_file"`
		UsersFile          string `yaml:"users_file" json:"users_file"`
		AuditEnabled       bool   `yaml:"audit_enabled" json:"audit_enabled"`
		AuditDB            string `yaml:"audit_db" json:"audit_db"`
		AuditRetentionDays int    `yaml:"audit_retention_days" json:"audit_retention_days"`
		PruneEveryMinutes  int    `yaml:"prune_every_minutes" json:"prune_every_minutes"`
	} `yaml:"storage" json:"storage"`

	Pagination struct {
		DefaultLimit int `yaml:"default_limit" json:"default_limit"`
		MaxLimit     int `yaml:"max_limit" json:"max_limit"`
	} `yaml:"pagination" json:"pagination"`

	RateLimit struct {
		SubmitPerMinute int `yaml:"submit_per_minute" json:"submit_per_minute"`
		Burst           int `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Admin struct {
		Username string `yaml:"username" json:"username"`
		// Password is a fallback for hosts without a keychain.
		Password string `yaml:"password,omitempty" json:"-"`
	} `yaml:"admin" json:"admin"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"` // json | console
	} `yaml:"log" json:"log"`
}

func Default() Config {
	var c Config
	c.App.Addr = "127.0.0.1:8080"
	c.App.DataDir = "data"
	c.Storage.LeadsFile = "leads.json"
	c.Storage.UsersFile = "users.json"
	c.Storage.AuditEnabled = true
	c.Storage.AuditDB = "audit.db"
	c.Storage.AuditRetentionDays = 90
	c.Storage.PruneEveryMinutes = 60
	c.Pagination.DefaultLimit = 10
	c.Pagination.MaxLimit = 100
	c.RateLimit.SubmitPerMinute = 30
	c.RateLimit.Burst = 5
	c.Admin.Username = "admin"
	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.App.DataDir, name)
}

func (c Config) LeadsPath() string { return c.resolve(c.Storage.LeadsFile) }
func (c Config) UsersPath() string { return c.resolve(c.Storage.UsersFile) }
func (c Config) AuditPath() string { return c.resolve(c.Storage.AuditDB) }
func (c Config) LockPath() string  { return filepath.Join(c.App.DataDir, ".lock") }
