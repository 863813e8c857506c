package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed copy of cfg along with hard errors
// (same rules as Validate) and softer warnings.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.App.Addr = strings.TrimSpace(out.App.Addr)
	out.App.DataDir = strings.TrimSpace(out.App.DataDir)
	out.Storage.LeadsFile = strings.TrimSpace(out.Storage.LeadsFile)
	out.Storage.UsersFile = strings.TrimSpace(out.Storage.UsersFile)
	out.Storage.AuditDB = strings.TrimSpace(out.Storage.AuditDB)
	out.Admin.Username = strings.TrimSpace(out.Admin.Username)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	if out.LeadsPath() == out.UsersPath() && out.Storage.LeadsFile != "" {
		res.addErr("storage.leads_file and storage.users_file point at the same file: %s", out.LeadsPath())
	}

	if out.Admin.Password != "" {
		res.addWarn("admin.password is stored in plain text; prefer `leadintake secrets set-admin-password`.")
	}
	if out.Admin.Username == "" {
		res.addWarn("admin.username is empty; only registered users can log in.")
	}
	if out.Pagination.MaxLimit > 1000 {
		res.addWarn("pagination.max_limit is very high (%d); every list call loads and sorts the whole file.", out.Pagination.MaxLimit)
	}
	if out.RateLimit.SubmitPerMinute == 0 {
		res.addWarn("rate_limit.submit_per_minute is 0; submissions are not rate limited.")
	}
	if !out.Storage.AuditEnabled {
		res.addWarn("storage.audit_enabled is false; lead creation will not be audited.")
	}
	if filepath.IsAbs(out.Storage.LeadsFile) && !strings.HasPrefix(out.Storage.LeadsFile, filepath.Clean(out.App.DataDir)) {
		res.addWarn("storage.leads_file is outside app.data_dir; the instance lock will not cover it.")
	}

	return out, res
}
