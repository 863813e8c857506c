package httpapi

import (
	"net/http"
	"path/filepath"

	"leadintake/internal/config"
)

// ConfigHandler exposes the running configuration to local operators.
// Admin.Password never leaves the process (json:"-").
type ConfigHandler struct {
	Cfg     config.Config
	CfgPath string
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	abs, _ := filepath.Abs(h.CfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{
		"path":   abs,
		"config": h.Cfg,
	})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	_, vr := config.NormalizeAndValidate(h.Cfg)
	WriteJSON(w, http.StatusOK, vr)
}
