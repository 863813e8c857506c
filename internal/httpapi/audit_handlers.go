package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"leadintake/internal/audit"
)

type AuditHandler struct {
	DB  *audit.DB
	Log *zap.Logger
}

// Recent lists the latest audit events. Loopback callers only.
func (h AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	if h.DB == nil {
		WriteError(w, r, http.StatusNotFound, "audit_disabled", "audit log is disabled")
		return
	}

	limit, ok := intParam(r, "limit", 50)
	if !ok || limit > 1000 {
		WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be 1..1000")
		return
	}

	evs, err := h.DB.Recent(r.Context(), limit)
	if err != nil {
		h.Log.Error("audit recent", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error.")
		return
	}
	if evs == nil {
		evs = []audit.Event{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": evs})
}
