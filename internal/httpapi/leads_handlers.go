package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"leadintake/internal/domain"
	"leadintake/internal/leads"
)

type LeadsHandler struct {
	Leads        LeadService
	Log          *zap.Logger
	DefaultLimit int
	MaxLimit     int
}

type createLeadResponse struct {
	Message string      `json:"message"`
	Lead    domain.Lead `json:"lead"`
}

func (h LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be a single JSON object.")
		return
	}

	lead, err := h.Leads.Submit(r.Context(), sub)

	var verr *leads.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ValidationResponse{Message: "Validation failed", Errors: verr.Violations})
	case err != nil:
		h.Log.Error("submit lead",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error.")
	default:
		WriteJSON(w, http.StatusCreated, createLeadResponse{Message: "Lead submitted successfully!", Lead: lead})
	}
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, okPage := intParam(r, "page", leads.DefaultPage)
	limit, okLimit := intParam(r, "limit", h.DefaultLimit)
	if !okPage || !okLimit || (h.MaxLimit > 0 && limit > h.MaxLimit) {
		WriteError(w, r, http.StatusBadRequest, "invalid_pagination", "page and limit must be positive integers within range.")
		return
	}

	res, err := h.Leads.List(r.Context(), page, limit)
	if err != nil {
		h.Log.Error("list leads",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Int("page", page),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to fetch leads.")
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
