package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"leadintake/internal/accounts"
)

type AuthHandler struct {
	Accounts AccountService
	Log      *zap.Logger
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req accounts.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be a single JSON object.")
		return
	}

	_, err := h.Accounts.Signup(r.Context(), req)

	var verr *accounts.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ValidationResponse{Message: "Validation failed.", Errors: verr.Violations})
	case errors.Is(err, accounts.ErrEmailTaken):
		WriteJSON(w, http.StatusConflict, messageResponse{Message: "Email already registered."})
	case err != nil:
		h.Log.Error("signup",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error.")
	default:
		WriteJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully!"})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK       bool   `json:"ok"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "Request body must be a single JSON object.")
		return
	}

	role, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		h.Log.Info("login rejected",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("client", clientHost(r)),
		)
		WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password.")
	case err != nil:
		h.Log.Error("login",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error.")
	default:
		WriteJSON(w, http.StatusOK, loginResponse{OK: true, Username: req.Username, Role: role})
	}
}
