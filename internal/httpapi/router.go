package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"leadintake/internal/leads"
)

func NewMux(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Leads
	defLimit := d.Cfg.Pagination.DefaultLimit
	if defLimit <= 0 {
		defLimit = leads.DefaultLimit
	}
	lh := LeadsHandler{
		Leads:        d.Leads,
		Log:          d.Log,
		DefaultLimit: defLimit,
		MaxLimit:     d.Cfg.Pagination.MaxLimit,
	}
	mux.HandleFunc("/api/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  lh.List,
		http.MethodPost: d.SubmitLimiter.Limit(lh.Create),
	}))

	// Accounts
	ah := AuthHandler{Accounts: d.Accounts, Log: d.Log}
	mux.HandleFunc("/api/signup", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Signup,
	}))
	mux.HandleFunc("/api/login", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Login,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub, Heartbeat: d.Heartbeat}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Operator endpoints (loopback only)
	ch := ConfigHandler{Cfg: d.Cfg, CfgPath: d.CfgPath}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))
	audh := AuditHandler{DB: d.Audit, Log: d.Log}
	mux.HandleFunc("/api/audit", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: audh.Recent,
	}))

	return mux
}

// NewHandler is the mux wrapped in the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Chain(NewMux(d),
		RequestID,
		Recover(d.Log),
		AccessLog(d.Log),
		Cors,
	)
}
