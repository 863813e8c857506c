package httpapi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"leadintake/internal/accounts"
	"leadintake/internal/audit"
	"leadintake/internal/config"
	"leadintake/internal/domain"
	"leadintake/internal/events"
	"leadintake/internal/leads"
)

type LeadService interface {
	Submit(ctx context.Context, sub domain.Submission) (domain.Lead, error)
	List(ctx context.Context, page, limit int) (leads.Page, error)
}

type AccountService interface {
	Signup(ctx context.Context, r accounts.SignupRequest) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type Deps struct {
	Log *zap.Logger

	Leads    LeadService
	Accounts AccountService
	Hub      *events.Hub

	// Audit is nil when auditing is disabled.
	Audit *audit.DB

	Cfg     config.Config
	CfgPath string

	// Submit rate limit per client address; nil disables it.
	SubmitLimiter *ClientLimiter

	// Heartbeat interval for SSE streams.
	Heartbeat time.Duration
}
