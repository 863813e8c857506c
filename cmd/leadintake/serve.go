package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadintake/internal/accounts"
	"leadintake/internal/audit"
	"leadintake/internal/config"
	"leadintake/internal/domain"
	"leadintake/internal/events"
	"leadintake/internal/httpapi"
	"leadintake/internal/leads"
	"leadintake/internal/scheduler"
	"leadintake/internal/secrets"
	"leadintake/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves /api/leads, /api/signup, /api/login, /events and /health on app.addr.

Only one instance may serve a data directory at a time; a second one exits
with an error instead of racing the first on the JSON files.`,
	RunE: runServe,
}

// app holds everything a request handler depends on.
type app struct {
	hub      *events.Hub
	audit    *audit.DB
	leads    *leads.Service
	accounts *accounts.Service
}

func newApp(c config.Config, log *zap.Logger) (*app, error) {
	a := &app{hub: events.NewHub()}

	if c.Storage.AuditEnabled {
		db, err := audit.Open(c.AuditPath())
		if err != nil {
			return nil, fmt.Errorf("open audit db: %w", err)
		}
		a.audit = db
	}

	leadFile := store.NewFile[domain.Lead](c.LeadsPath(), log)
	leadFile.OnReset = func(ctx context.Context, path string) {
		a.record(ctx, log, audit.Event{Type: audit.TypeStoreReset, Detail: path})
	}

	a.leads = leads.NewService(leadFile, log,
		func(ctx context.Context, l domain.Lead) {
			a.record(ctx, log, audit.Event{LeadID: l.ID, Type: audit.TypeLeadCreated})
		},
		func(ctx context.Context, l domain.Lead) {
			a.hub.Publish(events.Encode(httpapi.RequestIDFrom(ctx), events.TypeLeadCreated, map[string]any{"id": l.ID}))
		},
	)

	adminUser := c.Admin.Username
	adminFallback := c.Admin.Password
	a.accounts = accounts.NewService(
		store.NewFile[domain.User](c.UsersPath(), log),
		accounts.Admin{
			Username: adminUser,
			Password: func() (string, error) {
				return secrets.AdminPassword(secrets.AdminAccount(adminUser), adminFallback)
			},
		},
		log,
	)
	return a, nil
}

// record is best effort: a lead that was saved stays saved even if the audit
// write fails.
func (a *app) record(ctx context.Context, log *zap.Logger, e audit.Event) {
	if a.audit == nil {
		return
	}
	if err := a.audit.Record(ctx, e); err != nil {
		log.Warn("audit record failed", zap.String("type", e.Type), zap.Int64("lead_id", e.LeadID), zap.Error(err))
	}
}

func (a *app) Close() error {
	a.hub.Close()
	if a.audit != nil {
		return a.audit.Close()
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("data dir %s is in use by another leadintake instance", cfg.App.DataDir)
	}
	defer func() { _ = lock.Unlock() }()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv := &http.Server{
		Addr: cfg.App.Addr,
		Handler: httpapi.NewHandler(httpapi.Deps{
			Log:           logger,
			Leads:         a.leads,
			Accounts:      a.accounts,
			Hub:           a.hub,
			Audit:         a.audit,
			Cfg:           cfg,
			CfgPath:       cfgPath,
			SubmitLimiter: httpapi.NewClientLimiter(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.Burst),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("leads_file", cfg.LeadsPath()),
			zap.Bool("audit", a.audit != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		// SSE handlers only return once their subscription closes.
		a.hub.Close()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	if a.audit != nil && cfg.Storage.AuditRetentionDays > 0 {
		every := time.Duration(cfg.Storage.PruneEveryMinutes) * time.Minute
		if every <= 0 {
			every = time.Hour
		}
		days := cfg.Storage.AuditRetentionDays
		g.Go(func() error {
			scheduler.Every(gctx, logger, every, "audit-prune", func(ctx context.Context) error {
				n, err := a.audit.Prune(ctx, time.Now().AddDate(0, 0, -days))
				if n > 0 {
					logger.Info("audit pruned", zap.Int64("deleted", n))
				}
				return err
			})
			return nil
		})
	}

	return g.Wait()
}
