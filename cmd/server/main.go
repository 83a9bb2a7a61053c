// cmd/server/main.go
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/marketdesk-backend/internal/config"
	"github.com/unclebandit/marketdesk-backend/internal/controller"
	"github.com/unclebandit/marketdesk-backend/internal/db"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/seed"
	"github.com/unclebandit/marketdesk-backend/internal/service"
	"github.com/unclebandit/marketdesk-backend/internal/session"
)

func main() {
	var (
		port  string
		debug bool
	)

	root := &cobra.Command{
		Use:          "server",
		Short:        "Marketing dashboard API and pages",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			return serve(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	root.Flags().BoolVar(&debug, "debug", false, "debug logging (overrides APP_DEBUG)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if !cfg.EnvFileLoaded {
		logger.Warn("⚠️ No .env file found, relying on OS environment variables")
	}
	logger.Info("config loaded", zap.Any("config", cfg.Redacted()))

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	users, err := service.BuildUsers(data.Users, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(users)
	leadRepo := repository.NewLeadRepository(data.Leads)
	campaignRepo := repository.NewCampaignRepository(data.Campaigns, data.Templates)
	socialRepo := repository.NewSocialRepository(data.Posts, data.Accounts)
	reportRepo := repository.NewReportRepository(data.Reports, data.ScheduledReports)
	segmentRepo := repository.NewSegmentRepository(data.Segments)
	snapshots := repository.NewSnapshotRepository(data.Dashboard, data.Analytics)

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	sessions := session.NewManager(store, cfg.SessionTTL, cfg.SessionRememberTTL)

	q, err := openQueue(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := q.Close(); err != nil {
			logger.Warn("queue close failed", zap.Error(err))
		}
	}()

	authService := &service.AuthService{UserRepo: userRepo, Sessions: sessions, Queue: q, Logger: logger}
	leadService := &service.LeadService{LeadRepo: leadRepo, Queue: q, Logger: logger}
	campaignService := &service.CampaignService{CampaignRepo: campaignRepo, LeadRepo: leadRepo, Queue: q, Logger: logger}
	socialService := &service.SocialService{SocialRepo: socialRepo, Queue: q, Logger: logger}
	reportService := &service.ReportService{
		ReportRepo:   reportRepo,
		LeadRepo:     leadRepo,
		CampaignRepo: campaignRepo,
		SocialRepo:   socialRepo,
		Snapshots:    snapshots,
		Queue:        q,
		Logger:       logger,
	}
	segmentService := &service.SegmentService{SegmentRepo: segmentRepo, Queue: q, Logger: logger}
	settingsService := &service.SettingsService{UserRepo: userRepo, Queue: q, Logger: logger}
	dashboardService := &service.DashboardService{Snapshots: snapshots}

	if err := queue.StartReportSubscriber(q, reportService, logger); err != nil {
		return err
	}
	if err := queue.StartNotificationLogger(q, logger); err != nil {
		return err
	}

	router, err := controller.NewRouter(controller.Services{
		Auth:      authService,
		Leads:     leadService,
		Campaigns: campaignService,
		Social:    socialService,
		Reports:   reportService,
		Segments:  segmentService,
		Settings:  settingsService,
		Dashboard: dashboardService,
	}, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("🚀 Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sessions.Sweep(gctx, cfg.SessionSweep, func(n int, err error) {
			if err != nil {
				logger.Warn("session sweep failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		})
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

// openSessionStore uses Postgres when a database is configured, memory otherwise.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionDatabaseURL == "" {
		return session.NewMemoryStore(), func() {}, nil
	}
	conn, err := db.Open(ctx, cfg.SessionDatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return &session.PostgresStore{DB: conn}, func() { _ = conn.Close() }, nil
}

func openQueue(cfg *config.Config, logger *zap.Logger) (queue.Queue, error) {
	if cfg.AMQPURL == "" {
		return queue.NewInMemoryQueue(logger), nil
	}
	q, err := queue.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("mirroring notifications to RabbitMQ", zap.String("exchange", cfg.AMQPExchange))
	return q, nil
}
