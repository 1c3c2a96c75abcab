package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvfarias/daily-diet-api/config"
	"github.com/brianvfarias/daily-diet-api/middlewares"
	"github.com/brianvfarias/daily-diet-api/routes"
	"github.com/brianvfarias/daily-diet-api/services"
	"github.com/brianvfarias/daily-diet-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, log *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg, log)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	hub := services.NewRealtimeHub(log)
	meals := services.NewMealService(db, services.NewMealEvents(hub, log))
	limiter := middlewares.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)

	sched := cron.New()
	if _, err := sched.AddFunc("@every 5m", func() {
		if n := limiter.Cleanup(); n > 0 {
			log.Debug("dropped idle rate limiters", zap.Int("count", n))
		}
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	router := routes.SetupRouter(routes.Dependencies{
		Log:          log,
		Sessions:     services.NewSessionService(utils.NewSessionToken),
		Meals:        meals,
		Analytics:    services.NewAnalyticsService(meals),
		Realtime:     hub,
		DB:           db,
		Limiter:      limiter,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
