package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/interfaces/middleware"
	"github.com/awaisdevofficial/inbound2-sub001/internal/interfaces/rest"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	gin.SetMode(cfg.GinMode)

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	validator := auth.NewValidator(cfg.Auth.JWTSecret)
	if validator == nil {
		logger.Warn("JWT_SECRET not set, API authentication is disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, logger.Named("ratelimit"))
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	limiter.StartCleanup(time.Minute, stopCleanup)

	router := rest.NewRouter(rest.RouterConfig{
		Analysis:  a.services.Analysis,
		Email:     a.services.Email,
		Documents: a.services.Documents,
		DB:        a.services.DB(),
		Validator: validator,
		Limiter:   limiter,
		Origins:   cfg.HTTP.CORSOrigins,
		Logger:    logger.Named("http"),
	})

	if err := a.services.Scheduler.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.services.Scheduler.Stop()
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	// The server has 5 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(ctx)
	if shutdownErr != nil {
		logger.Error("server forced to shutdown", zap.Error(shutdownErr))
	}

	// Cancels an in-flight sweep rather than waiting out its runtime bound
	a.services.Scheduler.Stop()
	logger.Info("scheduler stopped")

	if shutdownErr != nil {
		return shutdownErr
	}
	logger.Info("server exiting")
	return nil
}
