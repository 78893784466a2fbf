package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/application/services"
	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/ports"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/database"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/llm"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/locker"
	"github.com/awaisdevofficial/inbound2-sub001/internal/infrastructure/mailer"
)

// app bundles the wired services and everything that must be closed on exit.
type app struct {
	services *services.ServiceManager
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	logger.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	var lock ports.Locker = locker.NewMemoryLocker()
	if cfg.Redis.URL != "" {
		redisLocker, err := locker.NewRedisLocker(ctx, cfg.Redis.URL, logger.Named("locker"))
		if err != nil {
			a.close(logger)
			return nil, err
		}
		a.closers = append(a.closers, redisLocker.Close)
		lock = redisLocker
		logger.Info("using redis lead locks")
	}

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		a.close(logger)
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if client == nil {
		logger.Warn("no LLM provider configured, call analysis is disabled")
	} else {
		logger.Info("LLM provider configured", zap.String("provider", client.Provider()))
	}

	a.services, err = services.NewServiceManager(cfg, services.Dependencies{
		DB:     db,
		LLM:    client,
		Locker: lock,
		Mailer: mailer.New(cfg.SMTP.Timeout, logger.Named("mailer")),
		Logger: logger,
	})
	if err != nil {
		a.close(logger)
		return nil, err
	}
	return a, nil
}

func (a *app) close(logger *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
