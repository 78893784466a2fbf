package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
)

// sweepMaxRuntime bounds one sweep so a hung model call cannot stall the schedule.
const sweepMaxRuntime = 10 * time.Minute

// SchedulerService runs the analysis sweep on a cron schedule
type SchedulerService struct {
	analysis *AnalysisService
	cfg      config.SweepConfig
	logger   *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(analysis *AnalysisService, cfg config.SweepConfig, logger *zap.Logger) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		analysis: analysis,
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the sweep and starts the cron loop. An empty schedule
// leaves the scheduler disabled.
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.cfg.Schedule == "" {
		return nil
	}

	cl := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))
	if _, err := c.AddFunc(s.cfg.Schedule, s.runSweep); err != nil {
		return fmt.Errorf("invalid ANALYSIS_SWEEP_SCHEDULE %q: %w", s.cfg.Schedule, err)
	}

	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info("analysis sweep scheduled",
		zap.String("schedule", s.cfg.Schedule),
		zap.Int("batch", s.cfg.Batch),
		zap.Int("concurrency", s.cfg.Concurrency))
	return nil
}

// Stop stops scheduling, cancels a running sweep and waits for it to return.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.cancel()
	s.mu.Unlock()

	<-c.Stop().Done()
	s.logger.Info("analysis sweep stopped")
}

func (s *SchedulerService) runSweep() {
	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, sweepMaxRuntime)
	defer cancel()

	start := time.Now()
	res, err := s.analysis.SweepPending(ctx, s.cfg.Batch, s.cfg.Concurrency)
	fields := []zap.Field{
		zap.Int("found", res.Found),
		zap.Int("analyzed", res.Analyzed),
		zap.Int("failed", res.Failed),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("analysis sweep failed", append(fields, zap.Error(err))...)
		return
	}
	if res.Found > 0 {
		s.logger.Info("analysis sweep finished", fields...)
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
