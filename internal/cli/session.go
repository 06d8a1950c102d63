package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/surveyor"
	"github.com/aretw0/surveyor/internal/config"
	"github.com/aretw0/surveyor/pkg/control"
	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/aretw0/surveyor/pkg/observability"
	"github.com/aretw0/surveyor/pkg/ports"
	"github.com/aretw0/surveyor/pkg/treeprog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

const explorationLockKey = "explore"

// SessionOptions carries the collaborators a session does not build itself.
type SessionOptions struct {
	Logger    *slog.Logger
	Flags     *control.Flags
	Inspector surveyor.Inspector
	Hooks     []domain.LifecycleHooks
}

// Session is one configured exploration: store, program, metrics and surveyor wired together.
type Session struct {
	Config   config.Config
	Logger   *slog.Logger
	Flags    *control.Flags
	Store    ports.SnapshotStore
	Program  *treeprog.Program
	Surveyor *surveyor.Surveyor
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	locker     ports.DistributedLocker
	closeStore func() error
}

// NewSession opens the store and builds the surveyor described by cfg.
func NewSession(ctx context.Context, cfg config.Config, opts SessionOptions) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	flags := opts.Flags
	if flags == nil {
		flags = &control.Flags{}
	}
	if cfg.Surveyor.SingleStep {
		flags.EnableSingleStep()
	}

	handle, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	store, closeStore := handle.Store, handle.Close

	program, err := treeprog.New(cfg.Program, store)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)

	hooks := append([]domain.LifecycleHooks{metrics.Hooks(), observability.LogHooks(logger)}, opts.Hooks...)
	surveyorOpts := []surveyor.Option{
		surveyor.WithMaxActive(cfg.Surveyor.MaxActive),
		surveyor.WithPickleOnSpill(cfg.Surveyor.PickleOnSpill),
		surveyor.WithSaveDeadends(cfg.Surveyor.SaveDeadends),
		surveyor.WithFlags(flags),
		surveyor.WithLogger(logger),
		surveyor.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	if cfg.Surveyor.MaxConcurrency > 0 {
		surveyorOpts = append(surveyorOpts, surveyor.WithMaxConcurrency(cfg.Surveyor.MaxConcurrency))
	}
	if cfg.Surveyor.StepRate > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.Surveyor.StepRate), 1)
		surveyorOpts = append(surveyorOpts, surveyor.WithPreTick(func(ctx context.Context, _ *surveyor.Surveyor) error {
			return limiter.Wait(ctx)
		}))
	}
	if opts.Inspector != nil {
		surveyorOpts = append(surveyorOpts, surveyor.WithInspector(opts.Inspector))
	}

	s, err := surveyor.New(ctx, program, surveyorOpts...)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to create surveyor: %w", err)
	}

	logger.Info("session ready",
		"store", cfg.Store.Backend,
		"roots", cfg.Program.Roots,
		"depth", cfg.Program.Depth,
		"branching", cfg.Program.Branching,
		"max_active", s.Config().MaxActive,
		"max_concurrency", s.Config().MaxConcurrency,
	)

	return &Session{
		Config:     cfg,
		Logger:     logger,
		Flags:      flags,
		Store:      store,
		Program:    program,
		Surveyor:   s,
		Metrics:    metrics,
		Registry:   registry,
		locker:     handle.Locker,
		closeStore: closeStore,
	}, nil
}

// Run steps the surveyor for the configured number of steps, mapping SIGUSR1/SIGUSR2 onto the flags.
func (s *Session) Run(ctx context.Context) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.Logger.Warn("failed to release exploration lock", "err", err)
		}
	}()

	stopSignals := control.NotifySignals(ctx, s.Flags, s.Logger)
	defer stopSignals()

	err = s.Surveyor.Run(ctx, s.Config.Surveyor.Steps)
	if errors.Is(err, context.Canceled) {
		s.Logger.Warn("run interrupted", "status", s.Surveyor.String())
		return nil
	}
	return err
}

// lock takes the exploration lock when the store supports one and a lock TTL is configured.
func (s *Session) lock(ctx context.Context) (ports.UnlockFunc, error) {
	ttl := s.Config.Store.Redis.LockTTL
	if s.locker == nil || ttl <= 0 {
		return func(context.Context) error { return nil }, nil
	}
	unlock, err := s.locker.Lock(ctx, explorationLockKey, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire exploration lock: %w", err)
	}
	s.Logger.Debug("exploration lock acquired", "ttl", ttl)
	return unlock, nil
}

// Close releases the snapshot store.
func (s *Session) Close() error {
	return s.closeStore()
}
