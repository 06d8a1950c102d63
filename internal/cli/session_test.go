package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/surveyor"
	"github.com/aretw0/surveyor/internal/adapters/redis"
	"github.com/aretw0/surveyor/internal/config"
	"github.com/aretw0/surveyor/internal/testutils"
	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Program.Roots = 2
	cfg.Program.Depth = 3
	cfg.Program.Branching = 2
	cfg.Program.PayloadBytes = 8
	cfg.Surveyor.MaxActive = 3
	cfg.Surveyor.MaxConcurrency = 2
	return cfg
}

func TestSession_RunToCompletion(t *testing.T) {
	cfg := smallConfig()
	cfg.Program.ErrorEvery = 5
	cfg.Surveyor.PickleOnSpill = true

	var deadends int
	hooks := domain.LifecycleHooks{
		OnDeadend: func(context.Context, *domain.PathEvent) { deadends++ },
	}
	session, err := NewSession(context.Background(), cfg, SessionOptions{
		Logger: testutils.NopLogger(),
		Hooks:  []domain.LifecycleHooks{hooks},
	})
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Run(context.Background()))

	s := session.Surveyor
	assert.True(t, s.Done())
	assert.Len(t, s.Deadended(), session.Program.Leaves())
	assert.Equal(t, session.Program.Leaves(), deadends)
	assert.Equal(t, float64(s.CurrentStep()), testutil.ToFloat64(session.Metrics.Steps))
	assert.Equal(t, float64(len(s.Errored())), testutil.ToFloat64(session.Metrics.Archived.WithLabelValues("errored")))
	assert.NotEmpty(t, s.Errored())
}

func TestSession_BoundedSteps(t *testing.T) {
	cfg := smallConfig()
	cfg.Surveyor.Steps = 2

	session, err := NewSession(context.Background(), cfg, SessionOptions{Logger: testutils.NopLogger()})
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, 2, session.Surveyor.CurrentStep())
	assert.False(t, session.Surveyor.Done())
}

func TestSession_SingleStepUsesInspector(t *testing.T) {
	cfg := smallConfig()
	cfg.Surveyor.SingleStep = true

	calls := 0
	inspector := surveyor.InspectorFunc(func(ctx context.Context, s *surveyor.Surveyor) error {
		calls++
		if calls == 3 {
			s.Flags().RequestStop()
		}
		return nil
	})
	session, err := NewSession(context.Background(), cfg, SessionOptions{
		Logger:    testutils.NopLogger(),
		Inspector: inspector,
	})
	require.NoError(t, err)
	defer session.Close()

	assert.True(t, session.Flags.PauseRequested())
	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, session.Surveyor.CurrentStep())
}

func TestSession_SequentialProgram(t *testing.T) {
	cfg := smallConfig()
	cfg.Program.Sequential = true
	cfg.Surveyor.MaxConcurrency = 0

	session, err := NewSession(context.Background(), cfg, SessionOptions{Logger: testutils.NopLogger()})
	require.NoError(t, err)
	defer session.Close()
	assert.Equal(t, 1, session.Surveyor.Config().MaxConcurrency)
}

func TestSession_CancelledRunIsNotAnError(t *testing.T) {
	session, err := NewSession(context.Background(), smallConfig(), SessionOptions{Logger: testutils.NopLogger()})
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, session.Run(ctx))
	assert.Equal(t, 0, session.Surveyor.CurrentStep())
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Surveyor.MaxActive = 0
	_, err := NewSession(context.Background(), cfg, SessionOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func redisConfig(t *testing.T, mr *miniredis.Miniredis) config.Config {
	t.Helper()
	cfg := smallConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.Redis.Addr = mr.Addr()
	cfg.Store.Redis.Prefix = "svy:"
	cfg.Store.Redis.LockTTL = time.Minute
	return cfg
}

func TestSession_RunHoldsExplorationLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)

	locked := false
	hooks := domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) { locked = locked || mr.Exists("svy:lock:explore") },
	}
	session, err := NewSession(context.Background(), cfg, SessionOptions{
		Logger: testutils.NopLogger(),
		Hooks:  []domain.LifecycleHooks{hooks},
	})
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Run(context.Background()))
	assert.True(t, locked, "lock is held while stepping")
	assert.False(t, mr.Exists("svy:lock:explore"), "lock is released after the run")
}

func TestSession_RunFailsWhileLockedElsewhere(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)

	other := redis.New(mr.Addr(), "", 0, redis.WithPrefix("svy:"))
	defer other.Close()
	unlock, err := other.Locker().Lock(context.Background(), "explore", time.Minute)
	require.NoError(t, err)
	defer unlock(context.Background())

	session, err := NewSession(context.Background(), cfg, SessionOptions{Logger: testutils.NopLogger()})
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err = session.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, session.Surveyor.CurrentStep())
}

func TestSession_StepRateThrottles(t *testing.T) {
	cfg := smallConfig()
	cfg.Surveyor.Steps = 3
	cfg.Surveyor.StepRate = 20

	session, err := NewSession(context.Background(), cfg, SessionOptions{Logger: testutils.NopLogger()})
	require.NoError(t, err)
	defer session.Close()

	start := time.Now()
	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, 3, session.Surveyor.CurrentStep())
	// The first step spends the initial token; the next two wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
