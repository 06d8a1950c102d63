package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/aretw0/surveyor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStep(ctx, &domain.StepEvent{
		Counts:   domain.Counts{Active: 3, Spilled: 2, Deadended: 1},
		Duration: 5 * time.Millisecond,
	})
	hooks.OnDeadend(ctx, &domain.PathEvent{PathID: "a"})
	hooks.OnDeadend(ctx, &domain.PathEvent{PathID: "b"})
	hooks.OnErrored(ctx, &domain.PathEvent{PathID: "c"})
	hooks.OnFiltered(ctx, &domain.PathEvent{PathID: "d"})
	hooks.OnSpill(ctx, &domain.SpillEvent{Resumed: 1, Suspended: 4})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Steps))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Paths.WithLabelValues("active")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Paths.WithLabelValues("spilled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Archived.WithLabelValues("deadend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Archived.WithLabelValues("errored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Filtered))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Spilled.WithLabelValues("suspended")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StepDuration))

	expected := `
# HELP surveyor_steps_total Total number of completed steps.
# TYPE surveyor_steps_total counter
surveyor_steps_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "surveyor_steps_total"))
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnFiltered(context.Background(), &domain.PathEvent{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Filtered))
}

func TestCombine(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnStep: func(context.Context, *domain.StepEvent) { calls = append(calls, "first") },
	}
	second := domain.LifecycleHooks{
		OnStep:  func(context.Context, *domain.StepEvent) { calls = append(calls, "second") },
		OnSpill: func(context.Context, *domain.SpillEvent) { calls = append(calls, "spill") },
	}

	h := observability.Combine(first, domain.LifecycleHooks{}, second)
	h.OnStep(context.Background(), &domain.StepEvent{})
	h.OnSpill(context.Background(), &domain.SpillEvent{})

	assert.Equal(t, []string{"first", "second", "spill"}, calls)
	assert.Nil(t, h.OnDeadend)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := observability.LogHooks(logger)
	h.OnErrored(context.Background(), &domain.PathEvent{PathID: "r0.1", Backtrace: domain.Backtrace{"r0", "1"}})

	assert.Contains(t, buf.String(), "path errored")
	assert.Contains(t, buf.String(), `backtrace="r0 -> 1"`)
}
