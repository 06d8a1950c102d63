package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PreservesInputOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	results, err := Map(context.Background(), 3, items, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * n, nil
	})
	require.NoError(t, err)
	require.Len(t, results, len(items))
	for i, n := range items {
		assert.Equal(t, n*n, results[i].Value)
		assert.NoError(t, results[i].Err)
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	_, err := Map(context.Background(), 4, items, func(_ context.Context, _ int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestMap_DrainsAllTasksOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	items := []int{0, 1, 2, 3, 4, 5}

	results, err := Map(context.Background(), 2, items, func(_ context.Context, n int) (int, error) {
		ran.Add(1)
		if n == 1 {
			return 0, boom
		}
		time.Sleep(time.Millisecond)
		return n, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(len(items)), ran.Load(), "every task must run despite the failure")
	assert.ErrorIs(t, results[1].Err, boom)
	for i, r := range results {
		if i != 1 {
			assert.NoError(t, r.Err)
			assert.Equal(t, i, r.Value)
		}
	}
}

func TestMap_RecoversPanics(t *testing.T) {
	results, err := Map(context.Background(), 2, []string{"ok", "panic"}, func(_ context.Context, s string) (string, error) {
		if s == "panic" {
			panic("collaborator exploded")
		}
		return s, nil
	})

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "collaborator exploded", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Equal(t, "ok", results[0].Value)
	assert.ErrorAs(t, results[1].Err, &pe)
}

func TestMap_NonPositiveWidth(t *testing.T) {
	results, err := Map(context.Background(), 0, []int{1, 2}, func(_ context.Context, n int) (int, error) {
		return n + 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, results[0].Value)
	assert.Equal(t, 3, results[1].Value)
}

func TestDo_RecoversPanic(t *testing.T) {
	_, err := Do(context.Background(), 1, func(_ context.Context, _ int) (int, error) {
		var m map[string]int
		m["x"] = 1
		return 0, nil
	})
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "task panicked")
}
