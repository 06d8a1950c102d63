package control

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlags_ZeroValueCleared(t *testing.T) {
	var f Flags
	assert.False(t, f.StopRequested())
	assert.False(t, f.PauseRequested())
}

func TestFlags_Toggle(t *testing.T) {
	var f Flags

	f.RequestStop()
	assert.True(t, f.StopRequested())
	assert.False(t, f.PauseRequested(), "flags are independent")

	f.EnableSingleStep()
	assert.True(t, f.PauseRequested())

	f.ClearStop()
	f.DisableSingleStep()
	assert.False(t, f.StopRequested())
	assert.False(t, f.PauseRequested())
}

func TestFlags_ChangedIsClosedOnNotify(t *testing.T) {
	var f Flags
	ch := f.Changed()

	select {
	case <-ch:
		t.Fatal("channel closed before any change")
	default:
	}

	f.Advance()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("Advance did not wake the waiter")
	}

	// A fresh channel is handed out after every wake.
	assert.NotEqual(t, ch, f.Changed())
}

func TestFlags_VisibleAcrossGoroutines(t *testing.T) {
	var f Flags
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.RequestStop()
	}()
	wg.Wait()

	assert.Eventually(t, f.StopRequested, time.Second, time.Millisecond)
}

func TestPackageHelpers_DriveDefault(t *testing.T) {
	t.Cleanup(func() {
		ResumeAnalyses()
		DisableSingleStep()
	})

	StopAnalyses()
	EnableSingleStep()
	assert.True(t, Default.StopRequested())
	assert.True(t, Default.PauseRequested())

	ResumeAnalyses()
	DisableSingleStep()
	assert.False(t, Default.StopRequested())
	assert.False(t, Default.PauseRequested())
}

func TestFlags_Released(t *testing.T) {
	var f Flags
	assert.True(t, f.Released(), "not paused")

	f.EnableSingleStep()
	assert.False(t, f.Released())

	f.Advance()
	f.Advance()
	assert.True(t, f.Released(), "an advance is held until taken")
	assert.False(t, f.Released(), "advances do not accumulate")

	f.RequestStop()
	assert.True(t, f.Released())
	f.ClearStop()

	f.Advance()
	f.DisableSingleStep()
	f.EnableSingleStep()
	assert.False(t, f.Released(), "leaving single-step drops a pending advance")
}

func TestFlags_AdvanceWhileRunningIsIgnored(t *testing.T) {
	var f Flags
	f.Advance()
	f.EnableSingleStep()
	assert.False(t, f.Released())
}
