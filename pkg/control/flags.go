package control

import (
	"sync"
	"sync/atomic"
)

// Flags carries the stop and pause requests for one or more run loops.
// The zero value is ready to use with both flags cleared.
type Flags struct {
	stop  atomic.Bool
	pause atomic.Bool

	mu      sync.Mutex
	wake    chan struct{}
	advance bool
}

// Default is the process-wide Flags instance used when a Surveyor is not given its own.
var Default = &Flags{}

// RequestStop asks every loop watching f to return at its next step boundary.
func (f *Flags) RequestStop() {
	f.stop.Store(true)
	f.notify()
}

// ClearStop withdraws a stop request.
func (f *Flags) ClearStop() {
	f.stop.Store(false)
	f.notify()
}

// StopRequested reports whether a stop has been requested.
func (f *Flags) StopRequested() bool {
	return f.stop.Load()
}

// EnableSingleStep makes every loop watching f pause after each step.
func (f *Flags) EnableSingleStep() {
	f.pause.Store(true)
	f.notify()
}

// DisableSingleStep leaves single-step mode, dropping any pending Advance.
func (f *Flags) DisableSingleStep() {
	f.mu.Lock()
	f.advance = false
	f.pause.Store(false)
	f.mu.Unlock()
	f.notify()
}

// PauseRequested reports whether single-step mode is on.
func (f *Flags) PauseRequested() bool {
	return f.pause.Load()
}

// Advance lets a paused loop take one more step without changing either flag.
// In single-step mode the grant is held until a waiter consumes it through Released,
// so an Advance that lands while a step is running is not lost. Grants do not accumulate.
func (f *Flags) Advance() {
	f.mu.Lock()
	if f.pause.Load() {
		f.advance = true
	}
	f.mu.Unlock()
	f.notify()
}

// Released reports whether a loop paused after a step may go on: a stop is pending,
// single-step mode is off, or an Advance is waiting. It consumes that Advance.
//
// Waiters take Changed first and call Released after, so no change slips between them:
//
//	for {
//		ch := f.Changed()
//		if f.Released() {
//			break
//		}
//		<-ch
//	}
func (f *Flags) Released() bool {
	if f.stop.Load() || !f.pause.Load() {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.advance {
		f.advance = false
		return true
	}
	return false
}

// Changed returns a channel that is closed on the next flag change or Advance call.
func (f *Flags) Changed() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wake == nil {
		f.wake = make(chan struct{})
	}
	return f.wake
}

func (f *Flags) notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wake != nil {
		close(f.wake)
		f.wake = nil
	}
}

// StopAnalyses requests a stop on Default.
func StopAnalyses() { Default.RequestStop() }

// ResumeAnalyses clears a stop request on Default.
func ResumeAnalyses() { Default.ClearStop() }

// EnableSingleStep turns on single-step mode on Default.
func EnableSingleStep() { Default.EnableSingleStep() }

// DisableSingleStep turns off single-step mode on Default.
func DisableSingleStep() { Default.DisableSingleStep() }
