package surveyor

import (
	"context"
	"sync"

	"github.com/aretw0/surveyor/pkg/domain"
)

// fakePath is a scripted domain.Path.
type fakePath struct {
	id         string
	successors []domain.Path
	markers    []error
	fault      error
	panicWith  any
	onStep     func()

	mu            sync.Mutex
	steps         int
	suspended     bool
	persisted     bool
	suspendCalls  int
	resumeCalls   int
	lastPersisted bool
}

func newFake(id string, successors ...domain.Path) *fakePath {
	return &fakePath{id: id, successors: successors}
}

func (f *fakePath) ID() string { return f.id }

func (f *fakePath) Step(ctx context.Context) ([]domain.Path, error) {
	f.mu.Lock()
	f.steps++
	f.mu.Unlock()
	if f.onStep != nil {
		f.onStep()
	}
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.fault != nil {
		return nil, f.fault
	}
	return f.successors, nil
}

func (f *fakePath) Errored() []error { return f.markers }

func (f *fakePath) Backtrace() domain.Backtrace { return domain.Backtrace{"bt", f.id} }

func (f *fakePath) Suspend(ctx context.Context, persist bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suspendCalls++
	f.lastPersisted = persist
	if f.suspended {
		return nil
	}
	f.suspended = true
	f.persisted = persist
	return nil
}

func (f *fakePath) Resume(ctx context.Context, program domain.Program) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	f.suspended = false
	f.persisted = false
	return nil
}

func (f *fakePath) stepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.steps
}

// fakes builds n scripted paths named prefix0..prefixN-1, each with one leaf successor.
func fakes(prefix string, n int) []domain.Path {
	out := make([]domain.Path, n)
	for i := range out {
		id := prefix + string(rune('a'+i))
		out[i] = newFake(id, newFake(id+"'"))
	}
	return out
}

func pathIDs(paths []domain.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.ID()
	}
	return out
}

func recordIDs(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// staticProgram hands out fixed initial states.
type staticProgram struct {
	initial    []domain.Path
	sequential bool
}

func (p *staticProgram) InitialStates(ctx context.Context) ([]domain.Path, error) {
	return p.initial, nil
}

func (p *staticProgram) Sequential() bool { return p.sequential }
