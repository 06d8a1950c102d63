package surveyor

import (
	"context"
	"log/slog"

	"github.com/aretw0/surveyor/pkg/control"
	"github.com/aretw0/surveyor/pkg/domain"
)

// TickFunc advances a single path. It must be safe to call from several goroutines
// at once when MaxConcurrency > 1, though never twice for the same path.
type TickFunc func(ctx context.Context, p domain.Path) ([]domain.Path, error)

// FilterFunc reports whether an active path should stay in the analysis.
type FilterFunc func(p domain.Path) bool

// Comparator orders paths by priority: negative if a should come before b,
// positive if after, zero if equal. Sorting with it is stable.
type Comparator func(a, b domain.Path) int

// Hook is an extension point run at the start or end of every step.
type Hook func(ctx context.Context, s *Surveyor) error

// Config holds the resource limits of a Surveyor.
type Config struct {
	// MaxActive caps the active set after every spill.
	MaxActive int `json:"max_active"`
	// MaxConcurrency is the width of the Tick worker pool. 1 ticks sequentially.
	MaxConcurrency int `json:"max_concurrency"`
	// PickleOnSpill asks suspended paths to persist themselves.
	PickleOnSpill bool `json:"pickle_on_spill"`
	// SaveDeadends keeps the full path for deadends instead of only its lineage.
	SaveDeadends bool `json:"save_deadends"`
}

// Option defines a functional option for configuring the Surveyor.
type Option func(*Surveyor)

// WithSeeds starts the analysis from the given paths instead of the program's initial states.
func WithSeeds(paths ...domain.Path) Option {
	return func(s *Surveyor) {
		s.seeds = append(s.seeds, paths...)
	}
}

// WithMaxActive sets the cap on the active set (default: number of CPUs).
func WithMaxActive(n int) Option {
	return func(s *Surveyor) {
		s.cfg.MaxActive = n
	}
}

// WithMaxConcurrency sets the Tick worker pool width (default: number of CPUs).
func WithMaxConcurrency(n int) Option {
	return func(s *Surveyor) {
		s.cfg.MaxConcurrency = n
		s.concurrencySet = true
	}
}

// WithSequential ticks paths one at a time unless WithMaxConcurrency says otherwise.
func WithSequential() Option {
	return func(s *Surveyor) {
		s.sequential = true
	}
}

// WithPickleOnSpill makes suspended paths persist themselves (default: false).
func WithPickleOnSpill(enabled bool) Option {
	return func(s *Surveyor) {
		s.cfg.PickleOnSpill = enabled
	}
}

// WithSaveDeadends keeps full deadended paths instead of lineage only (default: true).
func WithSaveDeadends(enabled bool) Option {
	return func(s *Surveyor) {
		s.cfg.SaveDeadends = enabled
	}
}

// WithTickFunc replaces the per-path advance (default: Path.Step).
func WithTickFunc(fn TickFunc) Option {
	return func(s *Surveyor) {
		s.tickPath = fn
	}
}

// WithFilter sets the active-set predicate (default: keep everything).
func WithFilter(fn FilterFunc) Option {
	return func(s *Surveyor) {
		s.filterPath = fn
	}
}

// WithComparator sets the spill priority (default: keep the current order).
func WithComparator(cmp Comparator) Option {
	return func(s *Surveyor) {
		s.compare = cmp
	}
}

// WithPreTick registers a hook run before every tick.
func WithPreTick(h Hook) Option {
	return func(s *Surveyor) {
		s.preTick = h
	}
}

// WithPostTick registers a hook run after every spill.
func WithPostTick(h Hook) Option {
	return func(s *Surveyor) {
		s.postTick = h
	}
}

// WithInspector sets what Run hands control to in single-step mode.
func WithInspector(i Inspector) Option {
	return func(s *Surveyor) {
		s.inspector = i
	}
}

// WithFlags sets the stop/pause flags Run watches (default: control.Default).
func WithFlags(f *control.Flags) Option {
	return func(s *Surveyor) {
		s.flags = f
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surveyor) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Surveyor) {
		s.hooks = hooks
	}
}

// KeepAll is the default filter.
func KeepAll(domain.Path) bool { return true }

// StepPath is the default tick: it calls p.Step.
func StepPath(ctx context.Context, p domain.Path) ([]domain.Path, error) {
	return p.Step(ctx)
}
