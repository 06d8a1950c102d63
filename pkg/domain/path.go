package domain

import (
	"context"
	"strings"
)

// Program is the model of the target under analysis.
// The scheduler only asks it for starting points and hands it back on Resume.
type Program interface {
	// InitialStates returns the paths exploration starts from when no seeds are given.
	InitialStates(ctx context.Context) ([]Path, error)
}

// SequentialProgram is implemented by programs that cannot be advanced concurrently.
// When Sequential reports true the scheduler defaults to a single worker.
type SequentialProgram interface {
	Program
	Sequential() bool
}

// Path is a single execution state.
//
// The scheduler holds Paths by reference and never copies them. Only one goroutine
// ever calls into a given Path at a time.
type Path interface {
	// ID identifies the path for set membership. It must be stable for the path's lifetime.
	ID() string

	// Step advances the path by one unit of work and returns its successors.
	// Exploration failures are recorded and reported by Errored; a non-nil error
	// means the advance itself could not be carried out.
	Step(ctx context.Context) ([]Path, error)

	// Errored returns the failure markers recorded by the last Step.
	Errored() []error

	// Backtrace returns the lineage of the path.
	Backtrace() Backtrace

	// Suspend releases live resources, optionally persisting the state.
	// Suspending a suspended path is a no-op.
	Suspend(ctx context.Context, persist bool) error

	// Resume undoes Suspend. Resuming a live path is a no-op.
	Resume(ctx context.Context, program Program) error
}

// Backtrace is the lineage of a path: the labels of every step taken to reach it.
type Backtrace []string

// String renders the lineage as a compact arrow-separated trail.
func (b Backtrace) String() string {
	return strings.Join(b, " -> ")
}

// Record is an archived path.
// Path is nil when only the lineage was retained.
type Record struct {
	ID        string    `json:"id"`
	Backtrace Backtrace `json:"backtrace"`
	Errors    []string  `json:"errors,omitempty"`
	Path      Path      `json:"-"`
}

// LineageOnly reports whether the full path state was discarded.
func (r Record) LineageOnly() bool {
	return r.Path == nil
}
