package surveyor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/aretw0/surveyor/pkg/control"
	"github.com/aretw0/surveyor/pkg/domain"
)

// Surveyor explores the paths of a program in rounds of tick, filter and spill.
//
// All methods except Snapshot and String must be called from a single goroutine.
// Snapshot and String read the state published at the last step boundary and are
// safe to call from anywhere.
type Surveyor struct {
	program domain.Program
	seeds   []domain.Path

	active    *PathSet
	spilled   *PathSet
	suspended *PathSet
	deadended RecordList
	errored   RecordList

	currentStep int

	cfg            Config
	concurrencySet bool
	sequential     bool

	tickPath   TickFunc
	filterPath FilterFunc
	compare    Comparator
	preTick    Hook
	postTick   Hook
	inspector  Inspector
	flags      *control.Flags
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	snapshot atomic.Pointer[Snapshot]
}

// New creates a Surveyor for program.
// Without WithSeeds, exploration starts from program.InitialStates.
func New(ctx context.Context, program domain.Program, opts ...Option) (*Surveyor, error) {
	s := &Surveyor{
		program: program,
		cfg: Config{
			MaxActive:      runtime.NumCPU(),
			MaxConcurrency: runtime.NumCPU(),
			SaveDeadends:   true,
		},
		tickPath:   StepPath,
		filterPath: KeepAll,
	}

	for _, opt := range opts {
		opt(s)
	}

	if !s.concurrencySet && (s.sequential || isSequential(program)) {
		s.cfg.MaxConcurrency = 1
	}
	if s.cfg.MaxActive < 1 {
		return nil, fmt.Errorf("%w: max active must be positive, got %d", domain.ErrInvalidConfig, s.cfg.MaxActive)
	}
	if s.cfg.MaxConcurrency < 1 {
		return nil, fmt.Errorf("%w: max concurrency must be positive, got %d", domain.ErrInvalidConfig, s.cfg.MaxConcurrency)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.flags == nil {
		s.flags = control.Default
	}
	if s.inspector == nil {
		s.inspector = WaitForFlags()
	}
	if s.tickPath == nil {
		s.tickPath = StepPath
	}
	if s.filterPath == nil {
		s.filterPath = KeepAll
	}

	s.active = NewPathSet()
	s.spilled = NewPathSet()
	s.suspended = NewPathSet()

	seeds := s.seeds
	s.seeds = nil
	if len(seeds) == 0 {
		if program == nil {
			return nil, domain.ErrNoProgram
		}
		initial, err := program.InitialStates(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get initial states: %w", err)
		}
		seeds = initial
	}
	for _, p := range seeds {
		if !s.active.Append(p) {
			return nil, fmt.Errorf("%w: seed %s", domain.ErrDuplicatePath, p.ID())
		}
	}

	s.logger.Debug("surveyor created",
		"max_active", s.cfg.MaxActive,
		"max_concurrency", s.cfg.MaxConcurrency,
		"pickle_on_spill", s.cfg.PickleOnSpill,
		"save_deadends", s.cfg.SaveDeadends,
		"seeds", s.active.Len(),
	)
	s.publish()
	return s, nil
}

func isSequential(program domain.Program) bool {
	sp, ok := program.(domain.SequentialProgram)
	return ok && sp.Sequential()
}

// Config returns the effective resource limits.
func (s *Surveyor) Config() Config { return s.cfg }

// Program returns the program under analysis. It may be nil when only seeds were given.
func (s *Surveyor) Program() domain.Program { return s.program }

// Flags returns the control flags Run watches.
func (s *Surveyor) Flags() *control.Flags { return s.flags }

// Logger returns the surveyor's logger.
func (s *Surveyor) Logger() *slog.Logger { return s.logger }

// CurrentStep returns the number of completed steps.
func (s *Surveyor) CurrentStep() int { return s.currentStep }

// Active returns the paths the next step will advance.
func (s *Surveyor) Active() []domain.Path { return s.active.Items() }

// Spilled returns the paths set aside to respect MaxActive.
func (s *Surveyor) Spilled() []domain.Path { return s.spilled.Items() }

// Suspended returns the paths parked with SuspendPath.
func (s *Surveyor) Suspended() []domain.Path { return s.suspended.Items() }

// Deadended returns the paths that produced no successors.
func (s *Surveyor) Deadended() []domain.Record { return s.deadended.Items() }

// Errored returns the paths whose advance recorded failure markers.
func (s *Surveyor) Errored() []domain.Record { return s.errored.Items() }

// Counts returns the size of every set.
func (s *Surveyor) Counts() domain.Counts {
	return domain.Counts{
		Active:    s.active.Len(),
		Spilled:   s.spilled.Len(),
		Suspended: s.suspended.Len(),
		Deadended: s.deadended.Len(),
		Errored:   s.errored.Len(),
	}
}

// tracked reports whether id is in one of the live sets.
func (s *Surveyor) tracked(id string) bool {
	return s.active.Contains(id) || s.spilled.Contains(id) || s.suspended.Contains(id)
}

// AddPath adds p to the active set.
func (s *Surveyor) AddPath(p domain.Path) error {
	if s.tracked(p.ID()) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePath, p.ID())
	}
	s.active.Append(p)
	s.publish()
	return nil
}

// SuspendPath parks an active or spilled path in the suspended set.
// Suspended paths are neither advanced nor considered by Spill until ResumePath.
func (s *Surveyor) SuspendPath(ctx context.Context, id string) error {
	p, ok := s.active.Remove(id)
	if !ok {
		p, ok = s.spilled.Remove(id)
	}
	if !ok {
		return fmt.Errorf("%w: %s is not active or spilled", domain.ErrPathNotFound, id)
	}
	s.suspended.Append(p)
	defer s.publish()
	if err := s.suspendPath(ctx, p); err != nil {
		return err
	}
	s.logger.Debug("path suspended", "path", id)
	return nil
}

// ResumePath moves a suspended path back into the active set.
// The cap is enforced again at the next spill.
func (s *Surveyor) ResumePath(ctx context.Context, id string) error {
	p, ok := s.suspended.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s is not suspended", domain.ErrPathNotFound, id)
	}
	if err := p.Resume(ctx, s.program); err != nil {
		return fmt.Errorf("failed to resume path %s: %w", id, err)
	}
	s.suspended.Remove(id)
	s.active.Append(p)
	s.publish()
	s.logger.Debug("path resumed", "path", id)
	return nil
}

func (s *Surveyor) suspendPath(ctx context.Context, p domain.Path) error {
	if err := p.Suspend(ctx, s.cfg.PickleOnSpill); err != nil {
		return fmt.Errorf("failed to suspend path %s: %w", p.ID(), err)
	}
	return nil
}

// Done reports whether there is nothing left to advance.
func (s *Surveyor) Done() bool {
	return s.active.Len() == 0
}

// Snapshot is the observable summary of a Surveyor at a step boundary.
type Snapshot struct {
	Step      int           `json:"step"`
	Counts    domain.Counts `json:"counts"`
	Done      bool          `json:"done"`
	Config    Config        `json:"config"`
	Timestamp time.Time     `json:"timestamp"`
}

// String renders the summary in the classic status-line format.
func (sn Snapshot) String() string {
	return fmt.Sprintf("%d active, %d spilled, %d deadended, %d errored",
		sn.Counts.Active, sn.Counts.Spilled, sn.Counts.Deadended, sn.Counts.Errored)
}

func (s *Surveyor) publish() {
	s.snapshot.Store(&Snapshot{
		Step:      s.currentStep,
		Counts:    s.Counts(),
		Done:      s.Done(),
		Config:    s.cfg,
		Timestamp: time.Now(),
	})
}

// Snapshot returns the state published at the last step boundary or mutation.
// Safe for concurrent use.
func (s *Surveyor) Snapshot() Snapshot {
	if sn := s.snapshot.Load(); sn != nil {
		return *sn
	}
	return Snapshot{}
}

// String returns the status line, e.g. "3 active, 1 spilled, 0 deadended, 0 errored".
func (s *Surveyor) String() string {
	return s.Snapshot().String()
}
