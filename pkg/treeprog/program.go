package treeprog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/aretw0/surveyor/pkg/ports"
)

// Config shapes the tree.
type Config struct {
	Roots        int           `yaml:"roots" mapstructure:"roots"`
	Depth        int           `yaml:"depth" mapstructure:"depth"`
	Branching    int           `yaml:"branching" mapstructure:"branching"`
	ErrorEvery   int           `yaml:"error_every" mapstructure:"error_every"`
	PayloadBytes int           `yaml:"payload_bytes" mapstructure:"payload_bytes"`
	StepDelay    time.Duration `yaml:"step_delay" mapstructure:"step_delay"`
	Sequential   bool          `yaml:"sequential" mapstructure:"sequential"`
}

// DefaultConfig returns a small binary tree.
func DefaultConfig() Config {
	return Config{
		Roots:        1,
		Depth:        4,
		Branching:    2,
		PayloadBytes: 256,
	}
}

// Validate rejects trees that cannot be built.
func (c Config) Validate() error {
	if c.Roots < 1 {
		return fmt.Errorf("roots must be positive, got %d", c.Roots)
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth cannot be negative, got %d", c.Depth)
	}
	if c.Branching < 1 {
		return fmt.Errorf("branching must be positive, got %d", c.Branching)
	}
	if c.ErrorEvery < 0 || c.PayloadBytes < 0 || c.StepDelay < 0 {
		return fmt.Errorf("error_every, payload_bytes and step_delay cannot be negative")
	}
	return nil
}

// Program implements domain.Program over a synthetic tree.
// It is safe for concurrent reads from several worker goroutines.
type Program struct {
	cfg   Config
	store ports.SnapshotStore
	steps atomic.Int64
}

// New creates a program. store may be nil if paths are never persisted.
func New(cfg Config, store ports.SnapshotStore) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree config: %w", err)
	}
	return &Program{cfg: cfg, store: store}, nil
}

// Config returns the tree shape.
func (p *Program) Config() Config { return p.cfg }

// Store returns the snapshot store used for persisted paths.
func (p *Program) Store() ports.SnapshotStore { return p.store }

// Sequential implements domain.SequentialProgram.
func (p *Program) Sequential() bool { return p.cfg.Sequential }

// Steps returns how many paths have been advanced so far.
func (p *Program) Steps() int64 { return p.steps.Load() }

// InitialStates returns one root path per configured root.
func (p *Program) InitialStates(ctx context.Context) ([]domain.Path, error) {
	roots := make([]domain.Path, 0, p.cfg.Roots)
	for i := 0; i < p.cfg.Roots; i++ {
		roots = append(roots, p.Root(i))
	}
	return roots, nil
}

// Root returns the i-th root path.
func (p *Program) Root(i int) *Path {
	id := fmt.Sprintf("r%d", i)
	return newPath(p, id, []string{id}, state{Depth: 0, Ordinal: 0})
}

// Leaves is the number of deadends a full exploration produces.
func (p *Program) Leaves() int {
	n := p.cfg.Roots
	for i := 0; i < p.cfg.Depth; i++ {
		n *= p.cfg.Branching
	}
	return n
}
