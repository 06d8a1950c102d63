package treeprog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/google/uuid"
)

// ErrSuspended is returned when a suspended path is asked to step.
var ErrSuspended = errors.New("path is suspended")

// state is the part of a path that can be persisted.
type state struct {
	Depth   int    `json:"depth"`
	Ordinal int    `json:"ordinal"`
	Payload []byte `json:"payload,omitempty"`
}

// Path is one node of the tree.
type Path struct {
	program *Program
	id      string
	lineage []string

	live      *state // nil while persisted
	key       string // snapshot key while persisted
	suspended bool
	errs      []error
}

var _ domain.Path = (*Path)(nil)

func newPath(program *Program, id string, lineage []string, st state) *Path {
	if n := program.cfg.PayloadBytes; n > 0 {
		st.Payload = make([]byte, n)
		for i := range st.Payload {
			st.Payload[i] = byte(st.Ordinal + i)
		}
	}
	return &Path{program: program, id: id, lineage: lineage, live: &st}
}

// ID implements domain.Path.
func (p *Path) ID() string { return p.id }

// Backtrace implements domain.Path. It survives persistence.
func (p *Path) Backtrace() domain.Backtrace {
	return append(domain.Backtrace(nil), p.lineage...)
}

// Errored implements domain.Path.
func (p *Path) Errored() []error { return p.errs }

// Suspended reports whether the path is suspended.
func (p *Path) Suspended() bool { return p.suspended }

// Persisted reports whether the path's state currently lives in the store.
func (p *Path) Persisted() bool { return p.live == nil }

// Depth returns the path's level in the tree, or -1 while persisted.
func (p *Path) Depth() int {
	if p.live == nil {
		return -1
	}
	return p.live.Depth
}

// Step implements domain.Path.
func (p *Path) Step(ctx context.Context) ([]domain.Path, error) {
	if p.suspended || p.live == nil {
		return nil, fmt.Errorf("%w: %s", ErrSuspended, p.id)
	}
	cfg := p.program.cfg
	if cfg.StepDelay > 0 {
		select {
		case <-time.After(cfg.StepDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.program.steps.Add(1)

	p.errs = nil
	if cfg.ErrorEvery > 0 && p.live.Ordinal > 0 && p.live.Ordinal%cfg.ErrorEvery == 0 {
		p.errs = append(p.errs, fmt.Errorf("simulated fault at %s (ordinal %d)", p.id, p.live.Ordinal))
	}

	if p.live.Depth >= cfg.Depth {
		return nil, nil
	}

	successors := make([]domain.Path, 0, cfg.Branching)
	for i := 0; i < cfg.Branching; i++ {
		label := strconv.Itoa(i)
		lineage := append(append([]string(nil), p.lineage...), label)
		successors = append(successors, newPath(p.program, p.id+"."+label, lineage, state{
			Depth:   p.live.Depth + 1,
			Ordinal: p.live.Ordinal*cfg.Branching + i + 1,
		}))
	}
	return successors, nil
}

// Suspend implements domain.Path. With persist, the state moves into the program's store.
func (p *Path) Suspend(ctx context.Context, persist bool) error {
	if p.suspended {
		return nil
	}
	if persist {
		store := p.program.store
		if store == nil {
			return fmt.Errorf("cannot persist %s: no snapshot store", p.id)
		}
		data, err := json.Marshal(p.live)
		if err != nil {
			return fmt.Errorf("failed to marshal path %s: %w", p.id, err)
		}
		key := uuid.NewString()
		if err := store.Save(ctx, key, data); err != nil {
			return fmt.Errorf("failed to persist path %s: %w", p.id, err)
		}
		p.key = key
		p.live = nil
	}
	p.suspended = true
	return nil
}

// Resume implements domain.Path, reloading persisted state.
func (p *Path) Resume(ctx context.Context, _ domain.Program) error {
	if !p.suspended {
		return nil
	}
	if p.live == nil {
		store := p.program.store
		if store == nil {
			return fmt.Errorf("cannot restore %s: no snapshot store", p.id)
		}
		data, err := store.Load(ctx, p.key)
		if err != nil {
			return fmt.Errorf("failed to load path %s: %w", p.id, err)
		}
		var st state
		if err := json.Unmarshal(data, &st); err != nil {
			return fmt.Errorf("failed to unmarshal path %s: %w", p.id, err)
		}
		if err := store.Delete(ctx, p.key); err != nil {
			return fmt.Errorf("failed to release snapshot of %s: %w", p.id, err)
		}
		p.live = &st
		p.key = ""
	}
	p.suspended = false
	return nil
}

func (p *Path) String() string { return p.id }
