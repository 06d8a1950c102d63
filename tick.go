package surveyor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/surveyor/internal/pool"
	"github.com/aretw0/surveyor/pkg/domain"
)

type tickOutcome struct {
	successors []domain.Path
	err        error
	ran        bool
}

// Tick advances every active path once and classifies the outcome.
//
// Paths with failure markers are archived into errored, paths without successors
// into deadended, and all successors form the new active set. With MaxConcurrency > 1
// the advances run on a bounded pool and are all joined before Tick returns.
//
// If advancing a path fails, the remaining outcomes are still classified, the failed
// (and, in sequential mode, not yet advanced) paths stay active, and the failures are
// returned together.
func (s *Surveyor) Tick(ctx context.Context) error {
	defer s.publish()

	paths := s.active.Items()
	outcomes := s.advance(ctx, paths)

	next := NewPathSet()
	var faults []error
	for i, p := range paths {
		o := outcomes[i]
		if !o.ran || o.err != nil {
			if o.err != nil {
				faults = append(faults, fmt.Errorf("path %s: %w", p.ID(), o.err))
			}
			next.Append(p)
			continue
		}
		if err := s.classify(ctx, p, o.successors, next); err != nil {
			faults = append(faults, err)
		}
	}

	s.active = next
	return errors.Join(faults...)
}

func (s *Surveyor) advance(ctx context.Context, paths []domain.Path) []tickOutcome {
	outcomes := make([]tickOutcome, len(paths))

	if s.cfg.MaxConcurrency > 1 && len(paths) > 1 {
		results, _ := pool.Map[domain.Path, []domain.Path](ctx, s.cfg.MaxConcurrency, paths, s.tickPath)
		for i, r := range results {
			outcomes[i] = tickOutcome{successors: r.Value, err: r.Err, ran: true}
		}
		return outcomes
	}

	for i, p := range paths {
		successors, err := pool.Do[domain.Path, []domain.Path](ctx, p, s.tickPath)
		outcomes[i] = tickOutcome{successors: successors, err: err, ran: true}
		if err != nil {
			break
		}
	}
	return outcomes
}

// classify archives p according to its advance and collects its successors into next.
func (s *Surveyor) classify(ctx context.Context, p domain.Path, successors []domain.Path, next *PathSet) error {
	var faults []error

	if markers := p.Errored(); len(markers) > 0 {
		s.logger.Debug("path has yielded errored exits", "path", p.ID(), "count", len(markers))
		if err := s.suspendPath(ctx, p); err != nil {
			faults = append(faults, err)
		}
		s.errored.Append(domain.Record{
			ID:        p.ID(),
			Backtrace: p.Backtrace(),
			Errors:    errorStrings(markers),
			Path:      p,
		})
		s.emitPath(ctx, s.hooks.OnErrored, domain.EventErrored, p, false)
	}

	if len(successors) == 0 {
		s.logger.Debug("path has deadended", "path", p.ID())
		// Only the lineage survives without SaveDeadends, so nothing is written to the store.
		if s.cfg.SaveDeadends {
			if err := s.suspendPath(ctx, p); err != nil {
				faults = append(faults, err)
			}
		} else if err := p.Suspend(ctx, false); err != nil {
			faults = append(faults, fmt.Errorf("failed to release path %s: %w", p.ID(), err))
		}
		rec := domain.Record{ID: p.ID(), Backtrace: p.Backtrace()}
		if s.cfg.SaveDeadends {
			rec.Path = p
		}
		s.deadended.Append(rec)
		s.emitPath(ctx, s.hooks.OnDeadend, domain.EventDeadend, p, !s.cfg.SaveDeadends)
		return errors.Join(faults...)
	}

	s.logger.Debug("path has produced successors", "path", p.ID(), "count", len(successors))
	for _, succ := range successors {
		if s.spilled.Contains(succ.ID()) || s.suspended.Contains(succ.ID()) || !next.Append(succ) {
			s.logger.Warn("dropping duplicate successor", "path", p.ID(), "successor", succ.ID())
		}
	}
	return errors.Join(faults...)
}

func (s *Surveyor) emitPath(ctx context.Context, hook func(context.Context, *domain.PathEvent), typ domain.EventType, p domain.Path, lineageOnly bool) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.PathEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: typ, Step: s.currentStep},
		PathID:      p.ID(),
		Backtrace:   p.Backtrace(),
		LineageOnly: lineageOnly,
	})
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}
