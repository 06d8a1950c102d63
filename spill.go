package surveyor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
)

// PrioritizePaths sorts paths in place, highest priority first, and returns them.
// Without a comparator the order is left untouched.
func (s *Surveyor) PrioritizePaths(paths []domain.Path) []domain.Path {
	if s.compare != nil {
		slices.SortStableFunc(paths, s.compare)
	}
	return paths
}

// SpillPaths splits active+spilled into the new active and spilled sets.
// It has no side effects.
func (s *Surveyor) SpillPaths(active, spilled []domain.Path) (newActive, newSpilled []domain.Path) {
	s.logger.Debug("spill received paths", "active", len(active), "spilled", len(spilled))

	candidates := make([]domain.Path, 0, len(active)+len(spilled))
	candidates = append(candidates, active...)
	candidates = append(candidates, spilled...)
	prioritized := s.PrioritizePaths(candidates)

	cut := min(s.cfg.MaxActive, len(prioritized))
	newActive = prioritized[:cut:cut]
	newSpilled = prioritized[cut:]

	s.logger.Debug("spill produced paths", "active", len(newActive), "spilled", len(newSpilled))
	return newActive, newSpilled
}

// Spill enforces MaxActive, resuming promoted paths and suspending demoted ones.
// The new sets are kept even if some resume or suspend fails; the failures are returned together.
func (s *Surveyor) Spill(ctx context.Context) error {
	defer s.publish()

	newActive, newSpilled := s.SpillPaths(s.active.Items(), s.spilled.Items())

	var faults []error
	resumed, suspended := 0, 0

	for _, p := range newActive {
		if s.spilled.Contains(p.ID()) {
			resumed++
			if err := p.Resume(ctx, s.program); err != nil {
				faults = append(faults, fmt.Errorf("failed to resume path %s: %w", p.ID(), err))
			}
		}
	}

	for _, p := range newSpilled {
		if s.active.Contains(p.ID()) {
			suspended++
			if err := s.suspendPath(ctx, p); err != nil {
				faults = append(faults, err)
			}
		}
	}

	s.logger.Debug("spill resumed and suspended paths", "resumed", resumed, "suspended", suspended)
	s.active, s.spilled = NewPathSet(newActive...), NewPathSet(newSpilled...)

	if s.hooks.OnSpill != nil {
		s.hooks.OnSpill(ctx, &domain.SpillEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSpill, Step: s.currentStep},
			Resumed:   resumed,
			Suspended: suspended,
		})
	}
	return errors.Join(faults...)
}
