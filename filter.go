package surveyor

import (
	"context"

	"github.com/aretw0/surveyor/pkg/domain"
)

// FilterPaths returns the paths the filter keeps, in order.
func (s *Surveyor) FilterPaths(ctx context.Context, paths []domain.Path) []domain.Path {
	kept := make([]domain.Path, 0, len(paths))
	for _, p := range paths {
		if s.filterPath(p) {
			kept = append(kept, p)
			continue
		}
		s.emitPath(ctx, s.hooks.OnFiltered, domain.EventFiltered, p, false)
	}
	return kept
}

// Filter drops the active paths the filter rejects, in place.
func (s *Surveyor) Filter(ctx context.Context) {
	defer s.publish()

	before := s.active.Len()
	s.active = NewPathSet(s.FilterPaths(ctx, s.active.Items())...)
	s.logger.Debug("filtered active paths", "before", before, "after", s.active.Len())
}
