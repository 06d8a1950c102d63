package surveyor

import "github.com/aretw0/surveyor/pkg/domain"

// PathSet is an ordered set of paths keyed by ID.
// It is not safe for concurrent use; the Surveyor only mutates it between parallel phases.
type PathSet struct {
	items []domain.Path
	index map[string]struct{}
}

// NewPathSet builds a set from paths, dropping later duplicates.
func NewPathSet(paths ...domain.Path) *PathSet {
	s := &PathSet{
		items: make([]domain.Path, 0, len(paths)),
		index: make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		s.Append(p)
	}
	return s
}

// Len returns the number of paths in the set.
func (s *PathSet) Len() int { return len(s.items) }

// Contains reports whether a path with the given ID is in the set.
func (s *PathSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Append adds p at the end of the set. It returns false if p's ID is already present.
func (s *PathSet) Append(p domain.Path) bool {
	id := p.ID()
	if s.Contains(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, p)
	return true
}

// Get returns the path with the given ID.
func (s *PathSet) Get(id string) (domain.Path, bool) {
	if !s.Contains(id) {
		return nil, false
	}
	for _, p := range s.items {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Remove takes the path with the given ID out of the set, keeping the order of the rest.
func (s *PathSet) Remove(id string) (domain.Path, bool) {
	if !s.Contains(id) {
		return nil, false
	}
	for i, p := range s.items {
		if p.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			delete(s.index, id)
			return p, true
		}
	}
	return nil, false
}

// Items returns a copy of the paths in order.
func (s *PathSet) Items() []domain.Path {
	return append([]domain.Path(nil), s.items...)
}

// RecordList is an append-only archive of terminal paths.
type RecordList struct {
	items []domain.Record
}

// Len returns the number of records.
func (l *RecordList) Len() int { return len(l.items) }

// Append archives r.
func (l *RecordList) Append(r domain.Record) {
	l.items = append(l.items, r)
}

// Items returns a copy of the records in archive order.
func (l *RecordList) Items() []domain.Record {
	return append([]domain.Record(nil), l.items...)
}
