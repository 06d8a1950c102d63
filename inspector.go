package surveyor

import "context"

// Inspector receives control after a step while single-step mode is on.
// Run continues once Inspect returns; a non-nil error ends Run.
type Inspector interface {
	Inspect(ctx context.Context, s *Surveyor) error
}

// InspectorFunc adapts a function to Inspector.
type InspectorFunc func(ctx context.Context, s *Surveyor) error

// Inspect calls f.
func (f InspectorFunc) Inspect(ctx context.Context, s *Surveyor) error {
	return f(ctx, s)
}

// WaitForFlags returns the default inspector. It blocks until the surveyor's flags
// release the pause (stop, single-step off, or Advance) or ctx is done.
func WaitForFlags() Inspector {
	return InspectorFunc(func(ctx context.Context, s *Surveyor) error {
		flags := s.Flags()
		for {
			changed := flags.Changed()
			if flags.Released() {
				return nil
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
