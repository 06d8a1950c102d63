package surveyor

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
)

// Unbounded makes Run continue until the analysis is done or stopped.
const Unbounded = -1

// Step takes one step in the analysis: PreTick, Tick, Filter, Spill, PostTick.
// The step counter only advances when every phase succeeds.
func (s *Surveyor) Step(ctx context.Context) error {
	start := time.Now()

	if s.preTick != nil {
		if err := s.preTick(ctx, s); err != nil {
			return fmt.Errorf("pre-tick: %w", err)
		}
	}
	if err := s.Tick(ctx); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	s.Filter(ctx)
	if err := s.Spill(ctx); err != nil {
		return fmt.Errorf("spill: %w", err)
	}
	if s.postTick != nil {
		if err := s.postTick(ctx, s); err != nil {
			return fmt.Errorf("post-tick: %w", err)
		}
	}

	s.currentStep++
	s.publish()
	s.logger.Debug("after iteration", "step", s.currentStep, "status", s.String())

	if s.hooks.OnStep != nil {
		s.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, Step: s.currentStep},
			Counts:    s.Counts(),
			Duration:  time.Since(start),
		})
	}
	return nil
}

// Run steps the analysis until it is done or n steps have been taken (n < 0 for no limit).
//
// The flags are checked after every step. A stop request ends Run with a nil error,
// leaving every set intact so a later Run continues from there. In single-step mode
// Run hands control to the inspector after each step. A cancelled ctx ends Run at the
// next step boundary with ctx.Err().
func (s *Surveyor) Run(ctx context.Context, n int) error {
	for !s.Done() && (n < 0 || n > 0) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}

		if s.stopping() {
			break
		}

		if s.flags.PauseRequested() {
			s.logger.Warn("surveyor pausing due to single-step mode", "status", s.String())
			s.logger.Warn("... disable single-step before continuing if you don't want to single-step")
			if err := s.inspector.Inspect(ctx, s); err != nil {
				return err
			}
			if s.stopping() {
				break
			}
		}

		if n > 0 {
			n--
		}
	}
	return nil
}

func (s *Surveyor) stopping() bool {
	if !s.flags.StopRequested() {
		return false
	}
	s.logger.Warn("surveyor stopping due to stop request", "status", s.String())
	s.logger.Warn("... clear the stop request and call Run again if you want to resume")
	return true
}
