/*
Package surveyor is a state-space exploration scheduler.

It drives repeated rounds of "advance a frontier of execution states, filter them,
and cap their number" until no state is left to advance. It is the control core
beneath program-analysis tools that explore exponentially many execution paths of
a target program under finite memory.

# Concept

A Surveyor keeps five disjoint sets of paths:

  - active: paths advanced by the next step.
  - spilled: paths set aside to respect MaxActive, eligible to come back.
  - suspended: paths parked by the operator with SuspendPath.
  - deadended: paths that produced no successors (terminal).
  - errored: paths whose last advance recorded failure markers (terminal).

One step is PreTick, Tick, Filter, Spill, PostTick. Tick advances every active
path, on a bounded worker pool when MaxConcurrency > 1. Filter drops paths a
predicate rejects. Spill sorts active+spilled by priority and keeps the first
MaxActive active, suspending the rest.

The scheduler never looks inside a path: the domain.Path contract is all it needs.

# Usage

	s, err := surveyor.New(ctx, program,
		surveyor.WithMaxActive(64),
		surveyor.WithMaxConcurrency(8),
		surveyor.WithPickleOnSpill(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Run(ctx, surveyor.Unbounded); err != nil {
		log.Fatal(err)
	}
	fmt.Println(s) // "0 active, 0 spilled, 12 deadended, 1 errored"

Run stops cooperatively at step boundaries when its control.Flags request it, and
hands control to an Inspector after every step in single-step mode.
*/
package surveyor
