/*
Package domain contains the core contracts of the Surveyor scheduler.

It defines the collaborators the scheduler drives but never implements, and the
records it keeps about them. This package is kept pure and free of I/O, so that
program models, stores and transports can depend on it without cycles.

# Key Entities

  - Program: supplies the initial execution states of an analysis.
  - Path: one execution state; it can advance, suspend and resume itself.
  - Backtrace: the lightweight lineage of a Path, kept after the Path is discarded.
  - Record: an archived (deadended or errored) Path, possibly lineage-only.
  - LifecycleHooks: observability callbacks fired by the scheduler.
*/
package domain
