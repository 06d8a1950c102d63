package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep     EventType = "step"
	EventDeadend  EventType = "deadend"
	EventErrored  EventType = "errored"
	EventFiltered EventType = "filtered"
	EventSpill    EventType = "spill"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Step      int       `json:"step"`
}

// Counts is the size of every state set.
type Counts struct {
	Active    int `json:"active"`
	Spilled   int `json:"spilled"`
	Suspended int `json:"suspended"`
	Deadended int `json:"deadended"`
	Errored   int `json:"errored"`
}

// StepEvent is emitted once a step has completed.
type StepEvent struct {
	EventBase
	Counts   Counts        `json:"counts"`
	Duration time.Duration `json:"duration"`
}

// PathEvent is emitted when a path leaves the active set for good.
type PathEvent struct {
	EventBase
	PathID      string    `json:"path_id"`
	Backtrace   Backtrace `json:"backtrace,omitempty"`
	LineageOnly bool      `json:"lineage_only,omitempty"`
}

// SpillEvent summarizes one spill pass.
type SpillEvent struct {
	EventBase
	Resumed   int `json:"resumed"`
	Suspended int `json:"suspended"`
}

// LifecycleHooks defines callbacks for scheduler observability.
type LifecycleHooks struct {
	OnStep     func(context.Context, *StepEvent)
	OnDeadend  func(context.Context, *PathEvent)
	OnErrored  func(context.Context, *PathEvent)
	OnFiltered func(context.Context, *PathEvent)
	OnSpill    func(context.Context, *SpillEvent)
}
