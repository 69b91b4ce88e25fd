package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind categorizes the records an agent loop emits to runner observers.
type EventKind string

const (
	// EventStarted is emitted once when a loop begins executing.
	EventStarted EventKind = "started"
	// EventCycleCompleted carries the CycleResult of a finished cycle.
	EventCycleCompleted EventKind = "cycle_completed"
	// EventStopped is the terminal event of a loop, carrying the stop reason.
	EventStopped EventKind = "stopped"
	// EventError reports a non-fatal error observed by a loop.
	EventError EventKind = "error"
)

// StopReason explains why an agent loop terminated.
type StopReason string

const (
	// StopReasonExhausted means compute hours ran out.
	StopReasonExhausted StopReason = "exhausted"
	// StopReasonCommand means a stop command was received.
	StopReasonCommand StopReason = "stopped_by_command"
	// StopReasonMaxCycles means the configured cycle limit was reached.
	StopReasonMaxCycles StopReason = "max_cycles_reached"
)

// Event is the unit of communication between agent loops and external
// observers. After emission it must be treated as immutable. Per-agent event
// ordering is preserved by the runner; ordering across agents is arbitrary.
type Event struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Cycle     *CycleResult   `json:"cycle,omitempty"`
	Status    StatusSnapshot `json:"status"`
	Reason    StopReason     `json:"reason,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// NewEvent creates a bare event for the given agent.
func NewEvent(agentID string, kind EventKind) Event {
	return Event{
		ID:        NewID(),
		AgentID:   agentID,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// NewStartedEvent records that an agent loop began executing.
func NewStartedEvent(agentID string, status StatusSnapshot) Event {
	e := NewEvent(agentID, EventStarted)
	e.Status = status
	return e
}

// NewCycleEvent records a completed cycle.
func NewCycleEvent(agentID string, result CycleResult, status StatusSnapshot) Event {
	e := NewEvent(agentID, EventCycleCompleted)
	e.Cycle = &result
	e.Status = status
	return e
}

// NewStoppedEvent is the terminal event of a loop.
func NewStoppedEvent(agentID string, reason StopReason, status StatusSnapshot) Event {
	e := NewEvent(agentID, EventStopped)
	e.Reason = reason
	e.Status = status
	return e
}

// NewErrorEvent reports a non-fatal error from a loop.
func NewErrorEvent(agentID string, err error, status StatusSnapshot) Event {
	e := NewEvent(agentID, EventError)
	if err != nil {
		e.Err = err.Error()
	}
	e.Status = status
	return e
}

// IsTerminal reports whether no further events will follow for this agent.
func (e Event) IsTerminal() bool { return e.Kind == EventStopped }

// NewID generates a new unique identifier for events, companies and agents.
func NewID() string { return uuid.NewString() }
