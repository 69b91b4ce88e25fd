package decision

import (
	"context"

	"econsim/core"
)

// Engine is the capability interface of a decision strategy. Given an agent's
// state and configuration it produces a primary Decision and, independently,
// a ResourceAllocation for the cycle.
//
// Implementations must not mutate the state they are given (it is passed by
// value to enforce this) and must be callable repeatedly with no hidden
// memory of prior calls.
type Engine interface {
	// Name identifies the strategy in logs and decision records.
	Name() string

	// Decide produces the primary decision for one cycle.
	Decide(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.Decision, error)

	// Allocate splits the available compute hours between task work and
	// company work for one cycle.
	Allocate(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.ResourceAllocation, error)
}

// survivalAtRisk reports whether the agent's remaining hours are below the
// configured survival buffer. Survival risk overrides every growth decision.
func survivalAtRisk(state core.AgentState, cfg core.AgentConfig) bool {
	return state.ComputeHours < cfg.SurvivalBuffer
}
