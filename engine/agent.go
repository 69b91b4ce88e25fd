package engine

import (
	"econsim/core"
	"econsim/decision"
)

// Agent bundles everything one autonomous economic agent owns: its mutable
// state, immutable configuration, the company it may have formed, and the
// append-only history of cycle results. Exactly one loop executes an Agent
// at a time; the executor is the only mutator of State and Company.
type Agent struct {
	ID      string
	Name    string
	State   *core.AgentState
	Config  core.AgentConfig
	Company *core.Company
	History []core.CycleResult

	// Backends are this agent's collaborators. Wallet and Compute are
	// typically private to the agent; Marketplace and Investor instances
	// are usually shared across agents and must be concurrency-safe.
	Backends core.Backends

	// Strategy, when set, overrides the executor's decision engine for
	// this agent only.
	Strategy decision.Engine
}

// AgentOptions configures agent construction.
type AgentOptions struct {
	InitialBalance      float64
	InitialComputeHours float64
	Config              core.AgentConfig
	Backends            core.Backends

	// Strategy selects a per-agent decision engine. Nil means the
	// executor's default.
	Strategy decision.Engine
}

// NewAgent constructs an agent with the given starting resources.
func NewAgent(name string, optFns ...func(o *AgentOptions)) *Agent {
	opts := AgentOptions{
		InitialBalance:      100,
		InitialComputeHours: 24,
		Config:              core.DefaultAgentConfig(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	id := core.NewID()
	return &Agent{
		ID:       id,
		Name:     name,
		State:    core.NewAgentState(id, opts.InitialBalance, opts.InitialComputeHours),
		Config:   opts.Config,
		Backends: opts.Backends,
		Strategy: opts.Strategy,
	}
}

// Snapshot returns the agent's current observable status.
func (a *Agent) Snapshot() core.StatusSnapshot { return a.State.Snapshot() }

// appendResult records a finalized cycle in the agent's history.
func (a *Agent) appendResult(r core.CycleResult) { a.History = append(a.History, r) }
