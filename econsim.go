// Package econsim provides a high-level façade over the cycle executor, the
// concurrent runner and the simulated backends, enabling rapid construction
// of multi-agent economic simulations. Most applications interact with this
// package by:
//  1. Creating a Sim via New() (optionally overriding strategy, policy or backends)
//  2. Spawning one or more agents (SpawnAgent)
//  3. Consuming the event stream (Events) and querying status (Status/List)
//
// The façade delegates orchestration to runner.Runner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply real backend
// implementations and a structured logger.
package econsim

import (
	"context"
	"time"

	"econsim/backend/sim"
	"econsim/core"
	"econsim/decision"
	"econsim/engine"
	"econsim/logging"
	"econsim/runner"
)

// Options configures the Sim instance.
type Options struct {
	// Strategy is the decision engine shared by all agents. Defaults to
	// the deterministic rule-based strategy.
	Strategy decision.Engine

	// Policy tunes the simulation economics.
	Policy engine.Policy

	// Marketplace and Investor are shared across agents. Defaults are
	// in-memory simulations with a self-refilling task catalog.
	Marketplace core.Marketplace
	Investor    core.Investor

	// ComputeCostPerHour prices the per-agent compute meters.
	ComputeCostPerHour float64

	// EventBufferSize sets channel buffering for the observer stream.
	EventBufferSize int

	// CycleInterval adds a pause between consecutive cycles of every loop.
	CycleInterval time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Sim is the high-level façade aggregating the runner, executor and shared
// backends.
type Sim struct {
	opts   Options
	runner *runner.Runner
}

// New creates a new Sim instance with optional overrides. Any unset
// collaborator is initialized with an in-memory simulation.
func New(optFns ...func(o *Options)) *Sim {
	opts := Options{
		Strategy:           decision.NewRuleBased(),
		Policy:             engine.DefaultPolicy(),
		ComputeCostPerHour: 2,
		EventBufferSize:    100,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Marketplace == nil {
		opts.Marketplace = sim.NewMarketplace(func(o *sim.MarketplaceOptions) {
			o.Refill = true
		})
	}
	if opts.Investor == nil {
		opts.Investor = sim.NewInvestor()
	}

	executor := engine.NewExecutor(opts.Strategy, func(o *engine.Options) {
		o.Policy = opts.Policy
		o.Logger = opts.Logger
	})

	r := runner.New(executor, func(o *runner.Options) {
		o.EventBufferSize = opts.EventBufferSize
		o.CycleInterval = opts.CycleInterval
		o.Logger = opts.Logger
	})

	return &Sim{opts: opts, runner: r}
}

// SpawnAgent constructs an agent with private wallet and compute backends,
// registers its loop with the runner and returns the handle.
func (s *Sim) SpawnAgent(name string, optFns ...func(o *engine.AgentOptions)) (*runner.Handle, error) {
	a := s.NewAgent(name, optFns...)
	return s.runner.Start(a)
}

// NewAgent constructs an agent wired to the shared marketplace/investor and
// fresh private wallet/compute sims, without starting its loop.
func (s *Sim) NewAgent(name string, optFns ...func(o *engine.AgentOptions)) *engine.Agent {
	opts := engine.AgentOptions{
		InitialBalance:      100,
		InitialComputeHours: 24,
		Config:              core.DefaultAgentConfig(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Backends.Wallet == nil {
		opts.Backends.Wallet = sim.NewWallet(name, opts.InitialBalance)
	}
	if opts.Backends.Compute == nil {
		opts.Backends.Compute = sim.NewCompute(opts.InitialComputeHours, s.opts.ComputeCostPerHour)
	}
	if opts.Backends.Marketplace == nil {
		opts.Backends.Marketplace = s.opts.Marketplace
	}
	if opts.Backends.Investor == nil {
		opts.Backends.Investor = s.opts.Investor
	}

	return engine.NewAgent(name, func(o *engine.AgentOptions) { *o = opts })
}

// Start registers a pre-built agent's loop with the runner.
func (s *Sim) Start(a *engine.Agent) (*runner.Handle, error) { return s.runner.Start(a) }

// Stop sends a cooperative stop command to the agent's loop.
func (s *Sim) Stop(h *runner.Handle) error { return s.runner.Stop(h) }

// StopWait stops the loop and blocks until it has terminated.
func (s *Sim) StopWait(ctx context.Context, h *runner.Handle) error {
	return s.runner.StopWait(ctx, h)
}

// Status returns the last known snapshot for a handle.
func (s *Sim) Status(h *runner.Handle) (core.StatusSnapshot, error) { return s.runner.Status(h) }

// List enumerates all known handles.
func (s *Sim) List() []*runner.Handle { return s.runner.List() }

// Events returns the observer stream of agent events.
func (s *Sim) Events() <-chan core.Event { return s.runner.Events() }

// Close stops all loops and closes the event stream.
func (s *Sim) Close(ctx context.Context) error { return s.runner.Close(ctx) }
