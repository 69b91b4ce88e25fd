package engine

import (
	"context"
	"time"

	"econsim/core"
	"econsim/decision"
	"econsim/internal/util"
	"econsim/logging"
)

// Options holds dependency + configuration overrides passed to NewExecutor.
type Options struct {
	// Policy tunes the simulation economics.
	Policy Policy
	// Logger receives per-cycle diagnostics.
	Logger logging.Logger
}

// Executor runs the per-cycle pipeline: refresh state from the backends,
// compute allocation and decision, execute the chosen branch, perform task
// work bounded by the allocation, and finalize an immutable CycleResult.
// Each step is individually fallible; errors are captured on the result
// instead of aborting the cycle, keeping multi-agent runs resilient to
// isolated failures.
type Executor struct {
	strategy decision.Engine
	policy   Policy
	logger   logging.Logger

	// rules is the last-resort strategy substituted when the configured
	// strategy errors or violates the allocation invariants at this level.
	rules *decision.RuleBased
}

// NewExecutor constructs an Executor with optional overrides. Backend
// collaborators are taken from each agent at cycle time.
func NewExecutor(strategy decision.Engine, optFns ...func(o *Options)) *Executor {
	opts := Options{
		Policy: DefaultPolicy(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Executor{
		strategy: strategy,
		policy:   opts.Policy,
		logger:   opts.Logger,
		rules:    decision.NewRuleBased(),
	}
}

// RunCycle executes one full cycle for the agent and appends the result to
// its history. The agent's state is mutated only here, between the backend
// suspension points; the caller owns the agent exclusively.
func (e *Executor) RunCycle(ctx context.Context, a *Agent) core.CycleResult {
	start := time.Now()
	st := a.State
	st.Cycle++

	result := core.CycleResult{
		AgentID: a.ID,
		Cycle:   st.Cycle,
		Before:  st.Clone(),
	}

	// Step 1: refresh state from the backend collaborators.
	e.refresh(ctx, a, &result)

	// Steps 2 & 3: allocation and primary decision via the active strategy.
	strategy := e.strategyFor(a)
	alloc := e.allocate(ctx, strategy, *st, a.Config, &result)
	dec := e.decide(ctx, strategy, *st, a.Config, &result)
	result.Allocation = alloc
	result.Decision = dec

	// Step 4: branch execution.
	switch dec.Kind {
	case core.DecisionFormCompany:
		e.formCompany(ctx, a, &result)
	case core.DecisionSeekInvestment:
		e.seekInvestment(ctx, a, &result)
	case core.DecisionCompanyWork:
		e.companyWork(ctx, a, alloc.CompanyHours, &result)
	case core.DecisionIdle:
		// Cooldown: an idle cycle decays the failure streak so the agent
		// resumes work instead of idling forever.
		if st.ConsecutiveFailures > 0 {
			st.ConsecutiveFailures--
		}
	}

	// Step 5: task work, independent of the branch, bounded by the
	// allocated task hours. Idle cycles spend nothing.
	if dec.Kind != core.DecisionIdle && alloc.TaskHours > 0 {
		e.workTasks(ctx, a, alloc.TaskHours, &result)
	}

	// Step 6: finalize.
	st.Balance = util.ClampNonNegative(st.Balance)
	st.ComputeHours = util.ClampNonNegative(st.ComputeHours)
	if st.Exhausted() {
		st.IsActive = false
	}
	if a.Config.MaxCycles > 0 && st.Cycle >= a.Config.MaxCycles {
		st.IsActive = false
	}

	result.After = st.Clone()
	result.Duration = time.Since(start)
	a.appendResult(result)

	if cl, ok := e.logger.(logging.CycleLogger); ok {
		cl.LogCycle(a.ID, st.Cycle, string(dec.Kind), result.Duration, result.Err)
	} else {
		e.logger.Debug("cycle finished",
			"agent_id", a.ID,
			"cycle", st.Cycle,
			"decision", string(dec.Kind),
			"fallback_used", dec.FallbackUsed,
			"error", result.Err)
	}

	return result
}

// StopReasonFor derives the terminal reason for an agent whose state became
// inactive during a cycle.
func StopReasonFor(a *Agent) core.StopReason {
	if a.State.Exhausted() {
		return core.StopReasonExhausted
	}
	if a.Config.MaxCycles > 0 && a.State.Cycle >= a.Config.MaxCycles {
		return core.StopReasonMaxCycles
	}
	return core.StopReasonCommand
}

// refresh pulls current balance and compute hours from the backends. A
// failed refresh keeps the local mirror and records the error.
func (e *Executor) refresh(ctx context.Context, a *Agent, result *core.CycleResult) {
	st := a.State
	if bal, err := a.Backends.Wallet.Balance(ctx); err != nil {
		capture(result, err)
	} else {
		st.Balance = bal
	}
	if cs, err := a.Backends.Compute.Status(ctx); err != nil {
		capture(result, err)
	} else {
		st.ComputeHours = cs.HoursRemaining
	}
	if a.Company != nil {
		st.CompanyStage = a.Company.Stage
	}
}

// strategyFor resolves the decision engine for an agent: its own override
// when set, the executor's default otherwise.
func (e *Executor) strategyFor(a *Agent) decision.Engine {
	if a.Strategy != nil {
		return a.Strategy
	}
	return e.strategy
}

// allocate obtains a validated allocation, substituting the deterministic
// rules when the strategy errors or violates the allocation invariants.
func (e *Executor) allocate(ctx context.Context, strategy decision.Engine, st core.AgentState, cfg core.AgentConfig, result *core.CycleResult) core.ResourceAllocation {
	alloc, err := strategy.Allocate(ctx, st, cfg)
	if err == nil {
		err = alloc.Validate(st.ComputeHours)
		if err == nil {
			return alloc
		}
	}
	capture(result, err)

	alloc, _ = e.rules.Allocate(ctx, st, cfg)
	alloc.FallbackUsed = true
	return alloc
}

// decide obtains the primary decision, substituting the deterministic rules
// when the strategy errors.
func (e *Executor) decide(ctx context.Context, strategy decision.Engine, st core.AgentState, cfg core.AgentConfig, result *core.CycleResult) core.Decision {
	dec, err := strategy.Decide(ctx, st, cfg)
	if err == nil {
		return dec
	}
	capture(result, err)

	dec, _ = e.rules.Decide(ctx, st, cfg)
	dec.FallbackUsed = true
	return dec
}

// capture records the first non-fatal error encountered during a cycle.
func capture(result *core.CycleResult, err error) {
	if err != nil && result.Err == "" {
		result.Err = err.Error()
	}
}
