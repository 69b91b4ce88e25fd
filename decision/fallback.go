package decision

import (
	"context"
	"time"

	"econsim/core"
	"econsim/logging"
)

// FallbackOptions configures the Fallback wrapper.
type FallbackOptions struct {
	Logger logging.Logger
}

// Fallback decorates a primary engine with a deterministic secondary one.
// Whenever the primary fails (timeout, malformed or invalid response) the
// secondary's result is returned instead, with FallbackUsed recorded on the
// result so decision logs preserve provenance. Callers therefore always
// receive a valid Decision and ResourceAllocation.
type Fallback struct {
	primary   Engine
	secondary Engine
	logger    logging.Logger
}

// NewFallback wraps primary so that secondary substitutes on any failure.
// The secondary is expected to be infallible (the rule-based strategy is).
func NewFallback(primary, secondary Engine, optFns ...func(o *FallbackOptions)) *Fallback {
	opts := FallbackOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Fallback{primary: primary, secondary: secondary, logger: opts.Logger}
}

// Name implements Engine.
func (f *Fallback) Name() string { return f.primary.Name() + "+" + f.secondary.Name() }

// Decide implements Engine, substituting the secondary strategy on failure.
func (f *Fallback) Decide(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.Decision, error) {
	start := time.Now()
	d, err := f.primary.Decide(ctx, state, cfg)
	f.logCall(time.Since(start), err)
	if err == nil {
		return d, nil
	}
	f.logger.Warn("primary strategy failed, falling back", "strategy", f.primary.Name(), "error", err)

	d, ferr := f.secondary.Decide(ctx, state, cfg)
	if ferr != nil {
		return core.Decision{}, ferr
	}
	d.FallbackUsed = true
	return d, nil
}

// Allocate implements Engine, substituting the secondary strategy on failure.
func (f *Fallback) Allocate(ctx context.Context, state core.AgentState, cfg core.AgentConfig) (core.ResourceAllocation, error) {
	start := time.Now()
	a, err := f.primary.Allocate(ctx, state, cfg)
	f.logCall(time.Since(start), err)
	if err == nil {
		return a, nil
	}
	f.logger.Warn("primary strategy failed, falling back", "strategy", f.primary.Name(), "error", err)

	a, ferr := f.secondary.Allocate(ctx, state, cfg)
	if ferr != nil {
		return core.ResourceAllocation{}, ferr
	}
	a.FallbackUsed = true
	return a, nil
}

// logCall records one primary call on loggers that understand reasoning call
// telemetry. A failed call implies the secondary will be substituted.
func (f *Fallback) logCall(dur time.Duration, err error) {
	rl, ok := f.logger.(logging.ReasonerCallLogger)
	if !ok {
		return
	}
	rl.LogReasonerCall(f.primary.Name(), dur, err == nil, err != nil, err)
}
