// Package decision contains the pluggable decision strategies that drive an
// agent's cycle: the Engine interface, a deterministic rule-based strategy, a
// reasoning-model-backed strategy, and a Fallback wrapper that substitutes
// the deterministic strategy whenever the reasoning call fails, times out or
// produces an invalid result.
//
// Engines are stateless by contract: given the same state and configuration
// they produce the same output, hold no memory of prior calls and never
// mutate the state they are given. This keeps results reproducible and makes
// strategies freely substitutable behind the Fallback wrapper.
package decision
