// Package runner manages many independently executing agent loops as
// cancellable background goroutines. Each loop repeatedly invokes the cycle
// executor until its agent goes inactive, a cycle limit is reached or a stop
// command arrives. Loops communicate exclusively through a per-loop command
// channel (read at cycle boundaries) and a single fan-in event channel
// multiplexed to the observer; the handle registry and that event channel
// are the only shared structures and both are internally synchronized.
package runner
