// Package core provides the foundational domain types and interfaces used by
// econsim. It defines the core abstractions for:
//
//   - AgentState / AgentConfig (resources, progress and tuning of one agent)
//   - Decisions and ResourceAllocations (output of a decision strategy)
//   - CycleResults (immutable per-cycle outcome records)
//   - Companies and their validated stage lifecycle
//   - Events (immutable records streamed by running agent loops)
//   - Backend capability contracts (Wallet, Marketplace, Compute, Investor)
//
// The package intentionally keeps implementation concerns (decision
// strategies, cycle orchestration, concrete backends) out of scope, exposing
// small interfaces to enable custom backends and extensions.
package core
