// Package engine contains the cycle executor: the orchestration that ties an
// agent's state, its decision strategy and the backend collaborators into one
// atomic-feeling cycle of refresh, allocate, decide, branch execution, task
// work and finalize. Errors inside a step are captured into the CycleResult
// instead of propagating, so one agent's trouble never aborts a multi-agent
// run. The package also owns the company lifecycle glue (formation, company
// work and investment seeking) driven by cycle outcomes.
package engine
