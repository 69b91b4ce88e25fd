// Package sim provides in-memory, concurrency-safe implementations of the
// core backend contracts (Wallet, Marketplace, Compute, Investor). They are
// best suited for tests, examples and local simulation runs; a production
// deployment substitutes real services behind the same interfaces. All
// implementations are safe for concurrent use by multiple agent loops.
package sim
