// Package model defines the reasoning-model abstraction used by the
// reasoning-backed decision strategy, plus a deterministic MockModel for
// tests. Provider adapters for the official Anthropic and OpenAI SDKs live
// in the anthropic and openai subpackages.
package model
