package model

import (
	"context"
	"fmt"
	"strings"
)

// Request captures the normalized reasoning input produced by a decision
// strategy: fixed instructions plus a situation prompt.
type Request struct {
	Instructions string `json:"instructions"`
	Prompt       string `json:"prompt"`
	Stream       bool   `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive reasoning calls. The
// returned channels are closed when generation completes; the error channel
// carries at most one terminal error.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call and returns the concatenated final text.
// Partial chunks are ignored in favor of final responses; callers control the
// call budget via ctx.
func Collect(ctx context.Context, m Model, req Request) (string, error) {
	respCh, errCh := m.Generate(ctx, req)

	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case err, ok := <-errCh:
			if ok && err != nil {
				return "", err
			}
			errCh = nil
		case resp, ok := <-respCh:
			if !ok {
				if errCh != nil {
					if err, ok := <-errCh; ok && err != nil {
						return "", err
					}
				}
				return sb.String(), nil
			}
			if !resp.Partial {
				sb.WriteString(resp.Text)
			}
		}
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every Generate call fail with the given error.
func (m *MockModel) FailWith(err error) { m.err = err }

// Generate implements Model; emits optional streaming char chunks then the
// final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if m.err != nil {
			errCh <- m.err
			return
		}
		full := m.responses[req.Prompt]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", req.Prompt)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{Text: full, FinishReason: "stop"}:
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
