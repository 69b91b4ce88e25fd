package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hello", "world")

	text, err := Collect(context.Background(), m, Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "world", text)
}

func TestMockModelDefaultResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	text, err := Collect(context.Background(), m, Request{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", text)
}

func TestMockModelStreaming(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hi", "streamed")

	respCh, errCh := m.Generate(context.Background(), Request{Prompt: "hi", Stream: true})

	var partials, finals int
	var final string
	for resp := range respCh {
		if resp.Partial {
			partials++
		} else {
			finals++
			final = resp.Text
		}
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, len("streamed"), partials)
	assert.Equal(t, 1, finals)
	assert.Equal(t, "streamed", final)
}

func TestMockModelFailure(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	wantErr := errors.New("model unavailable")
	m.FailWith(wantErr)

	_, err := Collect(context.Background(), m, Request{Prompt: "hello"})
	assert.ErrorIs(t, err, wantErr)
}

// stuckModel never produces output, so Collect can only return via ctx.
type stuckModel struct{}

func (stuckModel) Generate(_ context.Context, _ Request) (<-chan Response, <-chan error) {
	return make(chan Response), make(chan error)
}

func (stuckModel) Info() Info { return Info{Name: "stuck", Provider: "mock"} }

func TestCollectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, stuckModel{}, Request{Prompt: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModelInfo(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
