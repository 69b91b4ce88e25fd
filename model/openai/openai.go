// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts econsim's normalized Request/Response
// structures into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"econsim/model"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model. The full completion is emitted as a
// single final response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)

		var messages []openai.ChatCompletionMessageParamUnion
		if req.Instructions != "" {
			messages = append(messages, openai.SystemMessage(req.Instructions))
		}
		messages = append(messages, openai.UserMessage(req.Prompt))

		params := openai.ChatCompletionNewParams{
			Model:               m.opts.Model,
			Messages:            messages,
			Temperature:         openai.Float(m.opts.Temperature),
			MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
		}

		resp, err := m.client.Chat.Completions.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("openai api error: %w", err)
			return
		}
		if len(resp.Choices) == 0 {
			errCh <- fmt.Errorf("no choices returned")
			return
		}
		ch0 := resp.Choices[0]

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- model.Response{Text: ch0.Message.Content, FinishReason: ch0.FinishReason}:
		}
	}()
	return out, errCh
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "openai",
	}
}
