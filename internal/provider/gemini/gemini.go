// Package gemini implements provider.Completer on top of Google Gemini.
package gemini

import (
	"context"
	"errors"

	"github.com/Cyclone1070/fschat/internal/provider"
)

// ErrMissingAPIKey is returned by Dial when no API key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Options tunes generation.
type Options struct {
	Model           string
	SystemPrompt    string
	Temperature     float32
	MaxOutputTokens int32
}

// Completer implements provider.Completer for Google Gemini.
type Completer struct {
	client GeminiClient
	opts   Options
}

// New creates a Completer that sends requests through client.
func New(client GeminiClient, opts Options) *Completer {
	return &Completer{client: client, opts: opts}
}

// Model returns the configured model name.
func (c *Completer) Model() string { return c.opts.Model }

// Complete sends the whole conversation and returns the model's text reply.
func (c *Completer) Complete(ctx context.Context, history []provider.Message) (string, error) {
	contents := toGeminiContents(history)
	config := toGeminiConfig(c.opts)

	resp, err := c.client.GenerateContent(ctx, c.Model(), contents, config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	return textFromResponse(resp)
}
