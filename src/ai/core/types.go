package core

import (
	"context"
	"errors"
)

// Failure classes callers branch on with errors.Is. Providers map their wire
// errors onto these so the research pipeline stays provider-agnostic.
var (
	// ErrRateLimited means the provider refused the request for quota
	// reasons; the call may succeed after a delay.
	ErrRateLimited = errors.New("ai: rate limited")
	// ErrConnection means the provider could not be reached at all.
	ErrConnection = errors.New("ai: connection failed")
	// ErrEmpty means the provider accepted the request but returned no text.
	ErrEmpty = errors.New("ai: empty response")
)

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	EnableWebSearch     bool
}

// Client is a provider-agnostic interface for the one operation we need:
// instructed free-text generation, optionally with web search.
type Client interface {
	Generate(ctx context.Context, instructions string, prompt string, opts Options) (string, error)
}
