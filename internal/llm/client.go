// Package llm abstracts the text-generation model behind a single-call
// interface. A Generator makes exactly one network attempt per call;
// retries and fallbacks belong to the caller.
package llm

import "context"

type Generator interface {
	// Generate sends one prompt and returns the trimmed generated text.
	// Any failure (timeout, connection, HTTP status, malformed body,
	// empty output) surfaces as a non-nil error; the kinds are only
	// distinguished in logs.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
