package llm

import "context"

// Client sends one prompt to a language model and returns its raw text reply.
// Implementations do not retry.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
