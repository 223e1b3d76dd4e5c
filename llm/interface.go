package llm

import "context"

// Generator defines the interface to the external text-generation service.
type Generator interface {
	// Complete sends a prompt and returns the completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements Generator interface.
var _ Generator = (*Client)(nil)
