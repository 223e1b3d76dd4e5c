package llm

import "context"

// Fake is a canned-response Generator for tests.
type Fake struct {
	// Response is returned verbatim from Complete.
	Response string
	// Err, when set, is returned instead.
	Err error
	// LastPrompt records the most recent prompt received.
	LastPrompt string
}

// Ensure Fake implements Generator interface.
var _ Generator = (*Fake)(nil)

// Complete returns the canned response or error.
func (f *Fake) Complete(_ context.Context, prompt string) (string, error) {
	f.LastPrompt = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}
