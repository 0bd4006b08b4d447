// Package llm forwards text-generation prompts to an external model API.
package llm

import "context"

// Generation defaults applied when a caller leaves an option unset.
const (
	DefaultMaxTokens   = 8096
	DefaultTemperature = 0.7
)

// Provider generates text for a single prompt. Implementations make one
// upstream call per Generate and never retry.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response holds the generated text.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// WithDefaults fills zero MaxTokens with DefaultMaxTokens.
func (r Request) WithDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}
