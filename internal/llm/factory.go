package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepwise/backend/internal/config"
)

// Config selects and configures one provider.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "mock".
	Provider string
	Timeout  time.Duration

	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Provider: cfg.LLMProvider,
		Timeout:  cfg.LLMTimeout,
		Gemini: GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiAPIURL,
		},
		OpenAI: OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		},
		Anthropic: AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicBaseURL,
		},
	}
}

// NewProvider builds the configured provider wrapped as
// caller → timeout → logging → base.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithTimeout(WithLogging(base, logger), cfg.Timeout), nil
}

// unavailableProvider stands in when the configured provider could not be
// built, so the rest of the API keeps serving.
type unavailableProvider struct {
	name string
	err  error
}

// NewUnavailableProvider returns a Provider whose every call fails with
// ErrUpstream wrapping err.
func NewUnavailableProvider(name string, err error) Provider {
	return &unavailableProvider{name: name, err: err}
}

func (u *unavailableProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrUpstream{Provider: u.name, Err: u.err}
}

func (u *unavailableProvider) ModelID() string {
	return "unavailable"
}
