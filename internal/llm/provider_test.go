package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/backend/internal/config"
)

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrUpstream{Provider: "Slow", Err: ctx.Err()}
}

func (slowProvider) ModelID() string { return "slow" }

func TestRequest_WithDefaults(t *testing.T) {
	r := Request{Prompt: "p"}.WithDefaults()
	assert.Equal(t, DefaultMaxTokens, r.MaxTokens)

	r = Request{Prompt: "p", MaxTokens: 10}.WithDefaults()
	assert.Equal(t, 10, r.MaxTokens)
}

func TestMockProvider_FIFOAndEcho(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockProvider(MockResponse{Text: "first"}, MockResponse{Err: boom})

	resp, err := m.Generate(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	_, err = m.Generate(context.Background(), Request{Prompt: "b"})
	assert.ErrorIs(t, err, boom)

	resp, err = m.Generate(context.Background(), Request{Prompt: "c"})
	require.NoError(t, err)
	assert.Equal(t, "mock response: c", resp.Text)

	assert.Equal(t, 3, m.CallCount())
	last, ok := m.LastCall()
	require.True(t, ok)
	assert.Equal(t, "c", last.Prompt)
}

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "slow", p.ModelID())

	assert.IsType(t, slowProvider{}, WithTimeout(slowProvider{}, 0))
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}, MockResponse{Err: errors.New("down")}), logger)

	_, err := p.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "llm request completed")

	_, err = p.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "llm request failed")
	assert.Contains(t, buf.String(), "down")
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Timeout: time.Second}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "llama"}, nil)
	assert.ErrorContains(t, err, "unknown LLM provider")

	_, err = NewProvider(context.Background(), Config{Provider: "openai"}, nil)
	assert.ErrorContains(t, err, "API key is required")
}

func TestUnavailableProvider(t *testing.T) {
	cause := errors.New("gemini API key is required")
	p := NewUnavailableProvider("Gemini", cause)

	_, err := p.Generate(context.Background(), Request{Prompt: "p"})

	var upstream *ErrUpstream
	require.True(t, errors.As(err, &upstream))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Gemini API error: gemini API key is required", err.Error())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(&config.Config{
		LLMProvider:      "anthropic",
		LLMTimeout:       time.Second,
		GeminiAPIURL:     "http://gemini.local",
		OpenAIBaseURL:    "http://openai.local",
		AnthropicAPIKey:  "key",
		AnthropicBaseURL: "http://anthropic.local",
	})

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "http://gemini.local", cfg.Gemini.BaseURL)
	assert.Equal(t, "http://openai.local", cfg.OpenAI.BaseURL)
	assert.Equal(t, "key", cfg.Anthropic.APIKey)
	assert.Equal(t, "http://anthropic.local", cfg.Anthropic.BaseURL)
}
