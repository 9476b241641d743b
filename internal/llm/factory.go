package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout, retry and logging middleware.
// A nil recorder disables the request log.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → defaults → timeout → retry → logging → base
	logged := WithLogging(base, recorder)
	retried := WithRetry(logged, cfg.Retry)
	timed := WithTimeout(retried, cfg.Timeout)
	return &defaultsProvider{inner: timed, maxTokens: cfg.MaxTokens, temperature: cfg.Temperature}, nil
}

// defaultsProvider fills MaxTokens and Temperature when a request leaves
// them unset.
type defaultsProvider struct {
	inner       Provider
	maxTokens   int
	temperature float64
}

func (d *defaultsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = d.maxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = d.temperature
	}
	return d.inner.Generate(ctx, req)
}

func (d *defaultsProvider) ModelID() string {
	return d.inner.ModelID()
}

// NewProviderFromEnv builds a provider from the MATHPATH_* variables.
// It returns ErrNoProvider when nothing is configured.
func NewProviderFromEnv(ctx context.Context, recorder EventRecorder) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, recorder)
}
