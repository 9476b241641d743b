package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrNoProvider means no provider was selected and no API key was found.
var ErrNoProvider = errors.New("no LLM provider configured")

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock".
	// Empty means discover from the standard API key variables.
	Provider string `env:"MATHPATH_LLM_PROVIDER" envDefault:""`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// MaxTokens caps a single response. Default: 1024.
	MaxTokens int `env:"MATHPATH_LLM_MAX_TOKENS" envDefault:"1024"`

	// Temperature used by generation requests that don't set their own.
	Temperature float64 `env:"MATHPATH_LLM_TEMPERATURE" envDefault:"0.7"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration `env:"MATHPATH_LLM_TIMEOUT" envDefault:"30s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `env:"MATHPATH_ANTHROPIC_API_KEY" envDefault:""`
	Model   string `env:"MATHPATH_ANTHROPIC_MODEL" envDefault:"claude-haiku"`
	BaseURL string `env:"MATHPATH_ANTHROPIC_BASE_URL" envDefault:""` // Optional. Proxy or gateway in front of the API.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"MATHPATH_OPENAI_API_KEY" envDefault:""`
	Model   string `env:"MATHPATH_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"MATHPATH_OPENAI_BASE_URL" envDefault:""` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `env:"MATHPATH_GEMINI_API_KEY" envDefault:""`
	Model   string `env:"MATHPATH_GEMINI_MODEL" envDefault:"gemini-flash"`
	BaseURL string `env:"MATHPATH_GEMINI_BASE_URL" envDefault:""` // Optional. Proxy or gateway in front of the API.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"MATHPATH_OPENROUTER_API_KEY" envDefault:""`
	Model   string `env:"MATHPATH_OPENROUTER_MODEL" envDefault:"google/gemini-2.5-flash"`
	BaseURL string `env:"MATHPATH_OPENROUTER_BASE_URL" envDefault:""` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MATHPATH_LLM_RETRY_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"MATHPATH_LLM_RETRY_INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MATHPATH_LLM_RETRY_MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MATHPATH_LLM_RETRY_MULTIPLIER" envDefault:"2.0"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromEnv parses the MATHPATH_* LLM variables. When no provider is
// named, the standard API key variables are checked via DiscoverConfig.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return Config{}, fmt.Errorf("parse llm config: %w", err)
	}
	if cfg.Provider != "" {
		return cfg, nil
	}

	found, ok := DiscoverConfig()
	if !ok {
		return Config{}, ErrNoProvider
	}
	cfg.Provider = found.Provider
	switch found.Provider {
	case "gemini":
		cfg.Gemini.APIKey = found.Gemini.APIKey
	case "openai":
		cfg.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		cfg.Anthropic.APIKey = found.Anthropic.APIKey
	case "openrouter":
		cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
	return cfg, nil
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHPATH_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHPATH_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHPATH_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MATHPATH_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	case "":
		return ErrNoProvider
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
