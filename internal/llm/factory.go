package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/lovesim/internal/store"
)

// NewProvider creates a Provider from configuration.
// The result is layered as caller → memory → retry → logging → base, so
// retries never duplicate conversation turns and every attempt is logged.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, mem *Memory) (Provider, error) {
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
		mock := NewMockProvider()
		mock.Replies = cfg.MockReplies
		base = mock
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, eventRepo)
	p = WithRetry(p, cfg.Retry)
	if mem != nil {
		p = WithMemory(p, mem)
	}
	return p, nil
}

// ResolveConfig reads LOVESIM_* settings and, when they do not name a
// usable provider, falls back to the standard vendor API key variables.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	discovered, ok := DiscoverConfig()
	if !ok {
		return Config{}, err
	}
	discovered.Timeout = cfg.Timeout
	discovered.Image.Model = cfg.Image.Model
	discovered.Image.Size = cfg.Image.Size
	return discovered, nil
}

// NewImageGenerator returns an ImageGenerator for cfg, or nil when image
// generation is not configured.
func NewImageGenerator(cfg Config) (ImageGenerator, error) {
	if !cfg.HasImages() {
		return nil, nil
	}
	gen, err := NewOpenAIImageGenerator(cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("initializing image generator: %w", err)
	}
	return gen, nil
}
