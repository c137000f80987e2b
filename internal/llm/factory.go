package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/worker"
)

// NewProvider creates a new LLM provider based on configuration. The
// returned provider is rate-limited per the config so batch runs cannot
// flood an API. A nil provider with nil error means LLM parsing is
// disabled and callers should use their heuristic fallback.
func NewProvider(config Config) (Provider, error) {
	name := strings.ToLower(config.Provider)

	var (
		p   Provider
		err error
	)
	switch name {
	case "openai":
		p, err = NewOpenAIProvider(config)

	case "anthropic", "claude":
		p, err = NewAnthropicProvider(config)

	case "ollama":
		p, err = NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &throttledProvider{
		inner:   p,
		limiter: worker.NewLimiter(rps, config.Burst),
	}, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.TimeoutSeconds,
		MaxTokens:         mc.MaxTokens,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
}

// throttledProvider wraps a provider with a per-provider rate limiter
type throttledProvider struct {
	inner   Provider
	limiter *worker.Limiter
}

func (t *throttledProvider) Name() string {
	return t.inner.Name()
}

func (t *throttledProvider) IsAvailable(ctx context.Context) bool {
	return t.inner.IsAvailable(ctx)
}

func (t *throttledProvider) ParseAssertion(ctx context.Context, assertion string) (*model.ParsedAssertion, error) {
	if err := t.limiter.Wait(ctx, t.inner.Name()); err != nil {
		return nil, err
	}
	return t.inner.ParseAssertion(ctx, assertion)
}

func (t *throttledProvider) StructureScenario(ctx context.Context, question string) (*model.ScenarioSpec, error) {
	if err := t.limiter.Wait(ctx, t.inner.Name()); err != nil {
		return nil, err
	}
	return t.inner.StructureScenario(ctx, question)
}
