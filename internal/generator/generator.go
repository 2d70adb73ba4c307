package generator

import (
	"context"
	"fmt"

	"siteship/internal/config"
)

// Generator produces static website code from a rendered prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New constructs the generator selected by configuration
func New(ctx context.Context, cfg config.GeneratorConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.Model)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
