package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// NewClient creates the Client for the configured provider.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := NewOpenAIClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s, %s]",
			cfg.Provider, config.ProviderGemini, config.ProviderOpenAI)
	}
}
