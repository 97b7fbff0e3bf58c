package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/nbenliogludev/go-form-filler/internal/config"
)

// contentGenerator is the part of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient calls the Gemini API through the Google Gen AI SDK.
type GeminiClient struct {
	models  contentGenerator
	model   string
	genCfg  *genai.GenerateContentConfig
	timeout time.Duration
	logger  *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newGeminiClient(client.Models, cfg, logger), nil
}

func newGeminiClient(models contentGenerator, cfg config.LLMConfig, logger *zap.Logger) *GeminiClient {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(cfg.Temperature),
	}
	if cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &GeminiClient{
		models:  models,
		model:   cfg.Model,
		genCfg:  genCfg,
		timeout: cfg.Timeout,
		logger:  logger.Named("llm.gemini"),
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini API returned empty content (reason: %s)", resp.Candidates[0].FinishReason)
	}

	fields := []zap.Field{
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
	}
	if u := resp.UsageMetadata; u != nil {
		fields = append(fields,
			zap.Int32("prompt_tokens", u.PromptTokenCount),
			zap.Int32("completion_tokens", u.CandidatesTokenCount),
		)
	}
	c.logger.Info("LLM generation complete.", fields...)

	return text, nil
}
