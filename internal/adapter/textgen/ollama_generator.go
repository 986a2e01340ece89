package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// OllamaGenerator implements domain.TextGenerator against a local Ollama
// server through langchaingo. Retry semantics mirror the Gemini client so
// the downstream pipeline behaves identically regardless of provider.
type OllamaGenerator struct {
	llm     *ollama.LLM
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOllamaGenerator creates a new OllamaGenerator from the provider config.
func NewOllamaGenerator(cfg config.OllamaConfig, logger *zap.Logger) (domain.TextGenerator, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollama.New(ollama.WithServerURL(cfg.ServerURL), ollama.WithModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	logger.Info("Initializing Ollama text generator",
		zap.String("server_url", cfg.ServerURL),
		zap.String("model", cfg.Model))

	return &OllamaGenerator{
		llm:     llm,
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate implements domain.TextGenerator.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	if opts.Model == "" {
		opts.Model = g.model
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 1 {
			delay := opts.RetryDelay << uint(attempt-2)
			g.logger.Warn("Generation attempt failed, backing off",
				zap.Int("attempt", attempt-1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", domain.NewGenerationFailedError(opts.Model, opts.MaxOutputTokens, attempt-1, ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := g.generateOnce(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", domain.NewGenerationFailedError(opts.Model, opts.MaxOutputTokens, opts.MaxRetries, lastErr)
}

func (g *OllamaGenerator) generateOnce(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxOutputTokens))
	}
	if opts.Model != "" {
		callOpts = append(callOpts, llms.WithModel(opts.Model))
	}

	response, err := g.llm.Call(callCtx, prompt, callOpts...)
	if err != nil {
		return "", domain.NewTransportError(err)
	}
	if strings.TrimSpace(response) == "" {
		return "", domain.NewEmptyGenerationError(opts.Model)
	}
	return strings.TrimSpace(response), nil
}

var _ domain.TextGenerator = (*OllamaGenerator)(nil)
