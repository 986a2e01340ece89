package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"go.uber.org/zap"
)

const responseBodyPreview = 512

// GeminiGenerator implements domain.TextGenerator against the Gemini REST
// API: one HTTP POST per attempt to {baseURL}/models/{model}:generateContent
// with the API key passed as a query parameter. Retries are strictly
// sequential with exponential backoff; a later attempt always observes the
// outcome of the earlier one before starting.
type GeminiGenerator struct {
	apiKey     string
	baseURL    string
	defaults   domain.GenerationOptions
	httpClient *http.Client
	logger     *zap.Logger
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiGenerator creates a new GeminiGenerator from the provider config.
func NewGeminiGenerator(cfg config.GeminiConfig, logger *zap.Logger) (domain.TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	logger.Info("Initializing Gemini text generator",
		zap.String("model", cfg.Model),
		zap.String("base_url", baseURL))

	return &GeminiGenerator{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		defaults: domain.GenerationOptions{
			Model:           cfg.Model,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
			MaxRetries:      cfg.MaxRetries,
			RetryDelay:      cfg.RetryBaseDelay,
		},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Generate implements domain.TextGenerator. Transport errors, non-2xx
// statuses, unparsable envelopes and empty generations all count the attempt
// as failed; after delay(n) = base * 2^(n-1) backoff sleeps the next attempt
// starts. Exhausting every attempt raises one aggregated error naming the
// last cause, the model and the configured token limit.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	opts = g.resolve(opts)

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
			g.logger.Debug("Generation succeeded",
				zap.Int("attempt", attempt),
				zap.Int("response_length", len(text)))
			return text, nil
		}
		lastErr = err
	}

	return "", domain.NewGenerationFailedError(opts.Model, opts.MaxOutputTokens, opts.MaxRetries, lastErr)
}

func (g *GeminiGenerator) generateOnce(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", domain.NewInternalError("failed to encode generation request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, opts.Model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewInternalError("failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyPreview))
		return "", domain.NewAPIError(resp.StatusCode, string(body))
	}

	var envelope geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", domain.NewUnexpectedResponseShapeError(err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewEmptyGenerationError(opts.Model)
	}

	text := strings.TrimSpace(envelope.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", domain.NewEmptyGenerationError(opts.Model)
	}
	return text, nil
}

// resolve fills unset per-call options from the provider defaults.
func (g *GeminiGenerator) resolve(opts domain.GenerationOptions) domain.GenerationOptions {
	if opts.Model == "" {
		opts.Model = g.defaults.Model
	}
	if opts.Temperature == 0 {
		opts.Temperature = g.defaults.Temperature
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = g.defaults.MaxOutputTokens
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = g.defaults.MaxRetries
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = g.defaults.RetryDelay
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	return opts
}

var _ domain.TextGenerator = (*GeminiGenerator)(nil)
