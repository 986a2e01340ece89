package service

import (
	"context"
	"encoding/json"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/extraction"
	"quiz-forge/internal/prompt"
	"quiz-forge/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultExclusionTTL = 10 * time.Minute

// generationService implements domain.QuestionGenerationService. One
// invocation owns all of its intermediate data; the only shared state is the
// singleflight group collapsing concurrent exclusion-list lookups.
type generationService struct {
	generator domain.TextGenerator
	repo      domain.QuestionRepository
	cache     domain.Cache
	cfg       *config.Config
	logger    *zap.Logger
	sfGroup   singleflight.Group
}

// NewGenerationService creates a new generation service. repo and cache may
// be nil: without a repository the exclusion list is empty and persistence
// is unavailable; without a cache every run queries the repository.
func NewGenerationService(
	generator domain.TextGenerator,
	repo domain.QuestionRepository,
	cacheAdapter domain.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) domain.QuestionGenerationService {
	return &generationService{
		generator: generator,
		repo:      repo,
		cache:     cacheAdapter,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateQuestions runs the pipeline: resolve parameters, source the
// exclusion list, build the prompt, generate, extract, parse, normalize,
// validate and optionally persist.
func (s *generationService) GenerateQuestions(ctx context.Context, params domain.GenerationParams) (*domain.GenerationResult, error) {
	params = s.resolveParams(params)
	opts := s.resolveOptions(params)

	s.logger.Info("Starting question generation",
		zap.String("topic", params.Topic),
		zap.String("mode", string(params.Mode)),
		zap.Int("count", params.QuestionCount),
		zap.String("model", opts.Model))

	exclusions := s.exclusionList(ctx, params.Topic)

	promptText := prompt.Build(s.cfg.Generation.PromptTemplate, prompt.Params{
		Topic:               params.Topic,
		Language:            params.Language,
		Position:            params.Position,
		DifficultyText:      params.DifficultyText,
		PositionInstruction: params.PositionInstruction,
		QuestionCount:       params.QuestionCount,
	}, exclusions, "")

	rawText, err := s.generator.Generate(ctx, promptText, opts)
	if err != nil {
		s.logger.Error("Text generation failed", zap.String("topic", params.Topic), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("Received raw generation output", zap.Int("length", len(rawText)))

	candidate := extraction.ExtractArrayLike(extraction.Extract(rawText))

	tree, err := extraction.Parse(candidate, rawText)
	if err != nil {
		s.logger.Error("Failed to parse generated content",
			zap.String("topic", params.Topic),
			zap.String("preview", extraction.Preview(candidate)),
			zap.Error(err))
		return nil, err
	}

	entries, err := extraction.Normalize(tree, params.Mode)
	if err != nil {
		s.logger.Error("No recognizable entry list in generated content",
			zap.String("topic", params.Topic),
			zap.Error(err))
		return nil, err
	}

	records, warnings, err := validation.ValidateEntries(entries, params.Mode)
	if err != nil {
		s.logger.Error("Generated entries failed validation",
			zap.String("topic", params.Topic),
			zap.Error(err))
		return nil, err
	}

	for _, w := range warnings {
		s.logger.Warn("Repaired generated entry",
			zap.Int("entry", w.Entry),
			zap.String("field", w.Field),
			zap.String("message", w.Message))
	}

	result := &domain.GenerationResult{Questions: records, Warnings: warnings}

	if params.Save {
		ids, err := s.persist(ctx, params.Topic, records)
		if err != nil {
			return nil, err
		}
		result.SavedIDs = ids
	}

	s.logger.Info("Question generation completed",
		zap.String("topic", params.Topic),
		zap.Int("questions", len(records)),
		zap.Int("warnings", len(warnings)),
		zap.Int("saved", len(result.SavedIDs)))

	return result, nil
}

// RecentQuestions returns the most recently stored records for a category.
func (s *generationService) RecentQuestions(ctx context.Context, category string, limit int) ([]domain.QuestionRecord, error) {
	if s.repo == nil {
		return nil, domain.NewInternalError("question repository is not configured", nil)
	}
	if limit <= 0 {
		limit = s.cfg.Generation.QuestionCount
	}
	return s.repo.GetRecentQuestions(ctx, category, limit)
}

// exclusionList sources already-known question texts for the topic: cache
// first, then a singleflight-collapsed repository query. The list is
// advisory, so every failure degrades to an empty list instead of aborting
// the run.
func (s *generationService) exclusionList(ctx context.Context, topic string) []string {
	if s.repo == nil {
		return nil
	}

	cacheKey := cache.GenerateCacheKey("generation", "exclusions", topic)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var texts []string
			if err := json.Unmarshal([]byte(cached), &texts); err == nil {
				s.logger.Debug("Exclusion list cache hit",
					zap.String("topic", topic),
					zap.Int("count", len(texts)))
				return texts
			}
			s.logger.Warn("Failed to decode cached exclusion list", zap.String("key", cacheKey), zap.Error(err))
		} else if err != domain.ErrCacheMiss {
			s.logger.Warn("Exclusion list cache lookup failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		texts, fetchErr := s.repo.GetQuestionTexts(ctx, topic)
		if fetchErr != nil {
			return nil, fetchErr
		}

		if s.cache != nil {
			if encoded, encErr := json.Marshal(texts); encErr == nil {
				ttl := s.cfg.ParseTTLStringOrDefault(s.cfg.CacheTTLs.ExclusionList, defaultExclusionTTL)
				if setErr := s.cache.Set(ctx, cacheKey, string(encoded), ttl); setErr != nil {
					s.logger.Warn("Failed to cache exclusion list", zap.String("key", cacheKey), zap.Error(setErr))
				}
			}
		}
		return texts, nil
	})
	if err != nil {
		s.logger.Warn("Failed to fetch exclusion list, generating without it",
			zap.String("topic", topic),
			zap.Error(err))
		return nil
	}

	texts, _ := res.([]string)
	return texts
}

// persist stores the validated records and drops the now-stale exclusion
// list cache entry for the topic.
func (s *generationService) persist(ctx context.Context, topic string, records []domain.QuestionRecord) ([]string, error) {
	if s.repo == nil {
		return nil, domain.NewInternalError("cannot save questions: repository is not configured", nil)
	}

	ids, err := s.repo.SaveQuestions(ctx, records)
	if err != nil {
		s.logger.Error("Failed to persist generated questions",
			zap.String("topic", topic),
			zap.Int("count", len(records)),
			zap.Error(err))
		return nil, domain.NewInternalError("failed to save generated questions", err)
	}

	if s.cache != nil {
		cacheKey := cache.GenerateCacheKey("generation", "exclusions", topic)
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.logger.Warn("Failed to invalidate exclusion list cache", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return ids, nil
}

// resolveParams applies configured defaults to unset request parameters.
func (s *generationService) resolveParams(params domain.GenerationParams) domain.GenerationParams {
	if params.QuestionCount <= 0 {
		params.QuestionCount = s.cfg.Generation.QuestionCount
	}
	if params.QuestionCount <= 0 {
		params.QuestionCount = 1
	}
	if params.Language == "" {
		params.Language = s.cfg.Generation.Language
	}
	if params.Mode == "" {
		if domain.IsValidMode(s.cfg.Generation.Mode) {
			params.Mode = domain.ValidationMode(s.cfg.Generation.Mode)
		} else {
			params.Mode = domain.ModeLenient
		}
	}
	return params
}

// resolveOptions maps request parameters onto generator options, falling
// back to the configured provider defaults.
func (s *generationService) resolveOptions(params domain.GenerationParams) domain.GenerationOptions {
	gemini := s.cfg.LLMProviders.Gemini

	opts := domain.GenerationOptions{
		Model:           params.Model,
		MaxOutputTokens: params.MaxOutputTokens,
		MaxRetries:      params.MaxRetries,
		RetryDelay:      params.RetryDelay,
	}
	if opts.Model == "" {
		opts.Model = gemini.Model
	}
	if params.Temperature != nil {
		opts.Temperature = *params.Temperature
	} else {
		opts.Temperature = gemini.Temperature
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = gemini.MaxOutputTokens
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = gemini.MaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = gemini.RetryBaseDelay
	}
	return opts
}

var _ domain.QuestionGenerationService = (*generationService)(nil)
