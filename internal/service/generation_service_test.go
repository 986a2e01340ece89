package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Manual Mocks ---

type MockTextGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error)
	LastPrompt   string
	LastOpts     domain.GenerationOptions
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	m.LastPrompt = prompt
	m.LastOpts = opts
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	panic("MockTextGenerator.GenerateFunc not implemented")
}

type MockQuestionRepository struct {
	SaveQuestionsFunc      func(ctx context.Context, records []domain.QuestionRecord) ([]string, error)
	GetQuestionTextsFunc   func(ctx context.Context, category string) ([]string, error)
	GetRecentQuestionsFunc func(ctx context.Context, category string, limit int) ([]domain.QuestionRecord, error)
}

func (m *MockQuestionRepository) SaveQuestions(ctx context.Context, records []domain.QuestionRecord) ([]string, error) {
	if m.SaveQuestionsFunc != nil {
		return m.SaveQuestionsFunc(ctx, records)
	}
	panic("MockQuestionRepository.SaveQuestionsFunc not implemented")
}
func (m *MockQuestionRepository) GetQuestionTexts(ctx context.Context, category string) ([]string, error) {
	if m.GetQuestionTextsFunc != nil {
		return m.GetQuestionTextsFunc(ctx, category)
	}
	panic("MockQuestionRepository.GetQuestionTextsFunc not implemented")
}
func (m *MockQuestionRepository) GetRecentQuestions(ctx context.Context, category string, limit int) ([]domain.QuestionRecord, error) {
	if m.GetRecentQuestionsFunc != nil {
		return m.GetRecentQuestionsFunc(ctx, category, limit)
	}
	panic("MockQuestionRepository.GetRecentQuestionsFunc not implemented")
}

type MockCache struct {
	store map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{store: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return "", domain.ErrCacheMiss
}
func (m *MockCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	m.store[key] = value
	return nil
}
func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.store, key)
	return nil
}
func (m *MockCache) Ping(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		LLMProviders: config.LLMProvidersConfig{
			Gemini: config.GeminiConfig{
				Model:           "gemini-2.0-flash",
				Temperature:     0.7,
				MaxOutputTokens: 8192,
				MaxRetries:      3,
				RetryBaseDelay:  time.Second,
			},
		},
		Generation: config.GenerationConfig{
			Provider:      "gemini",
			QuestionCount: 5,
			Mode:          "lenient",
			Language:      "English",
		},
		CacheTTLs: config.CacheTTLConfig{ExclusionList: "10m"},
	}
}

const fencedResponse = "Here are your questions:\n```json\n" +
	`[{"question":"Q1","options":["a","b","c","d"],"correctAnswer":1,"explanation":"e","difficulty":"EASY","category":"Cat"}]` +
	"\n```"

func TestGenerateQuestions_EndToEndFencedResponse(t *testing.T) {
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return fencedResponse, nil
		},
	}
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) {
			return []string{"What is an interface?"}, nil
		},
	}

	svc := service.NewGenerationService(gen, repo, NewMockCache(), testConfig(), zap.NewNop())

	result, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Empty(t, result.Warnings)

	q := result.Questions[0]
	assert.Equal(t, "Q1", q.Question)
	assert.Equal(t, "easy", q.Difficulty, "difficulty should normalize to lower case")
	assert.Equal(t, 1, q.CorrectAnswer)

	assert.Contains(t, gen.LastPrompt, "- What is an interface?",
		"exclusion list should be rendered into the prompt")
	assert.Equal(t, "gemini-2.0-flash", gen.LastOpts.Model)
	assert.Equal(t, 0.7, gen.LastOpts.Temperature)
}

func TestGenerateQuestions_ProseWrappedUnfencedResponse(t *testing.T) {
	raw := `Sure! Here are the questions: [ {"question":"Q1","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e","difficulty":"medium","category":"Cat"} ]`
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return raw, nil
		},
	}
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) { return nil, nil },
	}

	svc := service.NewGenerationService(gen, repo, nil, testConfig(), zap.NewNop())

	result, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Q1", result.Questions[0].Question)
}

func TestGenerateQuestions_GeneratorFailurePropagates(t *testing.T) {
	terminal := domain.NewGenerationFailedError("m", 100, 3, errors.New("boom"))
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return "", terminal
		},
	}
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) { return nil, nil },
	}

	svc := service.NewGenerationService(gen, repo, nil, testConfig(), zap.NewNop())

	_, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	assert.ErrorIs(t, err, terminal)
}

func TestGenerateQuestions_UnparsableOutputIsParseError(t *testing.T) {
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return "I could not produce questions today, sorry.", nil
		},
	}
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) { return nil, nil },
	}

	svc := service.NewGenerationService(gen, repo, nil, testConfig(), zap.NewNop())

	_, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeParse, domainErr.Code)
}

func TestGenerateQuestions_StrictModeFailsOnDefect(t *testing.T) {
	raw := "```json\n" +
		`[{"question":"Q1","options":["a","b","c"],"correctAnswer":0,"explanation":"e","difficulty":"easy","category":"C"}]` +
		"\n```"
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return raw, nil
		},
	}
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) { return nil, nil },
	}

	svc := service.NewGenerationService(gen, repo, nil, testConfig(), zap.NewNop())

	_, err := svc.GenerateQuestions(context.Background(),
		domain.GenerationParams{Topic: "Go", Mode: domain.ModeStrict})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeValidation, domainErr.Code)

	// The same defect repairs in lenient mode.
	result, err := svc.GenerateQuestions(context.Background(),
		domain.GenerationParams{Topic: "Go", Mode: domain.ModeLenient})
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Len(t, result.Questions[0].Options, 4)
	assert.NotEmpty(t, result.Warnings)
}

func TestGenerateQuestions_SavePersistsAndInvalidatesCache(t *testing.T) {
	var saved []domain.QuestionRecord
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) { return nil, nil },
		SaveQuestionsFunc: func(ctx context.Context, records []domain.QuestionRecord) ([]string, error) {
			saved = records
			return []string{"01HGZ8VNRYXS8QKNJV5GRWPWDQ"}, nil
		},
	}
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return fencedResponse, nil
		},
	}
	mockCache := NewMockCache()

	svc := service.NewGenerationService(gen, repo, mockCache, testConfig(), zap.NewNop())

	result, err := svc.GenerateQuestions(context.Background(),
		domain.GenerationParams{Topic: "Go", Save: true})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"01HGZ8VNRYXS8QKNJV5GRWPWDQ"}, result.SavedIDs)
	assert.Empty(t, mockCache.store, "exclusion cache entry should be invalidated after save")
}

func TestGenerateQuestions_ExclusionListServedFromCache(t *testing.T) {
	repoCalls := 0
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) {
			repoCalls++
			return []string{"cached question"}, nil
		},
	}
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return fencedResponse, nil
		},
	}
	mockCache := NewMockCache()

	svc := service.NewGenerationService(gen, repo, mockCache, testConfig(), zap.NewNop())

	_, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.NoError(t, err)
	_, err = svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.NoError(t, err)

	assert.Equal(t, 1, repoCalls, "second run should hit the cache")
	assert.Contains(t, gen.LastPrompt, "- cached question")
}

func TestGenerateQuestions_RepositoryFailureDegradesToEmptyExclusions(t *testing.T) {
	repo := &MockQuestionRepository{
		GetQuestionTextsFunc: func(ctx context.Context, category string) ([]string, error) {
			return nil, errors.New("db down")
		},
	}
	gen := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
			return fencedResponse, nil
		},
	}

	svc := service.NewGenerationService(gen, repo, nil, testConfig(), zap.NewNop())

	result, err := svc.GenerateQuestions(context.Background(), domain.GenerationParams{Topic: "Go"})
	require.NoError(t, err, "exclusion list is advisory; its failure must not abort the run")
	assert.Len(t, result.Questions, 1)
	assert.Contains(t, gen.LastPrompt, "None.")
}

func TestRecentQuestions_DelegatesToRepository(t *testing.T) {
	want := []domain.QuestionRecord{{Question: "Q1"}}
	repo := &MockQuestionRepository{
		GetRecentQuestionsFunc: func(ctx context.Context, category string, limit int) ([]domain.QuestionRecord, error) {
			assert.Equal(t, "Go", category)
			assert.Equal(t, 7, limit)
			return want, nil
		},
	}

	svc := service.NewGenerationService(&MockTextGenerator{}, repo, nil, testConfig(), zap.NewNop())

	got, err := svc.RecentQuestions(context.Background(), "Go", 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
