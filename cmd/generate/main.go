package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"quiz-forge/internal/adapter"
	"quiz-forge/internal/adapter/textgen"
	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/database"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/repository"
	"quiz-forge/internal/service"

	"go.uber.org/zap"
)

// Batch question generation. Runs the full pipeline for each requested topic
// and persists the validated records.
func main() {
	topicsFlag := flag.String("topics", "", "comma-separated topics (defaults to generation.topics from config)")
	countFlag := flag.Int("count", 0, "questions per topic (defaults to generation.question_count)")
	modeFlag := flag.String("mode", "", "validation mode: lenient or strict (defaults to generation.mode)")
	dryRun := flag.Bool("dry-run", false, "generate and validate without persisting")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not up yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()

	logger.Get().Info("Batch generation starting up...")

	topics := cfg.Generation.Topics
	if *topicsFlag != "" {
		topics = nil
		for _, t := range strings.Split(*topicsFlag, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}
	if len(topics) == 0 {
		logger.Get().Fatal("No topics to generate: pass -topics or set generation.topics in config")
	}

	var generator domain.TextGenerator
	switch cfg.Generation.Provider {
	case "ollama":
		generator, err = textgen.NewOllamaGenerator(cfg.LLMProviders.Ollama, logger.Get())
	default:
		generator, err = textgen.NewGeminiGenerator(cfg.LLMProviders.Gemini, logger.Get())
	}
	if err != nil {
		logger.Get().Fatal("Failed to initialize text generator", zap.Error(err))
	}

	db, err := database.NewOracleDB(cfg.DB)
	if err != nil {
		logger.Get().Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	questionRepo := repository.NewQuestionRepository(db)

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Get().Fatal("Failed to initialize Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		logger.Get().Warn("Redis cache is not configured. Running without cache.")
	}

	generationService := service.NewGenerationService(generator, questionRepo, cacheAdapter, cfg, logger.Get())

	ctx := context.Background()
	failures := 0
	for _, topic := range topics {
		params := domain.GenerationParams{
			Topic:         topic,
			QuestionCount: *countFlag,
			Mode:          domain.ValidationMode(*modeFlag),
			Save:          !*dryRun,
		}

		result, err := generationService.GenerateQuestions(ctx, params)
		if err != nil {
			logger.Get().Error("Generation failed for topic",
				zap.String("topic", topic),
				zap.Error(err))
			failures++
			continue
		}

		logger.Get().Info("Generated questions for topic",
			zap.String("topic", topic),
			zap.Int("questions", len(result.Questions)),
			zap.Int("warnings", len(result.Warnings)),
			zap.Int("saved", len(result.SavedIDs)))
	}

	if failures > 0 {
		logger.Get().Fatal("Batch generation finished with failures",
			zap.Int("failed_topics", failures),
			zap.Int("total_topics", len(topics)))
	}
	logger.Get().Info("Batch generation completed successfully",
		zap.Int("topics", len(topics)))
}
