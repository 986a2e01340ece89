package handler

import (
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles question generation HTTP requests
type QuestionHandler struct {
	service   domain.QuestionGenerationService
	validator *validation.Validator
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service domain.QuestionGenerationService) *QuestionHandler {
	return &QuestionHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuestions godoc
// @Summary Generate quiz questions
// @Description Generates multiple-choice questions on a topic via the configured text model
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions/generate [post]
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if errs := h.validator.ValidateGenerateRequest(&req); len(errs) > 0 {
		return errs
	}

	params := toGenerationParams(&req)
	result, err := h.service.GenerateQuestions(c.UserContext(), params)
	if err != nil {
		logger.Get().Error("Question generation failed",
			zap.Error(err),
			zap.String("topic", req.Topic),
		)
		return err
	}

	logger.Get().Info("Questions generated",
		zap.String("topic", req.Topic),
		zap.Int("count", len(result.Questions)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return c.JSON(dto.FromGenerationResult(result))
}

// ListQuestions godoc
// @Summary List stored questions
// @Description Returns the most recently persisted questions for a category
// @Tags questions
// @Accept json
// @Produce json
// @Param category query string true "Question category"
// @Param limit query int false "Maximum number of records" default(10)
// @Success 200 {object} dto.QuestionListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	category := c.Query("category")
	limit := c.QueryInt("limit", 10)

	if errs := h.validator.ValidateListRequest(category, limit); len(errs) > 0 {
		return errs
	}

	records, err := h.service.RecentQuestions(c.UserContext(), category, limit)
	if err != nil {
		logger.Get().Error("Failed to list questions",
			zap.Error(err),
			zap.String("category", category),
		)
		return err
	}

	resp := dto.QuestionListResponse{
		Questions: make([]dto.QuestionResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Questions = append(resp.Questions, dto.FromQuestionRecord(rec))
	}

	return c.JSON(resp)
}

func toGenerationParams(req *dto.GenerateQuestionsRequest) domain.GenerationParams {
	return domain.GenerationParams{
		Topic:               req.Topic,
		Language:            req.Language,
		Position:            req.Position,
		DifficultyText:      req.Difficulty,
		PositionInstruction: req.PositionInstruction,
		QuestionCount:       req.Count,
		Mode:                domain.ValidationMode(req.Mode),
		Save:                req.Save,
		Model:               req.Model,
		Temperature:         req.Temperature,
		MaxOutputTokens:     req.MaxOutputTokens,
		MaxRetries:          req.MaxRetries,
		RetryDelay:          time.Duration(req.RetryDelayMs) * time.Millisecond,
	}
}
