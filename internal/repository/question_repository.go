package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/repository/models"
	"quiz-forge/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionDatabaseAdapter
func NewQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// SaveQuestions inserts all records inside a single transaction and returns
// the assigned ids. A failing insert rolls the whole batch back.
func (a *QuestionDatabaseAdapter) SaveQuestions(ctx context.Context, records []domain.QuestionRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `INSERT INTO questions (
		id, question, options, correct_answer,
		explanation, difficulty, category, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	now := time.Now()
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id := util.NewULID()
		_, err := tx.ExecContext(ctx, query,
			id,
			rec.Question,
			models.StringSlice(rec.Options),
			rec.CorrectAnswer,
			util.StringToNullString(rec.Explanation),
			rec.Difficulty,
			rec.Category,
			now,
			now,
		)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to save question %q: %w", rec.Question, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit question batch: %w", err)
	}
	return ids, nil
}

// GetQuestionTexts returns the texts of all live questions in a category.
// This feeds the exclusion list of subsequent generation runs.
func (a *QuestionDatabaseAdapter) GetQuestionTexts(ctx context.Context, category string) ([]string, error) {
	query := `SELECT
		question "question"
	FROM questions
	WHERE category = :1
	AND deleted_at IS NULL
	ORDER BY created_at DESC`

	var texts []string
	if err := a.db.SelectContext(ctx, &texts, query, category); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question texts for category %s: %w", category, err)
	}
	return texts, nil
}

// GetRecentQuestions returns the most recently created records in a category.
func (a *QuestionDatabaseAdapter) GetRecentQuestions(ctx context.Context, category string, limit int) ([]domain.QuestionRecord, error) {
	query := `SELECT
		id "id",
		question "question",
		options "options",
		correct_answer "correct_answer",
		explanation "explanation",
		difficulty "difficulty",
		category "category",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM questions
	WHERE category = :1
	AND deleted_at IS NULL
	ORDER BY created_at DESC
	FETCH FIRST :2 ROWS ONLY`

	var modelQuestions []models.Question
	if err := a.db.SelectContext(ctx, &modelQuestions, query, category, limit); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recent questions for category %s: %w", category, err)
	}

	records := make([]domain.QuestionRecord, 0, len(modelQuestions))
	for _, m := range modelQuestions {
		records = append(records, toDomainQuestion(&m))
	}
	return records, nil
}

func toDomainQuestion(m *models.Question) domain.QuestionRecord {
	return domain.QuestionRecord{
		Question:      m.Question,
		Options:       []string(m.Options),
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation.String,
		Difficulty:    m.Difficulty,
		Category:      m.Category,
	}
}

var _ domain.QuestionRepository = (*QuestionDatabaseAdapter)(nil)
