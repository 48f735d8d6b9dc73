package question

//go:generate mockgen -destination=./repository_mock_test.go -package=question -source=repository.go Repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"bea-chatbot/internal/domain" // shared domain models
)

//go:embed schema.sql
var schemaSQL string

// Repository defines the contract for all database operations on FAQ questions.
type Repository interface {
	// CreateQuestion inserts a question and fills in its ID and CreatedAt.
	CreateQuestion(ctx context.Context, q *domain.Question) error
	// FindByText returns the oldest question whose text matches, ignoring case.
	FindByText(ctx context.Context, text string) (*domain.Question, error)
	// GetQuestionByID fetches a single question.
	GetQuestionByID(ctx context.Context, id int64) (*domain.Question, error)
	// ListQuestions returns every question, oldest first.
	ListQuestions(ctx context.Context) ([]*domain.Question, error)
	// UpdateQuestion replaces the texts of an existing question.
	UpdateQuestion(ctx context.Context, q *domain.Question) error
	// DeleteQuestion removes a question.
	DeleteQuestion(ctx context.Context, id int64) error
}

// postgresRepository is the concrete implementation of the repo using a Postgres database.
type postgresRepository struct {
	db *sql.DB // The database connection pool.
}

// NewPostgresRepository is the constructor for the repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{
		db: db,
	}
}

// EnsureSchema creates the questions table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("could not apply questions schema: %w", err)
	}
	return nil
}

// CreateQuestion inserts a new questions record.
func (pr *postgresRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	q.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO questions (questiontext, answertext, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := pr.db.QueryRowContext(ctx, query, q.QuestionText, q.AnswerText, q.CreatedAt).Scan(&q.ID); err != nil {
		return fmt.Errorf("could not insert question: %w", err)
	}
	return nil
}

// FindByText matches on LOWER(questiontext). ORDER BY id keeps the first
// stored answer when duplicates exist.
func (pr *postgresRepository) FindByText(ctx context.Context, text string) (*domain.Question, error) {
	query := `
		SELECT id, questiontext, answertext, created_at
		FROM questions
		WHERE LOWER(questiontext) = LOWER($1)
		ORDER BY id ASC
		LIMIT 1
	`
	var q domain.Question
	err := pr.db.QueryRowContext(ctx, query, text).Scan(&q.ID, &q.QuestionText, &q.AnswerText, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("could not find question by text: %w", err)
	}
	return &q, nil
}

// GetQuestionByID fetches a single question by its primary key.
func (pr *postgresRepository) GetQuestionByID(ctx context.Context, id int64) (*domain.Question, error) {
	query := `
		SELECT id, questiontext, answertext, created_at
		FROM questions
		WHERE id = $1
	`
	var q domain.Question
	err := pr.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.QuestionText, &q.AnswerText, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("could not get question: %w", err)
	}
	return &q, nil
}

// ListQuestions fetches all questions ordered by creation.
func (pr *postgresRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	query := `
		SELECT id, questiontext, answertext, created_at
		FROM questions
		ORDER BY id ASC
	`
	rows, err := pr.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query questions: %w", err)
	}
	defer rows.Close()

	questions := []*domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.AnswerText, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan question: %w", err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion rewrites questiontext and answertext.
func (pr *postgresRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	query := `
		UPDATE questions
		SET questiontext = $1, answertext = $2
		WHERE id = $3
		RETURNING created_at
	`
	err := pr.db.QueryRowContext(ctx, query, q.QuestionText, q.AnswerText, q.ID).Scan(&q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("could not update question: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question by id.
func (pr *postgresRepository) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := pr.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete question: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
