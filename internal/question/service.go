package question

//go:generate mockgen -destination=./service_mock_test.go -package=question -source=service.go Service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"bea-chatbot/internal/domain"
)

var (
	// ErrQuestionNotFound is returned when no question has the given id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion is returned for blank or oversized texts.
	ErrInvalidQuestion = errors.New("invalid question")
)

// UnavailableAnswer is stored for questions nobody could answer yet, so
// administrators can find and complete them.
const UnavailableAnswer = "Réponse non disponible"

// Service defines the business logic for the QuestionService.
type Service interface {
	// Ask answers a visitor question, storing it when it is new.
	Ask(ctx context.Context, text string) (*domain.Question, error)

	// Lists every stored question.
	ListQuestions(ctx context.Context) ([]*domain.Question, error)

	// Fetches one question.
	GetQuestion(ctx context.Context, id int64) (*domain.Question, error)

	// Stores a curated question with its answer.
	CreateQuestion(ctx context.Context, questionText, answerText string) (*domain.Question, error)

	// Rewrites a stored question.
	UpdateQuestion(ctx context.Context, id int64, questionText, answerText string) (*domain.Question, error)

	// Removes a stored question.
	DeleteQuestion(ctx context.Context, id int64) error
}

// ServiceOptions tunes the answer lookup.
type ServiceOptions struct {
	// MinConfidence is the classifier confidence below which its answer is ignored.
	MinConfidence float64
	Logger        *slog.Logger
}

// service is the concrete implementation of the Service interface.
type service struct {
	repo   Repository
	cache  AnswerCache
	nlp    NLPClient
	opts   ServiceOptions
	logger *slog.Logger
}

// NewService is the constructor for the QuestionService.
func NewService(repo Repository, cache AnswerCache, nlp NLPClient, opts ServiceOptions) Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	if nlp == nil {
		nlp = NewStubNLPClient()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &service{
		repo:   repo,
		cache:  cache,
		nlp:    nlp,
		opts:   opts,
		logger: opts.Logger,
	}
}

// Ask implements the Service interface.
// Lookup order: cache, stored questions, classifier, then the unavailable answer.
func (s *service) Ask(ctx context.Context, text string) (*domain.Question, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}

	// Cache failures are not fatal, the database is the source of truth.
	if cached, err := s.cache.Get(ctx, text); err != nil {
		s.logger.Warn("answer cache lookup failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	existing, err := s.repo.FindByText(ctx, text)
	switch {
	case err == nil:
		s.remember(ctx, existing)
		return existing, nil
	case !errors.Is(err, ErrQuestionNotFound):
		return nil, fmt.Errorf("could not look up question: %w", err)
	}

	q := &domain.Question{QuestionText: text, AnswerText: s.predict(ctx, text)}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("could not store new question: %w", err)
	}
	s.remember(ctx, q)
	return q, nil
}

// predict asks the classifier and falls back to UnavailableAnswer.
func (s *service) predict(ctx context.Context, text string) string {
	prediction, err := s.nlp.Predict(ctx, text)
	if err != nil {
		s.logger.Warn("nlp prediction failed", "error", err)
		return UnavailableAnswer
	}
	if !prediction.Success || strings.TrimSpace(prediction.Answer) == "" {
		return UnavailableAnswer
	}
	if prediction.Confidence < s.opts.MinConfidence {
		s.logger.Info("nlp answer below confidence threshold",
			"category", prediction.Category, "confidence", prediction.Confidence)
		return UnavailableAnswer
	}
	return truncate(strings.TrimSpace(prediction.Answer), domain.MaxTextLength)
}

func (s *service) remember(ctx context.Context, q *domain.Question) {
	if err := s.cache.Set(ctx, q); err != nil {
		s.logger.Warn("could not cache answer", "id", q.ID, "error", err)
	}
}

func (s *service) forget(ctx context.Context, text string) {
	if err := s.cache.Invalidate(ctx, text); err != nil {
		s.logger.Warn("could not invalidate cached answer", "error", err)
	}
}

// ListQuestions implements the Service interface.
func (s *service) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	return s.repo.ListQuestions(ctx)
}

// GetQuestion implements the Service interface.
func (s *service) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	return s.repo.GetQuestionByID(ctx, id)
}

// CreateQuestion implements the Service interface.
func (s *service) CreateQuestion(ctx context.Context, questionText, answerText string) (*domain.Question, error) {
	q, err := newQuestion(questionText, answerText)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("could not create question: %w", err)
	}
	// A visitor may have asked it before; drop any stale unavailable answer.
	s.forget(ctx, q.QuestionText)
	return q, nil
}

// UpdateQuestion implements the Service interface.
func (s *service) UpdateQuestion(ctx context.Context, id int64, questionText, answerText string) (*domain.Question, error) {
	q, err := newQuestion(questionText, answerText)
	if err != nil {
		return nil, err
	}

	old, err := s.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	q.ID = id
	if err := s.repo.UpdateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("could not update question %d: %w", id, err)
	}
	s.forget(ctx, old.QuestionText)
	s.forget(ctx, q.QuestionText)
	return q, nil
}

// DeleteQuestion implements the Service interface.
func (s *service) DeleteQuestion(ctx context.Context, id int64) error {
	old, err := s.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("could not delete question %d: %w", id, err)
	}
	s.forget(ctx, old.QuestionText)
	return nil
}

func newQuestion(questionText, answerText string) (*domain.Question, error) {
	qt, err := cleanText(questionText)
	if err != nil {
		return nil, err
	}
	at, err := cleanText(answerText)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	return &domain.Question{QuestionText: qt, AnswerText: at}, nil
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is empty", ErrInvalidQuestion)
	}
	if utf8.RuneCountInString(text) > domain.MaxTextLength {
		return "", fmt.Errorf("%w: text longer than %d characters", ErrInvalidQuestion, domain.MaxTextLength)
	}
	return text, nil
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}
