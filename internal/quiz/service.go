// Package quiz ties generation, grading, and point awards together.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
	quizgen "viducate/internal/providers/quiz"
)

// Service generates quizzes from lesson content and grades submissions.
type Service struct {
	quizzes   domain.QuizRepository
	videos    domain.VideoRepository
	generator quizgen.Generator
	fallback  quizgen.Generator
	rewards   Rewards
	logger    zerolog.Logger
}

// Rewards is the gamification hook for graded submissions.
type Rewards interface {
	OnQuizSubmitted(ctx context.Context, userID string, attempt domain.QuizAttempt) int
}

// NewService creates a quiz service. generator may be nil when no model is
// configured; the fallback is always used then.
func NewService(quizzes domain.QuizRepository, videos domain.VideoRepository, generator quizgen.Generator, rewards Rewards, logger zerolog.Logger) *Service {
	return &Service{
		quizzes:   quizzes,
		videos:    videos,
		generator: generator,
		fallback:  quizgen.Fallback{},
		rewards:   rewards,
		logger:    logger,
	}
}

// GenerateInput selects the quiz source: either a video the user owns or
// raw lesson content.
type GenerateInput struct {
	UserID     string
	VideoID    *int64
	Content    string
	Title      string
	Difficulty domain.QuizDifficulty
}

// Generate builds questions from the selected content and stores the quiz.
// A model failure degrades to the deterministic fallback instead of
// failing the request.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*domain.Quiz, error) {
	content := strings.TrimSpace(in.Content)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Custom Quiz"
	}

	if in.VideoID != nil && content == "" {
		video, err := s.videos.GetByID(ctx, *in.VideoID)
		if err != nil {
			return nil, err
		}
		if !video.OwnedBy(in.UserID) {
			return nil, domain.ErrForbidden
		}
		content = video.Content
		title = "Quiz on " + video.Title
	}
	if content == "" {
		return nil, fmt.Errorf("%w: either video_id or content is required", domain.ErrInvalidInput)
	}

	difficulty := in.Difficulty
	switch difficulty {
	case domain.QuizDifficultyEasy, domain.QuizDifficultyMedium, domain.QuizDifficultyHard:
	case "":
		difficulty = domain.QuizDifficultyMedium
	default:
		return nil, fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, difficulty)
	}

	questions := s.generate(ctx, content, difficulty)

	quiz := &domain.Quiz{
		AuthorID:   in.UserID,
		VideoID:    in.VideoID,
		Title:      title,
		Difficulty: difficulty,
		Questions:  questions,
	}
	id, err := s.quizzes.Create(ctx, quiz)
	if err != nil {
		return nil, fmt.Errorf("store quiz: %w", err)
	}
	quiz.ID = id
	return quiz, nil
}

func (s *Service) generate(ctx context.Context, content string, difficulty domain.QuizDifficulty) []domain.Question {
	if s.generator != nil {
		questions, err := s.generator.Generate(ctx, content, difficulty)
		if err == nil {
			return questions
		}
		s.logger.Warn().Err(err).Msg("model quiz generation failed, using fallback")
	}
	questions, _ := s.fallback.Generate(ctx, content, difficulty)
	return questions
}

// Get returns a quiz with the correct answers stripped, so a client cannot
// read the key before submitting.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stripped := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.CorrectOption = -1
		stripped[i] = q
	}
	quiz.Questions = stripped
	return quiz, nil
}

// SubmitResult is a graded submission.
type SubmitResult struct {
	Attempt      domain.QuizAttempt
	ScorePercent int
}

// Submit grades the answers against the stored key, records the attempt,
// and awards points. Answers are positional; a missing or out-of-range
// answer is simply wrong.
func (s *Service) Submit(ctx context.Context, userID string, quizID int64, answers []int) (*SubmitResult, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(answers) > len(quiz.Questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", domain.ErrInvalidInput, len(answers), len(quiz.Questions))
	}

	correct := 0
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] == q.CorrectOption {
			correct++
		}
	}

	attempt := domain.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: answers,
		Correct: correct,
		Total:   len(quiz.Questions),
	}
	if s.rewards != nil {
		attempt.PointsAwarded = s.rewards.OnQuizSubmitted(ctx, userID, attempt)
	}

	id, err := s.quizzes.SaveAttempt(ctx, &attempt)
	if err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}
	attempt.ID = id

	return &SubmitResult{Attempt: attempt, ScorePercent: attempt.ScorePercent()}, nil
}
