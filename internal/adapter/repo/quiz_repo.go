package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"viducate/internal/domain"
)

// QuizRepositoryPG implements domain.QuizRepository. Questions are stored
// as a JSONB document since they are always read and written whole.
type QuizRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new quiz repository backed by PostgreSQL.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepositoryPG {
	return &QuizRepositoryPG{pool: pool}
}

// Create inserts a quiz and returns its id.
func (r *QuizRepositoryPG) Create(ctx context.Context, quiz *domain.Quiz) (int64, error) {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return 0, fmt.Errorf("encode questions: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
INSERT INTO quizzes (author_id, video_id, title, difficulty, questions)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;
`, quiz.AuthorID, quiz.VideoID, quiz.Title, quiz.Difficulty, questions).Scan(&id)
	return id, err
}

// GetByID fetches a quiz with its questions.
func (r *QuizRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, author_id, video_id, title, difficulty, questions, created_at
FROM quizzes
WHERE id = $1;
`, id)

	var q domain.Quiz
	var questions []byte
	if err := row.Scan(&q.ID, &q.AuthorID, &q.VideoID, &q.Title, &q.Difficulty, &questions, &q.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return &q, nil
}

// SaveAttempt records a graded submission.
func (r *QuizRepositoryPG) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) (int64, error) {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
INSERT INTO quiz_attempts (quiz_id, user_id, answers, correct, total, points_awarded)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`, attempt.QuizID, attempt.UserID, answers, attempt.Correct, attempt.Total, attempt.PointsAwarded).Scan(&id)
	return id, err
}

// CountAttemptsByUser counts the user's graded submissions.
func (r *QuizRepositoryPG) CountAttemptsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// AverageScoreByUser returns the user's mean score percentage, 0 when the
// user has no attempts.
func (r *QuizRepositoryPG) AverageScoreByUser(ctx context.Context, userID string) (int, error) {
	var avg int
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(ROUND(AVG(correct * 100.0 / NULLIF(total, 0))), 0)
FROM quiz_attempts
WHERE user_id = $1;
`, userID).Scan(&avg)
	return avg, err
}
