package domain

import "time"

// QuizDifficulty enumerates supported quiz difficulty levels.
type QuizDifficulty string

const (
	QuizDifficultyEasy   QuizDifficulty = "easy"
	QuizDifficultyMedium QuizDifficulty = "medium"
	QuizDifficultyHard   QuizDifficulty = "hard"
)

// Question is one multiple-choice question. CorrectOption indexes into
// Options and is never exposed to the client before submission.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOptionIndex"`
}

// Quiz is a generated set of questions tied to lesson content, optionally
// derived from a specific video request.
type Quiz struct {
	ID         int64
	AuthorID   string
	VideoID    *int64
	Title      string
	Difficulty QuizDifficulty
	Questions  []Question
	CreatedAt  time.Time
}

// QuizAttempt records one graded submission.
type QuizAttempt struct {
	ID            int64
	QuizID        int64
	UserID        string
	Answers       []int
	Correct       int
	Total         int
	PointsAwarded int
	CreatedAt     time.Time
}

// ScorePercent returns the attempt score as a 0-100 percentage.
func (a QuizAttempt) ScorePercent() int {
	if a.Total == 0 {
		return 0
	}
	return a.Correct * 100 / a.Total
}
