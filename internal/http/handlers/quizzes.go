package handlers

import (
	"net/http"
	"time"

	"viducate/internal/domain"
	"viducate/internal/quiz"
)

type generateQuizRequest struct {
	VideoID    *int64 `json:"video_id"`
	Content    string `json:"content" validate:"omitempty,max=20000"`
	Title      string `json:"title" validate:"omitempty,max=200"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type submitQuizRequest struct {
	QuizID  int64 `json:"quiz_id" validate:"required,gt=0"`
	Answers []int `json:"answers" validate:"required"`
}

type quizDTO struct {
	ID         int64             `json:"id"`
	VideoID    *int64            `json:"video_id,omitempty"`
	Title      string            `json:"title"`
	Difficulty string            `json:"difficulty"`
	Questions  []quizQuestionDTO `json:"questions"`
	CreatedAt  time.Time         `json:"created_at"`
}

type quizQuestionDTO struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func toQuizDTO(q *domain.Quiz) quizDTO {
	questions := make([]quizQuestionDTO, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, quizQuestionDTO{Question: question.Text, Options: question.Options})
	}
	return quizDTO{
		ID:         q.ID,
		VideoID:    q.VideoID,
		Title:      q.Title,
		Difficulty: string(q.Difficulty),
		Questions:  questions,
		CreatedAt:  q.CreatedAt,
	}
}

// QuizGenerate builds a quiz from a video the user owns or from raw
// content. The answer key never leaves the server.
func (a *App) QuizGenerate(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	var req generateQuizRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	created, err := a.Quizzes.Generate(r.Context(), quiz.GenerateInput{
		UserID:     user.ID,
		VideoID:    req.VideoID,
		Content:    req.Content,
		Title:      req.Title,
		Difficulty: domain.QuizDifficulty(req.Difficulty),
	})
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toQuizDTO(created))
}

// QuizGet returns a quiz with the correct answers stripped.
func (a *App) QuizGet(w http.ResponseWriter, r *http.Request) {
	if _, err := a.currentUser(r); err != nil {
		a.serviceError(w, err)
		return
	}
	quizID, err := pathID(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid quiz id")
		return
	}

	q, err := a.Quizzes.Get(r.Context(), quizID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, toQuizDTO(q))
}

// QuizSubmit grades the submitted answers and awards points.
func (a *App) QuizSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	var req submitQuizRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "quiz_id and answers are required")
		return
	}

	res, err := a.Quizzes.Submit(r.Context(), user.ID, req.QuizID, req.Answers)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"quiz_id":        req.QuizID,
		"correct":        res.Attempt.Correct,
		"total":          res.Attempt.Total,
		"score_percent":  res.ScorePercent,
		"points_awarded": res.Attempt.PointsAwarded,
	})
}
