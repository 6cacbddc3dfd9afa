package handlers

import (
	"net/http"

	"viducate/internal/domain"
)

// StatsSummary returns the user's activity counters for the dashboard.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	ctx := r.Context()

	completed, err := a.VideoRepo.CountByAuthorAndStatus(ctx, user.ID, domain.VideoStatusCompleted)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	processing, err := a.VideoRepo.CountByAuthorAndStatus(ctx, user.ID, domain.VideoStatusProcessing)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	failed, err := a.VideoRepo.CountByAuthorAndStatus(ctx, user.ID, domain.VideoStatusFailed)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	attempts, err := a.QuizRepo.CountAttemptsByUser(ctx, user.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	avgScore, err := a.QuizRepo.AverageScoreByUser(ctx, user.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"videos_completed":  completed,
		"videos_processing": processing,
		"videos_failed":     failed,
		"quiz_attempts":     attempts,
		"quiz_avg_score":    avgScore,
		"points":            user.Points,
		"level":             user.Level,
	})
}
