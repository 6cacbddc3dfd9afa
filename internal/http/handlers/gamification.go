package handlers

import (
	"net/http"
	"time"
)

type badgeDTO struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Emoji    string    `json:"emoji"`
	EarnedAt time.Time `json:"earned_at"`
}

// GamificationProfile returns the user's points, level, and badges.
func (a *App) GamificationProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	profile, err := a.Gamification.ProfileFor(r.Context(), user.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	badges := make([]badgeDTO, 0, len(profile.Badges))
	for _, b := range profile.Badges {
		badges = append(badges, badgeDTO{Code: b.Code, Name: b.Name, Emoji: b.Emoji, EarnedAt: b.EarnedAt})
	}
	a.json(w, http.StatusOK, map[string]any{
		"points":            profile.Points,
		"level":             profile.Level,
		"next_level_points": profile.NextLevelPoints,
		"badges":            badges,
	})
}

// Leaderboard returns the top users by points with the caller flagged.
// Only the all-time timeframe is supported; others are rejected so clients
// don't mistake the response for a windowed ranking.
func (a *App) Leaderboard(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	if tf := r.URL.Query().Get("timeframe"); tf != "" && tf != "all" {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported timeframe")
		return
	}

	entries, err := a.Gamification.Leaderboard(r.Context(), user.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]any{
			"rank":            e.Rank,
			"name":            e.Name,
			"picture":         e.Picture,
			"points":          e.Points,
			"level":           e.Level,
			"is_current_user": e.IsCurrentUser,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"leaderboard": rows})
}
