package domain

import "time"

// Badge is a gamification award earned once per user.
type Badge struct {
	Code     string
	Name     string
	Emoji    string
	EarnedAt time.Time
}

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	UserID        string
	Name          string
	Picture       string
	Points        int
	Level         int
	Rank          int
	IsCurrentUser bool
}

// Contact is a stored contact-form submission.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
