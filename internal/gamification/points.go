// Package gamification awards points and badges for learning activity and
// assembles the profile and leaderboard views.
package gamification

import (
	"context"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
)

// Point awards per activity.
const (
	PointsVideoCompleted   = 50
	PointsQuizSubmitted    = 20
	PointsPerCorrectAnswer = 2
)

// LeaderboardSize caps the ranked rows returned to clients.
const LeaderboardSize = 20

var (
	badgeFirstVideo     = domain.Badge{Code: "first_video", Name: "First Video", Emoji: "🎬"}
	badgeContentCreator = domain.Badge{Code: "content_creator", Name: "Content Creator", Emoji: "🏆"}
	badgeQuizMaster     = domain.Badge{Code: "quiz_master", Name: "Quiz Master", Emoji: "🧠"}
	badgePerfectScore   = domain.Badge{Code: "perfect_score", Name: "Perfect Score", Emoji: "💯"}
)

// Service applies the award rules. Award failures are logged, never
// propagated: losing a badge must not fail the activity that earned it.
type Service struct {
	users   domain.UserRepository
	videos  domain.VideoRepository
	quizzes domain.QuizRepository
	badges  domain.BadgeRepository
	logger  zerolog.Logger
}

func NewService(users domain.UserRepository, videos domain.VideoRepository, quizzes domain.QuizRepository, badges domain.BadgeRepository, logger zerolog.Logger) *Service {
	return &Service{users: users, videos: videos, quizzes: quizzes, badges: badges, logger: logger}
}

// OnVideoCompleted awards completion points and any video-count badges.
func (s *Service) OnVideoCompleted(ctx context.Context, userID string, videoID int64) {
	if _, err := s.users.AddPoints(ctx, userID, PointsVideoCompleted); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("award video completion points")
		return
	}

	completed, err := s.videos.CountByAuthorAndStatus(ctx, userID, domain.VideoStatusCompleted)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("count completed videos")
		return
	}
	if completed >= 1 {
		s.award(ctx, userID, badgeFirstVideo)
	}
	if completed >= 5 {
		s.award(ctx, userID, badgeContentCreator)
	}
}

// OnQuizSubmitted awards submission and per-answer points and returns the
// total awarded so the attempt can record it.
func (s *Service) OnQuizSubmitted(ctx context.Context, userID string, attempt domain.QuizAttempt) int {
	points := PointsQuizSubmitted + attempt.Correct*PointsPerCorrectAnswer
	if _, err := s.users.AddPoints(ctx, userID, points); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("award quiz points")
		return 0
	}

	score := attempt.ScorePercent()
	if score >= 80 {
		s.award(ctx, userID, badgeQuizMaster)
	}
	if score == 100 {
		s.award(ctx, userID, badgePerfectScore)
	}
	return points
}

func (s *Service) award(ctx context.Context, userID string, badge domain.Badge) {
	if err := s.badges.Award(ctx, userID, badge); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("badge", badge.Code).Msg("award badge")
	}
}

// Profile is the gamification view of one user.
type Profile struct {
	Points          int
	Level           int
	NextLevelPoints int
	Badges          []domain.Badge
}

// ProfileFor assembles the user's points, level, and earned badges.
func (s *Service) ProfileFor(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// levels derive from the live balance rather than the stored column
	level := domain.LevelForPoints(user.Points)
	return &Profile{
		Points:          user.Points,
		Level:           level,
		NextLevelPoints: level * 100,
		Badges:          badges,
	}, nil
}

// Leaderboard returns the top users by points, ranked from 1, with the
// requesting user flagged.
func (s *Service) Leaderboard(ctx context.Context, currentUserID string) ([]domain.LeaderboardEntry, error) {
	users, err := s.users.ListTopByPoints(ctx, LeaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:        u.ID,
			Name:          u.Name,
			Picture:       u.Picture,
			Points:        u.Points,
			Level:         domain.LevelForPoints(u.Points),
			Rank:          i + 1,
			IsCurrentUser: u.ID == currentUserID,
		})
	}
	return entries, nil
}
