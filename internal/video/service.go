// Package video implements the video-generation core: the initiator that
// submits lesson content to the rendering vendor and the reconciler that
// folds the vendor's job state back into the persisted record.
package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
	"viducate/internal/providers/did"
)

// Rewards receives completion events so the gamification layer can award
// points without the video core depending on it.
type Rewards interface {
	OnVideoCompleted(ctx context.Context, userID string, videoID int64)
}

// Service owns the VideoRequest lifecycle. The persisted row is mutated
// only here; handlers and the poller read through it.
type Service struct {
	videos  domain.VideoRepository
	talks   did.TalksClient
	rewards Rewards
	logger  zerolog.Logger
}

func NewService(videos domain.VideoRepository, talks did.TalksClient, rewards Rewards, logger zerolog.Logger) *Service {
	return &Service{videos: videos, talks: talks, rewards: rewards, logger: logger}
}

// GenerateInput is the validated payload for a new video request.
type GenerateInput struct {
	AuthorID string
	Title    string
	Content  string
	Language string
	AvatarID string
}

// GenerateResult is returned to the caller so it can start polling.
type GenerateResult struct {
	VideoID int64
	TalkID  string
	Status  domain.VideoStatus
}

// Generate creates a pending VideoRequest and submits the render job. The
// row is inserted before the external call so a record exists even when
// submission fails; in that case the row is marked failed, no talk id is
// ever stored, and the user must submit again to retry.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if in.AuthorID == "" {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Video " + time.Now().UTC().Format("2006-01-02")
	}
	lang := in.Language
	if lang == "" {
		lang = "en"
	}
	avatar := in.AvatarID
	if avatar == "" {
		avatar = "default"
	}

	record := &domain.VideoRequest{
		AuthorID: in.AuthorID,
		Title:    title,
		Content:  in.Content,
		Language: lang,
		AvatarID: avatar,
		Status:   domain.VideoStatusPending,
	}
	videoID, err := s.videos.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create video request: %w", err)
	}

	talk, err := s.talks.CreateTalk(ctx, did.TalkRequest{
		Script: did.TalkScript{
			Type:  "text",
			Input: in.Content,
			Provider: did.ScriptProvider{
				Type:    "microsoft",
				VoiceID: VoiceForLanguage(lang),
			},
		},
		Config:      did.TalkConfig{Stitch: true},
		PresenterID: PresenterForAvatar(avatar),
	})
	if err != nil {
		s.markFailed(ctx, videoID)
		s.logger.Error().Err(err).Int64("video_id", videoID).Msg("talk submission failed")
		switch {
		case errors.Is(err, did.ErrTimeout):
			return nil, fmt.Errorf("%w: %v", domain.ErrProviderTimeout, err)
		case errors.Is(err, did.ErrRateLimited):
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
		}
	}

	if _, err := s.videos.Update(ctx, videoID, domain.VideoUpdate{TalkID: &talk.ID}); err != nil {
		return nil, fmt.Errorf("store talk id: %w", err)
	}

	s.logger.Info().
		Int64("video_id", videoID).
		Str("talk_id", talk.ID).
		Str("language", lang).
		Msg("video generation started")

	return &GenerateResult{VideoID: videoID, TalkID: talk.ID, Status: domain.VideoStatusPending}, nil
}

func (s *Service) markFailed(ctx context.Context, videoID int64) {
	failed := domain.VideoStatusFailed
	if _, err := s.videos.Update(ctx, videoID, domain.VideoUpdate{Status: &failed}); err != nil {
		s.logger.Error().Err(err).Int64("video_id", videoID).Msg("mark failed after submission error")
	}
}

// StatusResult is the reconciled view returned to status callers.
type StatusResult struct {
	VideoID    int64
	Status     domain.VideoStatus
	VideoURL   string
	TalkStatus string // raw external status; empty on the short-circuit path
}

// Reconcile queries the vendor for the talk's state and persists the mapped
// status. An already-completed record short-circuits without an external
// call; a transient query failure is reported but never marks the record
// failed, since the render may still be progressing on the vendor's side.
func (s *Service) Reconcile(ctx context.Context, userID string, videoID int64, talkID string) (*StatusResult, error) {
	record, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !record.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}

	if record.Status == domain.VideoStatusCompleted && record.VideoURL != "" {
		return &StatusResult{
			VideoID:  videoID,
			Status:   domain.VideoStatusCompleted,
			VideoURL: record.VideoURL,
		}, nil
	}

	if record.TalkID != "" {
		talkID = record.TalkID
	}
	if talkID == "" {
		return nil, fmt.Errorf("%w: talk_id is required", domain.ErrInvalidInput)
	}

	talk, err := s.talks.GetTalk(ctx, talkID)
	if err != nil {
		if errors.Is(err, did.ErrRateLimited) {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	mapped, recognized := domain.MapTalkStatus(talk.Status, record.Status)
	if recognized && mapped == domain.VideoStatusCompleted && talk.ResultURL == "" {
		// completed rows must carry a media URL; hold the prior status
		// until the vendor reports one
		s.logger.Warn().
			Int64("video_id", videoID).
			Str("talk_id", talkID).
			Msg("external done without result url, keeping prior")
		mapped = record.Status
		recognized = false
	}
	if recognized && mapped != record.Status {
		update := domain.VideoUpdate{Status: &mapped}
		if mapped == domain.VideoStatusCompleted {
			update.VideoURL = &talk.ResultURL
		}
		if _, err := s.videos.Update(ctx, videoID, update); err != nil {
			return nil, fmt.Errorf("persist reconciled status: %w", err)
		}
		if mapped == domain.VideoStatusCompleted && s.rewards != nil {
			s.rewards.OnVideoCompleted(ctx, userID, videoID)
		}
	} else if !recognized {
		s.logger.Debug().
			Int64("video_id", videoID).
			Str("talk_status", talk.Status).
			Msg("unrecognized talk status, keeping prior")
	}

	result := &StatusResult{VideoID: videoID, Status: mapped, TalkStatus: talk.Status}
	if mapped == domain.VideoStatusCompleted {
		result.VideoURL = talk.ResultURL
	}
	return result, nil
}

// Get returns a video owned by the user.
func (s *Service) Get(ctx context.Context, userID string, videoID int64) (*domain.VideoRequest, error) {
	record, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !record.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

// List returns the user's videos, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.VideoRequest, error) {
	return s.videos.ListByAuthor(ctx, userID)
}

// Delete removes a video owned by the user. Deletion is plain CRUD; it does
// not touch the vendor-side job.
func (s *Service) Delete(ctx context.Context, userID string, videoID int64) error {
	record, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !record.OwnedBy(userID) {
		return domain.ErrForbidden
	}
	return s.videos.Delete(ctx, videoID)
}
