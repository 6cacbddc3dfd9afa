package domain

import "time"

// VideoStatus enumerates the lifecycle states of a video request.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// Terminal reports whether no further transition can occur.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// External statuses reported by the D-ID talks API. Anything outside this
// vocabulary carries no information and must not change the stored status.
const (
	TalkStatusCreated = "created"
	TalkStatusStarted = "started"
	TalkStatusDone    = "done"
	TalkStatusError   = "error"
)

// MapTalkStatus folds an external talk status into the internal vocabulary.
// The returned bool is false when the external value is unrecognized, in
// which case the prior status is returned unchanged so a stale or unknown
// report never regresses a more advanced record.
func MapTalkStatus(external string, prior VideoStatus) (VideoStatus, bool) {
	switch external {
	case TalkStatusDone:
		return VideoStatusCompleted, true
	case TalkStatusStarted, TalkStatusCreated:
		return VideoStatusProcessing, true
	case TalkStatusError:
		return VideoStatusFailed, true
	default:
		return prior, false
	}
}

// VideoRequest tracks one video-generation attempt from submission through
// the external rendering pipeline to a terminal state. The talk id is
// assigned exactly once, when the external service accepts the job; a failed
// submission leaves it empty forever and the user must submit a new request.
type VideoRequest struct {
	ID        int64
	AuthorID  string
	Title     string
	Content   string
	Language  string
	AvatarID  string
	TalkID    string
	Status    VideoStatus
	VideoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the request belongs to the given user.
func (v VideoRequest) OwnedBy(userID string) bool {
	return v.AuthorID == userID
}
