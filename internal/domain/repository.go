package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	UpsertBySubject(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	AddPoints(ctx context.Context, userID string, delta int) (*User, error)
	ListTopByPoints(ctx context.Context, limit int) ([]User, error)
}

// VideoUpdate carries the mutable fields of a reconciliation write. Nil
// fields are left untouched so a single-row update stays idempotent.
type VideoUpdate struct {
	Status   *VideoStatus
	TalkID   *string
	VideoURL *string
}

// VideoRepository defines persistence for video requests.
type VideoRepository interface {
	Create(ctx context.Context, video *VideoRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*VideoRequest, error)
	Update(ctx context.Context, id int64, update VideoUpdate) (*VideoRequest, error)
	ListByAuthor(ctx context.Context, authorID string) ([]VideoRequest, error)
	Delete(ctx context.Context, id int64) error
	CountByAuthorAndStatus(ctx context.Context, authorID string, status VideoStatus) (int, error)
}

// QuizRepository defines persistence for quizzes and attempts.
type QuizRepository interface {
	Create(ctx context.Context, quiz *Quiz) (int64, error)
	GetByID(ctx context.Context, id int64) (*Quiz, error)
	SaveAttempt(ctx context.Context, attempt *QuizAttempt) (int64, error)
	CountAttemptsByUser(ctx context.Context, userID string) (int, error)
	AverageScoreByUser(ctx context.Context, userID string) (int, error)
}

// BadgeRepository stores earned badges, one per (user, code).
type BadgeRepository interface {
	Award(ctx context.Context, userID string, badge Badge) error
	ListByUser(ctx context.Context, userID string) ([]Badge, error)
}

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) (int64, error)
}
