package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"viducate/internal/domain"
)

// VideoRepositoryPG implements domain.VideoRepository.
type VideoRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new video repository backed by PostgreSQL.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepositoryPG {
	return &VideoRepositoryPG{pool: pool}
}

// Create inserts a new video request and returns its id.
func (r *VideoRepositoryPG) Create(ctx context.Context, video *domain.VideoRequest) (int64, error) {
	query := `
INSERT INTO videos (author_id, title, content, language, avatar_id, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		video.AuthorID,
		video.Title,
		video.Content,
		video.Language,
		video.AvatarID,
		video.Status,
	).Scan(&id)
	return id, err
}

// GetByID fetches a video request by its identifier.
func (r *VideoRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.VideoRequest, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, author_id, title, content, language, avatar_id, COALESCE(talk_id, ''), status, COALESCE(video_url, ''), created_at, updated_at
FROM videos
WHERE id = $1;
`, id)
	return scanVideo(row)
}

// Update applies the non-nil fields of the update to a single row.
func (r *VideoRepositoryPG) Update(ctx context.Context, id int64, update domain.VideoUpdate) (*domain.VideoRequest, error) {
	query := `
UPDATE videos
SET status = COALESCE($2, status),
    talk_id = COALESCE($3, talk_id),
    video_url = COALESCE($4, video_url),
    updated_at = NOW()
WHERE id = $1
RETURNING id, author_id, title, content, language, avatar_id, COALESCE(talk_id, ''), status, COALESCE(video_url, ''), created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query, id, update.Status, update.TalkID, update.VideoURL)
	return scanVideo(row)
}

// ListByAuthor returns the author's video requests, newest first.
func (r *VideoRepositoryPG) ListByAuthor(ctx context.Context, authorID string) ([]domain.VideoRequest, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, author_id, title, content, language, avatar_id, COALESCE(talk_id, ''), status, COALESCE(video_url, ''), created_at, updated_at
FROM videos
WHERE author_id = $1
ORDER BY created_at DESC;
`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []domain.VideoRequest
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

// Delete removes a video request.
func (r *VideoRepositoryPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByAuthorAndStatus counts the author's videos in a given status.
func (r *VideoRepositoryPG) CountByAuthorAndStatus(ctx context.Context, authorID string, status domain.VideoStatus) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE author_id = $1 AND status = $2`, authorID, status).Scan(&count)
	return count, err
}

func scanVideo(row pgx.Row) (*domain.VideoRequest, error) {
	var v domain.VideoRequest
	if err := row.Scan(
		&v.ID,
		&v.AuthorID,
		&v.Title,
		&v.Content,
		&v.Language,
		&v.AvatarID,
		&v.TalkID,
		&v.Status,
		&v.VideoURL,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
