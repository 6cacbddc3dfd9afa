package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"viducate/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// UpsertBySubject inserts or refreshes a user keyed on the identity
// provider's subject claim.
func (r *UserRepositoryPG) UpsertBySubject(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
INSERT INTO users (id, subject, email, name, picture, locale, role)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (subject) DO UPDATE
SET email = EXCLUDED.email,
    name = EXCLUDED.name,
    picture = EXCLUDED.picture,
    locale = EXCLUDED.locale,
    updated_at = NOW()
RETURNING id, subject, email, name, picture, locale, role, points, level, created_at, updated_at;
`

	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Subject,
		user.Email,
		user.Name,
		user.Picture,
		user.Locale,
		user.Role,
	)

	return scanUser(row)
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, subject, email, name, picture, locale, role, points, level, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetBySubject fetches a user by identity-provider subject.
func (r *UserRepositoryPG) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, subject, email, name, picture, locale, role, points, level, created_at, updated_at FROM users WHERE subject = $1`, subject)
	return scanUser(row)
}

// AddPoints atomically adds delta to the user's balance and rederives the
// level from the new total.
func (r *UserRepositoryPG) AddPoints(ctx context.Context, userID string, delta int) (*domain.User, error) {
	query := `
UPDATE users
SET points = GREATEST(points + $2, 0),
    level = GREATEST(points + $2, 0) / 100 + 1,
    updated_at = NOW()
WHERE id = $1
RETURNING id, subject, email, name, picture, locale, role, points, level, created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query, userID, delta)
	return scanUser(row)
}

// ListTopByPoints returns the highest-scoring users.
func (r *UserRepositoryPG) ListTopByPoints(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, subject, email, name, picture, locale, role, points, level, created_at, updated_at
FROM users
ORDER BY points DESC, created_at ASC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Picture, &u.Locale, &u.Role, &u.Points, &u.Level, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
