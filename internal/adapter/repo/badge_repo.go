package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"viducate/internal/domain"
)

// BadgeRepositoryPG implements domain.BadgeRepository.
type BadgeRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBadgeRepository creates a new badge repository backed by PostgreSQL.
func NewBadgeRepository(pool *pgxpool.Pool) *BadgeRepositoryPG {
	return &BadgeRepositoryPG{pool: pool}
}

// Award grants a badge once per (user, code); a repeat award is a no-op.
func (r *BadgeRepositoryPG) Award(ctx context.Context, userID string, badge domain.Badge) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO badges (user_id, code, name, emoji)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, code) DO NOTHING;
`, userID, badge.Code, badge.Name, badge.Emoji)
	return err
}

// ListByUser returns the user's badges in the order they were earned.
func (r *BadgeRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Badge, error) {
	rows, err := r.pool.Query(ctx, `
SELECT code, name, emoji, earned_at
FROM badges
WHERE user_id = $1
ORDER BY earned_at ASC;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.Code, &b.Name, &b.Emoji, &b.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
