package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"viducate/internal/domain"
)

// ContactRepositoryPG implements domain.ContactRepository.
type ContactRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new contact repository backed by PostgreSQL.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepositoryPG {
	return &ContactRepositoryPG{pool: pool}
}

// Create stores a contact-form submission and returns its id.
func (r *ContactRepositoryPG) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO contacts (name, email, message)
VALUES ($1, $2, $3)
RETURNING id;
`, contact.Name, contact.Email, contact.Message).Scan(&id)
	return id, err
}
