package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mycredit/lending-engine/internal/domain"
)

type userRepository struct {
	ext sqlx.ExtContext
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{ext: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, is_inactive, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := sqlx.GetContext(ctx, r.ext, &user, query, id); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) SetInactive(ctx context.Context, id uuid.UUID, inactive bool) error {
	query := `
		UPDATE users
		SET is_inactive = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.ext.ExecContext(ctx, query, id, inactive, time.Now().UTC())
	return err
}
