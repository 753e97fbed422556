package repository

import (
	"context"
	"database/sql"

	"eventbook/internal/database"
	"eventbook/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByToken resolves an API bearer token to its user
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, `WHERE api_token = $1`, token)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, role, api_token, is_active, created_at
		FROM users
		` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.APIToken,
		&user.IsActive,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}
