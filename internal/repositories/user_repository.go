package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByNameFold resolves a display name case-insensitively. Returns
	// (nil, nil) when no user matches.
	FindByNameFold(ctx context.Context, name string) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q, user.ID, user.Name, user.Email, user.Role).Scan(&user.CreatedAt)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT id, name, email, role, created_at FROM users WHERE id = $1`
	user, err := r.scanOne(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user %s", id)
	}
	return user, err
}

func (r *userRepository) FindByNameFold(ctx context.Context, name string) (*models.User, error) {
	const q = `SELECT id, name, email, role, created_at FROM users WHERE lower(name) = lower($1) LIMIT 1`
	user, err := r.scanOne(r.db.QueryRowContext(ctx, q, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt); err != nil {
		return nil, err
	}
	return user, nil
}
