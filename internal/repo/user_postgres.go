package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/loja/internal/models"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByUsername(username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_staff, created_at FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *PostgresUserRepository) CreateUser(u models.User) (models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, is_staff) VALUES ($1, $2, $3) RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.IsStaff).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return models.User{}, translatePgError(err)
	}
	return u, nil
}
