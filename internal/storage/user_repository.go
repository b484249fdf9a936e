package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazar/m/domain"
)

type userRepository struct {
	q sqlx.ExtContext
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	result, err := r.q.ExecContext(ctx, `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`,
		user.Username, user.Password, user.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := sqlx.GetContext(ctx, r.q, &user, `SELECT id, username, password, role, created_at FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hash, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
