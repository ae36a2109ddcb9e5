package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/logolist/internal/model"
)

// AdminUserRepository stores admin accounts.
type AdminUserRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	// Upsert creates the user or replaces the password hash and role of an
	// existing one.
	Upsert(ctx context.Context, user *model.AdminUser) error
}

type sqliteAdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new SQLite-backed AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) AdminUserRepository {
	return &sqliteAdminUserRepository{db: db}
}

func (r *sqliteAdminUserRepository) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var u model.AdminUser
	err := r.db.GetContext(ctx, &u, "SELECT * FROM admin_users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin user %s: %w", username, err)
	}
	return &u, nil
}

func (r *sqliteAdminUserRepository) Upsert(ctx context.Context, user *model.AdminUser) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO admin_users (username, password_hash, role)
		VALUES (:username, :password_hash, :role)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role
	`, user)
	if err != nil {
		return fmt.Errorf("upserting admin user %s: %w", user.Username, err)
	}
	return nil
}
