package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/logolist/internal/model"
)

// ChangeLogRepository stores the admin audit trail.
type ChangeLogRepository interface {
	Create(ctx context.Context, entry *model.ChangeLog) error
	ListRecent(ctx context.Context, limit int) ([]model.ChangeLog, error)
}

type sqliteChangeLogRepository struct {
	db *sqlx.DB
}

// NewChangeLogRepository creates a new SQLite-backed ChangeLogRepository.
func NewChangeLogRepository(db *sqlx.DB) ChangeLogRepository {
	return &sqliteChangeLogRepository{db: db}
}

func (r *sqliteChangeLogRepository) Create(ctx context.Context, entry *model.ChangeLog) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO change_logs (action, entity_type, entity_id, details, admin_username)
		VALUES (:action, :entity_type, :entity_id, :details, :admin_username)
	`, entry)
	if err != nil {
		return fmt.Errorf("creating change log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListRecent returns the newest entries first. Entries for deleted companies
// are kept; their CompanyName is nil.
func (r *sqliteChangeLogRepository) ListRecent(ctx context.Context, limit int) ([]model.ChangeLog, error) {
	entries := []model.ChangeLog{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT cl.*, c.name AS company_name
		FROM change_logs cl
		LEFT JOIN companies c ON c.id = cl.entity_id AND cl.entity_type = 'Company'
		ORDER BY cl.created_at DESC, cl.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing change logs: %w", err)
	}
	return entries, nil
}
