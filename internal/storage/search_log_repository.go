package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/logolist/internal/model"
)

// SearchLogRepository appends and counts search log rows.
type SearchLogRepository interface {
	Create(ctx context.Context, entry *model.SearchLog) error
	Count(ctx context.Context) (int64, error)
	CountSuccessful(ctx context.Context) (int64, error)
}

type sqliteSearchLogRepository struct {
	db *sqlx.DB
}

// NewSearchLogRepository creates a new SQLite-backed SearchLogRepository.
func NewSearchLogRepository(db *sqlx.DB) SearchLogRepository {
	return &sqliteSearchLogRepository{db: db}
}

func (r *sqliteSearchLogRepository) Create(ctx context.Context, entry *model.SearchLog) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO search_logs (query, success) VALUES (?, ?)", entry.Query, entry.Success)
	if err != nil {
		return fmt.Errorf("creating search log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *sqliteSearchLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM search_logs")
	return count, err
}

func (r *sqliteSearchLogRepository) CountSuccessful(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM search_logs WHERE success = 1")
	return count, err
}
