package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/logolist/internal/model"
)

// newMockDB returns a sqlx handle backed by sqlmock for driver-failure paths
// that a real SQLite file cannot easily produce.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlite3"), mock
}

func TestCompanyRepository_SearchWrapsDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery("SELECT \\* FROM companies").
		WithArgs("%stripe%", "%stripe%").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Search(context.Background(), "stripe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searching companies")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_IncrementDownloadsNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectExec("UPDATE companies SET download_count").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementDownloads(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_CreateFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSearchLogRepository(db)

	mock.ExpectExec("INSERT INTO search_logs").WillReturnError(errors.New("database is locked"))

	err := repo.Create(context.Background(), &model.SearchLog{Query: "q"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
