package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/fleveque/logolist/internal/model"
)

// Sentinel errors. Callers check with errors.Is(err, ErrNotFound).
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateDomain = errors.New("domain already registered")
)

// ListOptions controls the paginated admin listing.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// CompanyRepository defines the interface for company persistence.
// Go interfaces are implicit — any struct that has these methods satisfies it.
type CompanyRepository interface {
	Search(ctx context.Context, query string) ([]model.Company, error)
	Top(ctx context.Context, limit int) ([]model.Company, error)
	GetByID(ctx context.Context, id int64) (*model.Company, error)
	GetByDomain(ctx context.Context, domain string) (*model.Company, error)
	// CreateIfAbsent inserts c unless its domain is taken, then returns the
	// stored row. created is false when another row already owned the domain.
	CreateIfAbsent(ctx context.Context, c *model.Company) (stored *model.Company, created bool, err error)
	Update(ctx context.Context, c *model.Company) error
	UpdateAffiliate(ctx context.Context, id int64, affiliateURL *string) error
	Delete(ctx context.Context, id int64) error
	DomainTaken(ctx context.Context, domain string, excludeID int64) (bool, error)
	IncrementDownloads(ctx context.Context, id int64) error
	IncrementSearchCounts(ctx context.Context, ids []int64) error
	List(ctx context.Context, opts ListOptions) ([]model.Company, int64, error)
	Count(ctx context.Context) (int64, error)
	SumDownloads(ctx context.Context) (int64, error)
}

type sqliteCompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new SQLite-backed CompanyRepository.
func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &sqliteCompanyRepository{db: db}
}

// likePattern wraps q for a substring LIKE match, escaping the wildcards so
// a query like "100%" matches literally.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func (r *sqliteCompanyRepository) Search(ctx context.Context, query string) ([]model.Company, error) {
	pattern := likePattern(query)
	companies := []model.Company{}
	// SQLite's LIKE is case-insensitive for ASCII, which is what we want here.
	err := r.db.SelectContext(ctx, &companies, `
		SELECT * FROM companies
		WHERE name LIKE ? ESCAPE '\' OR domain LIKE ? ESCAPE '\'
		ORDER BY download_count DESC, id ASC`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching companies for %q: %w", query, err)
	}
	return companies, nil
}

func (r *sqliteCompanyRepository) Top(ctx context.Context, limit int) ([]model.Company, error) {
	companies := []model.Company{}
	err := r.db.SelectContext(ctx, &companies,
		"SELECT * FROM companies ORDER BY download_count DESC, id ASC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing top companies: %w", err)
	}
	return companies, nil
}

func (r *sqliteCompanyRepository) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	var c model.Company
	err := r.db.GetContext(ctx, &c, "SELECT * FROM companies WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting company %d: %w", id, err)
	}
	return &c, nil
}

func (r *sqliteCompanyRepository) GetByDomain(ctx context.Context, domain string) (*model.Company, error) {
	var c model.Company
	err := r.db.GetContext(ctx, &c, "SELECT * FROM companies WHERE domain = ?", domain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting company by domain %s: %w", domain, err)
	}
	return &c, nil
}

func (r *sqliteCompanyRepository) CreateIfAbsent(ctx context.Context, c *model.Company) (*model.Company, bool, error) {
	// ON CONFLICT DO NOTHING makes concurrent registrations of the same domain
	// converge on a single row instead of failing on the UNIQUE constraint.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO companies (name, domain, logo_url, description, category, sector, industry, affiliate_url, download_count, search_count)
		VALUES (:name, :domain, :logo_url, :description, :category, :sector, :industry, :affiliate_url, :download_count, :search_count)
		ON CONFLICT(domain) DO NOTHING
	`, c)
	if err != nil {
		return nil, false, fmt.Errorf("creating company %s: %w", c.Domain, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("checking insert result: %w", err)
	}

	stored, err := r.GetByDomain(ctx, c.Domain)
	if err != nil {
		return nil, false, err
	}
	return stored, n == 1, nil
}

func (r *sqliteCompanyRepository) Update(ctx context.Context, c *model.Company) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE companies SET
			name = :name,
			domain = :domain,
			logo_url = :logo_url,
			description = :description,
			category = :category,
			affiliate_url = :affiliate_url,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, c)
	if isUniqueViolation(err) {
		return ErrDuplicateDomain
	}
	if err != nil {
		return fmt.Errorf("updating company %d: %w", c.ID, err)
	}
	return requireRow(result)
}

func (r *sqliteCompanyRepository) UpdateAffiliate(ctx context.Context, id int64, affiliateURL *string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE companies SET affiliate_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		affiliateURL, id)
	if err != nil {
		return fmt.Errorf("updating affiliate url for %d: %w", id, err)
	}
	return requireRow(result)
}

func (r *sqliteCompanyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting company %d: %w", id, err)
	}
	return requireRow(result)
}

func (r *sqliteCompanyRepository) DomainTaken(ctx context.Context, domain string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM companies WHERE domain = ? AND id != ?", domain, excludeID)
	if err != nil {
		return false, fmt.Errorf("checking domain %s: %w", domain, err)
	}
	return n > 0, nil
}

// IncrementDownloads bumps the counter in SQL so concurrent downloads never
// lose an update.
func (r *sqliteCompanyRepository) IncrementDownloads(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE companies SET download_count = download_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("incrementing downloads for %d: %w", id, err)
	}
	return requireRow(result)
}

func (r *sqliteCompanyRepository) IncrementSearchCounts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	// sqlx.In expands the slice into (?, ?, ...) placeholders.
	query, args, err := sqlx.In("UPDATE companies SET search_count = search_count + 1 WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("building search count update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("incrementing search counts: %w", err)
	}
	return nil
}

func (r *sqliteCompanyRepository) List(ctx context.Context, opts ListOptions) ([]model.Company, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	where := ""
	var args []any
	if s := strings.TrimSpace(opts.Search); s != "" {
		pattern := likePattern(s)
		where = `WHERE name LIKE ? ESCAPE '\' OR domain LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM companies "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("counting companies: %w", err)
	}

	companies := []model.Company{}
	query := "SELECT * FROM companies " + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	if err := r.db.SelectContext(ctx, &companies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("listing companies: %w", err)
	}
	return companies, total, nil
}

func (r *sqliteCompanyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM companies")
	return count, err
}

func (r *sqliteCompanyRepository) SumDownloads(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.GetContext(ctx, &sum, "SELECT COALESCE(SUM(download_count), 0) FROM companies")
	return sum, err
}

// requireRow maps "zero rows affected" to ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
