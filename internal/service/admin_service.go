package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/storage"
)

// historyLimit is how many change log entries the history view returns.
const historyLimit = 50

const entityCompany = "Company"

// AdminService implements the curation endpoints. Every successful edit is
// recorded in the change log.
type AdminService struct {
	companies  storage.CompanyRepository
	changeLogs storage.ChangeLogRepository
	admins     storage.AdminUserRepository
	jwt        *auth.JWTManager
	logger     *zap.Logger
}

// NewAdminService creates the service.
func NewAdminService(
	companies storage.CompanyRepository,
	changeLogs storage.ChangeLogRepository,
	admins storage.AdminUserRepository,
	jwt *auth.JWTManager,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		companies:  companies,
		changeLogs: changeLogs,
		admins:     admins,
		jwt:        jwt,
		logger:     logger,
	}
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks credentials and issues a session token. Unknown users and
// wrong passwords both return auth.ErrInvalidCredentials.
func (s *AdminService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.Generate(user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	Current int   `json:"current"`
}

// CompanyPage is one page of companies.
type CompanyPage struct {
	Companies  []model.Company `json:"companies"`
	Pagination Pagination      `json:"pagination"`
}

// ListCompanies returns a page of companies, newest first.
func (s *AdminService) ListCompanies(ctx context.Context, opts storage.ListOptions) (*CompanyPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}
	companies, total, err := s.companies.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	pages := (total + int64(opts.Limit) - 1) / int64(opts.Limit)
	return &CompanyPage{
		Companies:  companies,
		Pagination: Pagination{Total: total, Pages: pages, Current: opts.Page},
	}, nil
}

// CompanyUpdate is the full set of editable fields.
type CompanyUpdate struct {
	Name         string `json:"name" validate:"required,max=200"`
	Domain       string `json:"domain" validate:"required,max=253"`
	LogoURL      string `json:"logoUrl" validate:"omitempty,http_url"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	AffiliateURL string `json:"affiliateUrl" validate:"omitempty,http_url"`
}

func (u *CompanyUpdate) normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Domain = strings.ToLower(strings.TrimSpace(u.Domain))
	u.LogoURL = strings.TrimSpace(u.LogoURL)
	u.AffiliateURL = strings.TrimSpace(u.AffiliateURL)
}

// AffiliateUpdate sets or clears (empty string) a company's affiliate link.
type AffiliateUpdate struct {
	AffiliateURL string `json:"affiliateUrl" validate:"omitempty,http_url"`
}

// UpdateCompany replaces the editable fields of company id.
// Returns ErrInvalidInput wrapping a *validator.ValidationError,
// storage.ErrNotFound or storage.ErrDuplicateDomain.
func (s *AdminService) UpdateCompany(ctx context.Context, admin string, id int64, upd CompanyUpdate) (*model.Company, error) {
	upd.normalize()
	if err := checkInput(upd); err != nil {
		return nil, err
	}

	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.companies.DomainTaken(ctx, upd.Domain, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, storage.ErrDuplicateDomain
	}

	company.Name = upd.Name
	company.Domain = upd.Domain
	company.LogoURL = upd.LogoURL
	company.Description = upd.Description
	company.Category = optional(upd.Category)
	company.AffiliateURL = optional(upd.AffiliateURL)

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	s.audit(ctx, model.ActionUpdate, id, admin, "Updated company "+company.Name)

	return s.companies.GetByID(ctx, id)
}

// UpdateAffiliate sets or clears the affiliate link.
func (s *AdminService) UpdateAffiliate(ctx context.Context, admin string, id int64, upd AffiliateUpdate) (*model.Company, error) {
	affiliateURL := strings.TrimSpace(upd.AffiliateURL)
	if err := checkInput(AffiliateUpdate{AffiliateURL: affiliateURL}); err != nil {
		return nil, err
	}
	if err := s.companies.UpdateAffiliate(ctx, id, optional(affiliateURL)); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Removed affiliate link of company %d", id)
	if affiliateURL != "" {
		details = fmt.Sprintf("Set affiliate link of company %d to %s", id, affiliateURL)
	}
	s.audit(ctx, model.ActionUpdate, id, admin, details)

	return s.companies.GetByID(ctx, id)
}

// DeleteCompany removes company id. The change log keeps the entry.
func (s *AdminService) DeleteCompany(ctx context.Context, admin string, id int64) error {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, model.ActionDelete, id, admin, fmt.Sprintf("Deleted company %s (%s)", company.Name, company.Domain))
	return nil
}

// History returns the latest change log entries.
func (s *AdminService) History(ctx context.Context) ([]model.ChangeLog, error) {
	return s.changeLogs.ListRecent(ctx, historyLimit)
}

// audit writes a change log entry. The edit has already been applied, so a
// failure here is logged rather than reported to the admin.
func (s *AdminService) audit(ctx context.Context, action model.ChangeAction, id int64, admin, details string) {
	entry := &model.ChangeLog{
		Action:        action,
		EntityType:    entityCompany,
		EntityID:      id,
		Details:       details,
		AdminUsername: admin,
	}
	if err := s.changeLogs.Create(ctx, entry); err != nil {
		s.logger.Error("writing change log", zap.Int64("company_id", id), zap.Error(err))
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
