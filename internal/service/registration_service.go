package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/metrics"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/storage"
	"github.com/fleveque/logolist/internal/validator"
)

// ErrInvalidInput marks caller mistakes that map to HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// checkInput validates in against its tags. Failures wrap both
// ErrInvalidInput and the *validator.ValidationError with per-field details.
func checkInput(in any) error {
	if err := validator.Validate(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// RegisterInput is an external record a user interacted with.
type RegisterInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Domain  string `json:"domain" validate:"required,max=253"`
	LogoURL string `json:"logoUrl" validate:"omitempty,http_url"`
}

// RegistrationService persists external records the first time a user
// interacts with them.
type RegistrationService struct {
	companies storage.CompanyRepository
	favicons  *provider.Favicons
	logger    *zap.Logger
}

// NewRegistrationService creates the service.
func NewRegistrationService(companies storage.CompanyRepository, favicons *provider.Favicons, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{companies: companies, favicons: favicons, logger: logger}
}

// Register returns the stored record for in.Domain, creating it if needed.
// Only validation errors are returned: when the store fails the caller gets
// a transient record with a temp- ID instead.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (model.BrandRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Domain = strings.ToLower(strings.TrimSpace(in.Domain))
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	if err := checkInput(in); err != nil {
		return model.BrandRecord{}, err
	}

	existing, err := s.companies.GetByDomain(ctx, in.Domain)
	if err == nil {
		return persistedRecord(existing, s.favicons), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return s.transient(in, err), nil
	}

	stored, created, err := s.companies.CreateIfAbsent(ctx, &model.Company{
		Name:        in.Name,
		Domain:      in.Domain,
		LogoURL:     in.LogoURL,
		Description: "Official logo of " + in.Name,
		Sector:      model.SectorAutoDiscovered,
		Industry:    model.IndustryInternet,
		SearchCount: 1,
	})
	if err != nil {
		return s.transient(in, err), nil
	}
	if created {
		s.logger.Info("registered company", zap.String("domain", stored.Domain), zap.Int64("id", stored.ID))
	}
	return persistedRecord(stored, s.favicons), nil
}

func (s *RegistrationService) transient(in RegisterInput, cause error) model.BrandRecord {
	metrics.StoreErrorsTotal.WithLabelValues("register").Inc()
	s.logger.Warn("registration failed, returning transient record",
		zap.String("domain", in.Domain), zap.Error(cause))

	rec := model.BrandRecord{
		ID:          "temp-" + uuid.NewString(),
		Name:        in.Name,
		Domain:      in.Domain,
		LogoURL:     in.LogoURL,
		Description: "Official logo of " + in.Name,
		IsExternal:  true,
		Source:      model.SourceFallback,
		Type:        model.TypeLogo,
	}
	if rec.LogoURL == "" {
		rec.LogoURL = s.favicons.FaviconURL(in.Domain)
		rec.Type = model.TypeFavicon
	}
	return rec
}
