package model

import (
	"strconv"
	"time"
)

// Company is a persisted catalog entry. Each field has two tags:
//   - `db:"column_name"` — used by sqlx to scan database rows
//   - `json:"fieldName"` — used for JSON serialization (API responses)
type Company struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Domain        string    `db:"domain" json:"domain"`
	LogoURL       string    `db:"logo_url" json:"logoUrl"`
	Description   string    `db:"description" json:"description"`
	Category      *string   `db:"category" json:"category,omitempty"`
	Sector        string    `db:"sector" json:"sector"`
	Industry      string    `db:"industry" json:"industry"`
	AffiliateURL  *string   `db:"affiliate_url" json:"affiliateUrl,omitempty"`
	DownloadCount int64     `db:"download_count" json:"downloadCount"`
	SearchCount   int64     `db:"search_count" json:"searchCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Defaults applied to companies discovered through user interaction rather
// than curated by an admin.
const (
	SectorAutoDiscovered = "Auto-discovered"
	IndustryInternet     = "Internet"
)

// ToBrandRecord converts a stored company into the shape the search API returns.
func (c *Company) ToBrandRecord() BrandRecord {
	rec := BrandRecord{
		ID:            strconv.FormatInt(c.ID, 10),
		Name:          c.Name,
		Domain:        c.Domain,
		LogoURL:       c.LogoURL,
		Description:   c.Description,
		DownloadCount: c.DownloadCount,
		Source:        SourceDB,
		Type:          TypeLogo,
		CompanyID:     c.ID,
	}
	if c.AffiliateURL != nil {
		rec.AffiliateURL = *c.AffiliateURL
	}
	return rec
}

// SearchLog records one submitted query and whether it produced results.
// Rows are append-only.
type SearchLog struct {
	ID        int64     `db:"id" json:"id"`
	Query     string    `db:"query" json:"query"`
	Success   bool      `db:"success" json:"success"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ChangeAction is the kind of admin edit recorded in the change log.
type ChangeAction string

const (
	ActionUpdate ChangeAction = "UPDATE"
	ActionDelete ChangeAction = "DELETE"
)

// ChangeLog is an audit entry for an admin edit.
type ChangeLog struct {
	ID            int64        `db:"id" json:"id"`
	Action        ChangeAction `db:"action" json:"action"`
	EntityType    string       `db:"entity_type" json:"entityType"`
	EntityID      int64        `db:"entity_id" json:"entityId"`
	Details       string       `db:"details" json:"details"`
	AdminUsername string       `db:"admin_username" json:"adminUsername"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`

	// CompanyName is filled by the history query (LEFT JOIN), empty when the
	// company has since been deleted.
	CompanyName *string `db:"company_name" json:"companyName,omitempty"`
}

// AdminUser is an account allowed to use the admin API.
type AdminUser struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// LLMCall tracks each call to an LLM provider for cost monitoring.
type LLMCall struct {
	ID         int64     `db:"id" json:"id"`
	Query      string    `db:"query" json:"query"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	ResultURL  *string   `db:"result_url" json:"resultUrl,omitempty"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"durationMs,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Metrics is the aggregate view served on the public metrics endpoint.
type Metrics struct {
	SearchSuccessRate int64 `json:"searchSuccessRate"`
	TotalDownloads    int64 `json:"totalDownloads"`
	TotalCompanies    int64 `json:"totalCompanies"`
	TotalSearches     int64 `json:"totalSearches"`
}
