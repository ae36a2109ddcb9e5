// Package model defines the core data types for the logo catalog.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import "strings"

// Source identifies where a BrandRecord came from. It drives display badges
// and the merge tie-breaking rules in the resolver.
type Source string

const (
	SourceDB         Source = "DB"
	SourceBrandfetch Source = "Brandfetch"
	SourceAppStore   Source = "AppStore"
	SourceClearbit   Source = "Clearbit"
	SourceLLM        Source = "LLM"
	SourceGoogle     Source = "Google"
	SourceCurated    Source = "Curated"
	SourceFallback   Source = "Fallback"
)

// AssetType classifies the image quality tier of a record.
type AssetType string

const (
	TypeLogo    AssetType = "logo"
	TypeFavicon AssetType = "favicon"
)

// DomainAppStore is the placeholder domain used for App Store results, which
// have no canonical website. Records carrying it are deduplicated by ID.
const DomainAppStore = "App Store"

// BrandRecord is the normalized unit every search path produces.
// Persisted records have a decimal ID; transient ones get a provider prefix
// (e.g. "ext-stripe.com", "appstore-284882215").
type BrandRecord struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Domain        string            `json:"domain"`
	LogoURL       string            `json:"logoUrl"`
	Description   string            `json:"description,omitempty"`
	DownloadCount int64             `json:"downloadCount"`
	IsExternal    bool              `json:"isExternal"`
	Source        Source            `json:"source"`
	Type          AssetType         `json:"type"`
	Resolutions   map[string]string `json:"resolutions,omitempty"`
	AffiliateURL  string            `json:"affiliateUrl,omitempty"`

	// CompanyID is the primary key of the backing companies row, zero for
	// transient records. Not serialized: clients use ID.
	CompanyID int64 `json:"-"`
}

// Persisted reports whether the record is backed by a companies row.
func (b BrandRecord) Persisted() bool {
	return b.CompanyID > 0
}

// DedupKey returns the key used to collapse duplicate results: the lower-cased
// domain when it is a real hostname, otherwise the record ID.
func (b BrandRecord) DedupKey() string {
	if IsCanonicalDomain(b.Domain) {
		return strings.ToLower(b.Domain)
	}
	return "id:" + b.ID
}

// IsCanonicalDomain reports whether d looks like a hostname that can identify
// a brand (as opposed to the App Store placeholder or an empty value).
func IsCanonicalDomain(d string) bool {
	if d == "" || d == DomainAppStore {
		return false
	}
	if strings.ContainsAny(d, " /") {
		return false
	}
	return strings.Contains(d, ".")
}
