package provider

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
)

// domainPattern decides whether a free-text query is worth a favicon fallback.
var domainPattern = regexp.MustCompile(`(?i)^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// resolutionSizes are the favicon sizes offered alongside curated and
// suggested logos.
var resolutionSizes = []int{32, 64, 128, 256}

// Favicons builds URLs for the favicon service and the logo service.
// It performs no I/O.
type Favicons struct {
	baseURL     string
	logoBaseURL string
	size        int
}

// NewFavicons creates a URL builder from config.
func NewFavicons(cfg config.FaviconConfig) *Favicons {
	size := cfg.Size
	if size <= 0 {
		size = 256
	}
	return &Favicons{
		baseURL:     strings.TrimRight(cfg.BaseURL, "?"),
		logoBaseURL: strings.TrimRight(cfg.LogoBaseURL, "/"),
		size:        size,
	}
}

// FaviconURL returns the favicon-service URL for domain at the default size.
func (f *Favicons) FaviconURL(domain string) string {
	return f.faviconURL(domain, f.size)
}

func (f *Favicons) faviconURL(domain string, size int) string {
	return fmt.Sprintf("%s?client=SOCIAL&type=FAVICON&fallback_opts=TYPE,SIZE,URL&url=http://%s&size=%d",
		f.baseURL, domain, size)
}

// LogoURL returns the logo-service URL for domain.
func (f *Favicons) LogoURL(domain string) string {
	return f.logoBaseURL + "/" + domain
}

// Resolutions returns favicon URLs keyed by "WxH" label.
func (f *Favicons) Resolutions(domain string) map[string]string {
	res := make(map[string]string, len(resolutionSizes))
	for _, s := range resolutionSizes {
		res[fmt.Sprintf("%dx%d", s, s)] = f.faviconURL(domain, s)
	}
	return res
}

// Fallback synthesizes a favicon record for a query that looks like a
// domain. ok is false for anything else.
func (f *Favicons) Fallback(query string) (rec model.BrandRecord, ok bool) {
	query = strings.TrimSpace(query)
	if !IsDomain(query) {
		return model.BrandRecord{}, false
	}
	domain := strings.ToLower(query)
	name := NameFromDomain(domain)
	return model.BrandRecord{
		ID:          "auto-" + domain,
		Name:        name,
		Domain:      domain,
		LogoURL:     f.FaviconURL(domain),
		Description: "Official logo of " + name,
		IsExternal:  true,
		Source:      model.SourceGoogle,
		Type:        model.TypeFavicon,
		Resolutions: f.Resolutions(domain),
	}, true
}

// IsDomain reports whether s looks like a bare hostname ("stripe.com").
func IsDomain(s string) bool {
	return domainPattern.MatchString(s)
}

// NameFromDomain derives a display name from the second-to-last label:
// "stripe.com" → "Stripe".
func NameFromDomain(domain string) string {
	labels := strings.Split(domain, ".")
	label := labels[0]
	if len(labels) >= 2 {
		label = labels[len(labels)-2]
	}
	if label == "" {
		return domain
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}
