package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
)

// BrandfetchProvider queries the brand-search API. Its results are the
// highest quality we have and win dedup collisions by default.
type BrandfetchProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	favicons   *Favicons
}

// NewBrandfetchProvider creates the brand-search provider. Callers only
// register it when an API key is configured.
func NewBrandfetchProvider(cfg config.BrandfetchConfig, favicons *Favicons) *BrandfetchProvider {
	return &BrandfetchProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: newHTTPClient(cfg.Timeout),
		favicons:   favicons,
	}
}

func (p *BrandfetchProvider) Name() string { return string(model.SourceBrandfetch) }

type brandfetchBrand struct {
	BrandID     string `json:"brandId"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (p *BrandfetchProvider) Lookup(ctx context.Context, query string) ([]model.BrandRecord, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	var brands []brandfetchBrand
	endpoint := p.baseURL + "/v2/search/" + url.PathEscape(query)
	if err := getJSON(ctx, p.httpClient, endpoint, header, &brands); err != nil {
		return nil, err
	}

	records := make([]model.BrandRecord, 0, len(brands))
	for _, b := range brands {
		if b.Name == "" || b.Domain == "" {
			continue
		}
		rec := model.BrandRecord{
			ID:          "brandfetch-" + firstNonEmpty(b.BrandID, b.Domain),
			Name:        b.Name,
			Domain:      b.Domain,
			LogoURL:     firstNonEmpty(b.Icon, p.favicons.LogoURL(b.Domain)),
			Description: firstNonEmpty(b.Description, "Logo of "+b.Name),
			IsExternal:  true,
			Source:      model.SourceBrandfetch,
			Type:        model.TypeLogo,
		}
		if b.Icon != "" {
			rec.Resolutions = map[string]string{"Original": b.Icon}
		}
		records = append(records, rec)
	}
	return records, nil
}
