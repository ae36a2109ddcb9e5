package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
)

// ClearbitProvider queries the company-suggestion autocomplete API.
type ClearbitProvider struct {
	baseURL    string
	httpClient *http.Client
	favicons   *Favicons
}

// NewClearbitProvider creates the suggestion provider.
func NewClearbitProvider(cfg config.ClearbitConfig, favicons *Favicons) *ClearbitProvider {
	return &ClearbitProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
		favicons:   favicons,
	}
}

func (p *ClearbitProvider) Name() string { return string(model.SourceClearbit) }

type clearbitSuggestion struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Logo   string `json:"logo"`
}

func (p *ClearbitProvider) Lookup(ctx context.Context, query string) ([]model.BrandRecord, error) {
	endpoint := p.baseURL + "/v1/companies/suggest?query=" + url.QueryEscape(query)

	var suggestions []clearbitSuggestion
	if err := getJSON(ctx, p.httpClient, endpoint, nil, &suggestions); err != nil {
		return nil, err
	}

	records := make([]model.BrandRecord, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Name == "" || s.Domain == "" {
			continue
		}
		rec := model.BrandRecord{
			ID:          "ext-" + s.Domain,
			Name:        s.Name,
			Domain:      s.Domain,
			LogoURL:     s.Logo,
			Description: "Official logo of " + s.Name,
			IsExternal:  true,
			Source:      model.SourceClearbit,
			Type:        model.TypeLogo,
			Resolutions: p.favicons.Resolutions(s.Domain),
		}
		if rec.LogoURL == "" {
			rec.LogoURL = p.favicons.FaviconURL(s.Domain)
			rec.Type = model.TypeFavicon
		}
		records = append(records, rec)
	}
	return records, nil
}
