package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
)

// descriptionLimit is how many characters of an app description we keep.
const descriptionLimit = 100

// AppStoreProvider searches the public app-store search API for software.
type AppStoreProvider struct {
	baseURL    string
	limit      int
	country    string
	httpClient *http.Client
}

// NewAppStoreProvider creates the app-store provider.
func NewAppStoreProvider(cfg config.AppStoreConfig) *AppStoreProvider {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}
	return &AppStoreProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limit:      limit,
		country:    cfg.Country,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (p *AppStoreProvider) Name() string { return string(model.SourceAppStore) }

type appStoreResponse struct {
	Results []appStoreApp `json:"results"`
}

type appStoreApp struct {
	TrackID       int64  `json:"trackId"`
	TrackName     string `json:"trackName"`
	ArtworkURL60  string `json:"artworkUrl60"`
	ArtworkURL100 string `json:"artworkUrl100"`
	ArtworkURL512 string `json:"artworkUrl512"`
	Description   string `json:"description"`
}

func (p *AppStoreProvider) Lookup(ctx context.Context, query string) ([]model.BrandRecord, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("entity", "software")
	params.Set("limit", strconv.Itoa(p.limit))
	if p.country != "" {
		params.Set("country", p.country)
	}

	var resp appStoreResponse
	if err := getJSON(ctx, p.httpClient, p.baseURL+"/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]model.BrandRecord, 0, len(resp.Results))
	for _, app := range resp.Results {
		logo := firstNonEmpty(app.ArtworkURL512, app.ArtworkURL100, app.ArtworkURL60)
		if app.TrackName == "" || logo == "" {
			continue
		}
		records = append(records, model.BrandRecord{
			ID:          fmt.Sprintf("appstore-%d", app.TrackID),
			Name:        app.TrackName,
			Domain:      model.DomainAppStore,
			LogoURL:     logo,
			Description: truncate(app.Description, descriptionLimit),
			IsExternal:  true,
			Source:      model.SourceAppStore,
			Type:        model.TypeLogo,
			Resolutions: artworkResolutions(app),
		})
	}
	return records, nil
}

func artworkResolutions(app appStoreApp) map[string]string {
	res := map[string]string{}
	if app.ArtworkURL60 != "" {
		res["60x60"] = app.ArtworkURL60
	}
	if app.ArtworkURL100 != "" {
		res["100x100"] = app.ArtworkURL100
	}
	if app.ArtworkURL512 != "" {
		res["512x512"] = app.ArtworkURL512
	}
	return res
}

// truncate cuts s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
