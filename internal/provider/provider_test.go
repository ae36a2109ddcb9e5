package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
)

func testFavicons() *Favicons {
	return NewFavicons(config.FaviconConfig{
		BaseURL:     "https://t3.gstatic.com/faviconV2",
		LogoBaseURL: "https://logo.clearbit.com",
		Size:        256,
	})
}

// jsonServer serves body on every request and records the last request.
func jsonServer(t *testing.T, status int, body string, last **http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if last != nil {
			*last = r
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFavicons_URLs(t *testing.T) {
	f := testFavicons()
	assert.Equal(t,
		"https://t3.gstatic.com/faviconV2?client=SOCIAL&type=FAVICON&fallback_opts=TYPE,SIZE,URL&url=http://stripe.com&size=256",
		f.FaviconURL("stripe.com"))
	assert.Equal(t, "https://logo.clearbit.com/stripe.com", f.LogoURL("stripe.com"))

	res := f.Resolutions("stripe.com")
	assert.Len(t, res, len(resolutionSizes))
	assert.Contains(t, res["32x32"], "size=32")
}

func TestIsDomain(t *testing.T) {
	for _, s := range []string{"stripe.com", "Sub.Example.CO.UK", "my-site.io"} {
		assert.True(t, IsDomain(s), s)
	}
	for _, s := range []string{"stripe", "stripe .com", "-bad.com", "a.b1", "http://stripe.com", ""} {
		assert.False(t, IsDomain(s), s)
	}
}

func TestNameFromDomain(t *testing.T) {
	assert.Equal(t, "Stripe", NameFromDomain("stripe.com"))
	assert.Equal(t, "Example", NameFromDomain("www.example.org"))
	assert.Equal(t, "Localhost", NameFromDomain("localhost"))
}

func TestFavicons_Fallback(t *testing.T) {
	f := testFavicons()

	rec, ok := f.Fallback("Acme-Rockets.io")
	require.True(t, ok)
	assert.Equal(t, "auto-acme-rockets.io", rec.ID)
	assert.Equal(t, "Acme-rockets", rec.Name)
	assert.Equal(t, model.SourceGoogle, rec.Source)
	assert.Equal(t, model.TypeFavicon, rec.Type)
	assert.True(t, rec.IsExternal)
	assert.Equal(t, f.FaviconURL("acme-rockets.io"), rec.LogoURL)

	_, ok = f.Fallback("acme rockets")
	assert.False(t, ok)
}

func TestClearbitProvider_Lookup(t *testing.T) {
	var last *http.Request
	srv := jsonServer(t, http.StatusOK, `[
		{"name":"Stripe","domain":"stripe.com","logo":"https://logo.clearbit.com/stripe.com"},
		{"name":"Stripe Press","domain":"press.stripe.com","logo":""},
		{"name":"","domain":"broken.com"}
	]`, &last)

	p := NewClearbitProvider(config.ClearbitConfig{BaseURL: srv.URL, Timeout: time.Second}, testFavicons())
	recs, err := p.Lookup(context.Background(), "stripe inc")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "/v1/companies/suggest", last.URL.Path)
	assert.Equal(t, "stripe inc", last.URL.Query().Get("query"))

	assert.Equal(t, "ext-stripe.com", recs[0].ID)
	assert.Equal(t, model.TypeLogo, recs[0].Type)
	assert.Equal(t, model.SourceClearbit, recs[0].Source)
	assert.Equal(t, "Official logo of Stripe", recs[0].Description)

	// Missing logo degrades to a favicon.
	assert.Equal(t, model.TypeFavicon, recs[1].Type)
	assert.Contains(t, recs[1].LogoURL, "url=http://press.stripe.com")
}

func TestClearbitProvider_Errors(t *testing.T) {
	bad := jsonServer(t, http.StatusInternalServerError, `oops`, nil)
	p := NewClearbitProvider(config.ClearbitConfig{BaseURL: bad.URL, Timeout: time.Second}, testFavicons())
	_, err := p.Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	malformed := jsonServer(t, http.StatusOK, `{"not":"an array"`, nil)
	p = NewClearbitProvider(config.ClearbitConfig{BaseURL: malformed.URL, Timeout: time.Second}, testFavicons())
	_, err = p.Lookup(context.Background(), "x")
	assert.Error(t, err)
}

func TestAppStoreProvider_Lookup(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde"
	}
	var last *http.Request
	srv := jsonServer(t, http.StatusOK, `{"resultCount":2,"results":[
		{"trackId":284882215,"trackName":"Facebook","artworkUrl60":"https://a/60.png","artworkUrl100":"https://a/100.png","artworkUrl512":"https://a/512.png","description":"`+long+`"},
		{"trackId":1,"trackName":"Tiny","artworkUrl100":"https://b/100.png","description":"short"}
	]}`, &last)

	p := NewAppStoreProvider(config.AppStoreConfig{BaseURL: srv.URL, Limit: 5, Country: "us", Timeout: time.Second})
	recs, err := p.Lookup(context.Background(), "facebook")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	q := last.URL.Query()
	assert.Equal(t, "/search", last.URL.Path)
	assert.Equal(t, "facebook", q.Get("term"))
	assert.Equal(t, "software", q.Get("entity"))
	assert.Equal(t, "5", q.Get("limit"))

	fb := recs[0]
	assert.Equal(t, "appstore-284882215", fb.ID)
	assert.Equal(t, model.DomainAppStore, fb.Domain)
	assert.Equal(t, "https://a/512.png", fb.LogoURL)
	assert.Len(t, fb.Resolutions, 3)
	assert.Equal(t, descriptionLimit+3, len([]rune(fb.Description)))
	assert.Equal(t, "id:appstore-284882215", fb.DedupKey())

	assert.Equal(t, "https://b/100.png", recs[1].LogoURL)
	assert.Equal(t, "short", recs[1].Description)
}

func TestBrandfetchProvider_Lookup(t *testing.T) {
	var last *http.Request
	srv := jsonServer(t, http.StatusOK, `[
		{"brandId":"id123","name":"Stripe","domain":"stripe.com","icon":"https://cdn.brandfetch.io/stripe.png"},
		{"brandId":"id456","name":"Stripe Docs","domain":"docs.stripe.com"}
	]`, &last)

	p := NewBrandfetchProvider(config.BrandfetchConfig{BaseURL: srv.URL, APIKey: "secret", Timeout: time.Second}, testFavicons())
	recs, err := p.Lookup(context.Background(), "stripe")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "/v2/search/stripe", last.URL.Path)
	assert.Equal(t, "Bearer secret", last.Header.Get("Authorization"))

	assert.Equal(t, "brandfetch-id123", recs[0].ID)
	assert.Equal(t, model.SourceBrandfetch, recs[0].Source)
	assert.Equal(t, "https://cdn.brandfetch.io/stripe.png", recs[0].Resolutions["Original"])
	assert.Equal(t, "https://logo.clearbit.com/docs.stripe.com", recs[1].LogoURL)
	assert.Equal(t, "Logo of Stripe Docs", recs[1].Description)
}
