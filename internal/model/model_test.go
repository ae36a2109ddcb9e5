package model

import "testing"

func TestIsCanonicalDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   bool
	}{
		{"stripe.com", true},
		{"Sub.Example.CO.uk", true},
		{"", false},
		{DomainAppStore, false},
		{"localhost", false},
		{"foo bar.com", false},
		{"example.com/path", false},
	}
	for _, tt := range tests {
		if got := IsCanonicalDomain(tt.domain); got != tt.want {
			t.Errorf("IsCanonicalDomain(%q) = %v, want %v", tt.domain, got, tt.want)
		}
	}
}

func TestBrandRecord_DedupKey(t *testing.T) {
	byDomain := BrandRecord{ID: "ext-stripe.com", Domain: "Stripe.COM"}
	if got := byDomain.DedupKey(); got != "stripe.com" {
		t.Errorf("DedupKey() = %q, want stripe.com", got)
	}

	app := BrandRecord{ID: "appstore-42", Domain: DomainAppStore}
	if got := app.DedupKey(); got != "id:appstore-42" {
		t.Errorf("DedupKey() = %q, want id:appstore-42", got)
	}
}

func TestCompany_ToBrandRecord(t *testing.T) {
	aff := "https://partner.example/ref"
	c := &Company{ID: 7, Name: "Stripe", Domain: "stripe.com", LogoURL: "https://x/logo.png", DownloadCount: 3, AffiliateURL: &aff}

	rec := c.ToBrandRecord()
	if rec.ID != "7" || rec.CompanyID != 7 {
		t.Errorf("ID = %q / %d, want 7", rec.ID, rec.CompanyID)
	}
	if rec.Source != SourceDB || rec.Type != TypeLogo || rec.IsExternal {
		t.Errorf("unexpected classification: %+v", rec)
	}
	if rec.AffiliateURL != aff {
		t.Errorf("AffiliateURL = %q, want %q", rec.AffiliateURL, aff)
	}
	if !rec.Persisted() {
		t.Error("expected persisted record")
	}
}

func TestValidSize(t *testing.T) {
	if !ValidSize("xl") || ValidSize("xxl") {
		t.Error("ValidSize returned unexpected result")
	}
}
