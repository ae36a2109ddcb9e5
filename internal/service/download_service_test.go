package service

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/h2non/bimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/logolist/internal/model"
)

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := createTestPNG(t, 40, 20, color.NRGBA{R: 10, G: 20, B: 200, A: 255})
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0}, maxImageBytes+1))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadService_Passthrough(t *testing.T) {
	srv := newImageServer(t)
	svc := NewDownloadService(NewImageProcessor(nil), 5*time.Second)

	dl, err := svc.Fetch(context.Background(), DownloadRequest{URL: srv.URL + "/logo.png", Filename: "../../etc/stripe.png"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", dl.ContentType)
	assert.Equal(t, "stripe.png", dl.Filename)
	assert.NotEmpty(t, dl.Data)
}

func TestDownloadService_Resize(t *testing.T) {
	srv := newImageServer(t)
	svc := NewDownloadService(NewImageProcessor(nil), 5*time.Second)

	dl, err := svc.Fetch(context.Background(), DownloadRequest{
		URL: srv.URL + "/logo.png", Filename: "stripe.svg", Size: model.SizeL, Background: "ffffff",
	})
	require.NoError(t, err)
	assert.Equal(t, "stripe.png", dl.Filename)
	assert.Equal(t, "image/png", dl.ContentType)

	size, err := bimg.NewImage(dl.Data).Size()
	require.NoError(t, err)
	assert.Equal(t, 128, size.Width)
	assert.Equal(t, 128, size.Height)
}

func TestDownloadService_Errors(t *testing.T) {
	srv := newImageServer(t)
	svc := NewDownloadService(NewImageProcessor(nil), 5*time.Second)
	ctx := context.Background()

	tests := []struct {
		name string
		req  DownloadRequest
		want error
	}{
		{"missing url", DownloadRequest{}, ErrInvalidInput},
		{"bad scheme", DownloadRequest{URL: "file:///etc/passwd"}, ErrInvalidInput},
		{"bad size", DownloadRequest{URL: srv.URL + "/logo.png", Size: "xxl"}, ErrInvalidInput},
		{"bad colour", DownloadRequest{URL: srv.URL + "/logo.png", Background: "red"}, ErrInvalidInput},
		{"upstream 404", DownloadRequest{URL: srv.URL + "/missing"}, ErrUpstream},
		{"too large", DownloadRequest{URL: srv.URL + "/huge"}, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Fetch(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "logo.png", sanitizeFilename(""))
	assert.Equal(t, "a.png", sanitizeFilename(`C:\tmp\a.png`))
	assert.Equal(t, "ab.png", sanitizeFilename("a\"b.png"))
}
