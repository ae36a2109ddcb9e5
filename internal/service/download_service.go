package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/fleveque/logolist/internal/model"
)

// maxImageBytes caps proxied image downloads.
const maxImageBytes = 10 << 20

// Browser-like headers: several logo hosts refuse non-browser agents.
const (
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	browserAccept    = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
)

// ErrUpstream is returned when the remote image cannot be fetched.
var ErrUpstream = errors.New("upstream image unavailable")

// DownloadRequest is a proxied download.
type DownloadRequest struct {
	URL        string         `json:"url" validate:"required,http_url"`
	Filename   string         `json:"filename"`
	Size       model.LogoSize `json:"size" validate:"omitempty,logosize"` // resize to a square PNG
	Background string         `json:"bg" validate:"omitempty,rgbhex"`     // hex colour to flatten onto
}

// Download is a fetched, possibly re-rendered image.
type Download struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DownloadService fetches remote logos on behalf of the client, so browsers
// get an attachment instead of a cross-origin image.
type DownloadService struct {
	httpClient *http.Client
	images     *ImageProcessor
}

// NewDownloadService creates the proxy.
func NewDownloadService(images *ImageProcessor, timeout time.Duration) *DownloadService {
	return &DownloadService{
		httpClient: &http.Client{Timeout: timeout},
		images:     images,
	}
}

// Fetch downloads req.URL and applies the optional size and background.
func (s *DownloadService) Fetch(ctx context.Context, req DownloadRequest) (*Download, error) {
	if err := checkInput(req); err != nil {
		return nil, err
	}

	data, contentType, err := s.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	filename := sanitizeFilename(req.Filename)
	if req.Size != "" || req.Background != "" {
		data, err = s.images.Render(data, req.Size, req.Background)
		if err != nil {
			return nil, fmt.Errorf("rendering image: %w", err)
		}
		contentType = "image/png"
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + ".png"
	}

	return &Download{Data: data, ContentType: contentType, Filename: filename}, nil
}

// FetchRaw downloads an image without any processing.
func (s *DownloadService) FetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	if err := checkInput(DownloadRequest{URL: rawURL}); err != nil {
		return nil, err
	}
	data, _, err := s.fetch(ctx, rawURL)
	return data, err
}

func (s *DownloadService) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)
	httpReq.Header.Set("Accept", browserAccept)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	// Read one byte past the cap so oversized bodies can be told apart.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", ErrUpstream, err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("%w: image larger than %d bytes", ErrUpstream, maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// sanitizeFilename keeps the attachment name safe for a Content-Disposition
// header.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "logo.png"
	}
	return name
}

