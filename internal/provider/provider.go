// Package provider defines the external brand lookup sources and the adapter
// boundary that turns their failures into empty contributions.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fleveque/logolist/internal/model"
)

// Provider is one external lookup source.
// Lookup returns an error for transport failures, non-2xx responses and
// malformed payloads; the Adapter is what hides those from callers.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query string) ([]model.BrandRecord, error)
}

const userAgent = "logolist/1.0"

// maxBodyBytes caps how much of a provider response we are willing to read.
const maxBodyBytes = 10 << 20

// ErrUnexpectedStatus is wrapped by lookups that receive a non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: HTTP %d from %s", ErrUnexpectedStatus, resp.StatusCode, req.URL.Host)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Host, err)
	}
	return nil
}
