// Package llm lets a language model identify a brand from a free-text query
// and point at its official logo. Both Anthropic and OpenAI implement Client,
// so the provider layer can fall back from one to the other.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BrandResult is what the model submits for a query.
type BrandResult struct {
	CompanyName string `json:"company_name"`
	Domain      string `json:"domain"`
	LogoURL     string `json:"logo_url"`
	Confidence  string `json:"confidence"` // "high", "medium", "low"
}

// ErrNoBrand is returned when the model could not identify a brand.
var ErrNoBrand = errors.New("no brand identified")

// Client is the interface for LLM providers that can identify brands.
//
// Go interface design tip: keep interfaces small. The bigger the interface,
// the harder it is to implement and mock.
type Client interface {
	FindBrand(ctx context.Context, query string) (*BrandResult, error)
	ProviderName() string
	ModelName() string
}

// maxTurns bounds the tool-calling loop of both clients.
const maxTurns = 5

const submitToolName = "submit_brand"

// submitToolProperties is the JSON schema of the submit_brand tool, shared by
// both providers.
func submitToolProperties() map[string]interface{} {
	return map[string]interface{}{
		"company_name": map[string]interface{}{
			"type":        "string",
			"description": "The official name of the company or product.",
		},
		"domain": map[string]interface{}{
			"type":        "string",
			"description": "The company's primary website domain, without scheme or path (e.g. 'stripe.com').",
		},
		"logo_url": map[string]interface{}{
			"type":        "string",
			"description": "Direct URL to the official logo image (PNG, SVG or JPG). Empty if none was found.",
		},
		"confidence": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"high", "medium", "low"},
			"description": "How confident you are that this is the brand the user meant.",
		},
	}
}

// parseSubmission decodes and validates the tool input the model sent.
func parseSubmission(raw []byte, query string) (*BrandResult, error) {
	var result BrandResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parsing tool input: %w", err)
	}
	result.Domain = normalizeDomain(result.Domain)
	if result.CompanyName == "" || result.Domain == "" {
		return nil, fmt.Errorf("%w for %q", ErrNoBrand, query)
	}
	return &result, nil
}

// normalizeDomain strips scheme, "www." and any path the model may add.
func normalizeDomain(d string) string {
	d = strings.TrimSpace(strings.ToLower(d))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return d
}

// buildPrompt creates the user prompt for the LLM.
func buildPrompt(query string) string {
	return fmt.Sprintf(`A user of a logo catalog searched for "%s".

Identify the company, product or brand they most likely mean and find its official logo.
Prefer, in order:
1. The logo published on the company's own website or press kit
2. Wikimedia Commons (often high-quality SVG/PNG)

Requirements:
- domain must be the brand's primary website, e.g. "stripe.com"
- logo_url must be a DIRECT link to an image file, publicly accessible
- Use confidence "low" if the query is ambiguous

Call the %s tool once with your answer. If the query does not name any brand,
explain why in your response instead of calling the tool.`, query, submitToolName)
}
