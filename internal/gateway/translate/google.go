package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Google Cloud Translation v2 endpoint.
	DefaultBaseURL = "https://translation.googleapis.com"

	// DefaultTimeout bounds a single translate call. A timeout surfaces
	// to the relay like any other provider failure.
	DefaultTimeout = 15 * time.Second
)

// Google is a Translator backed by the Cloud Translation v2 REST API
// with API-key authentication.
type Google struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Google translator.
type Option func(*Google)

func WithBaseURL(url string) Option {
	return func(g *Google) { g.baseURL = url }
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *Google) { g.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Google) { g.http.Timeout = d }
}

// NewGoogle builds a translator. An empty apiKey is allowed; every call
// then fails fast with ErrNotConfigured.
func NewGoogle(apiKey string, opts ...Option) *Google {
	g := &Google{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Google) Translate(ctx context.Context, text, from, to string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(translateRequest{Q: text, Source: from, Target: to, Format: "text"})
	if err != nil {
		return "", fmt.Errorf("translate: encode request: %w", err)
	}

	url := g.baseURL + "/language/translate/v2?key=" + g.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: provider call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read response: %w", err)
	}

	var out translateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("translate: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error.Message != "" {
			return "", fmt.Errorf("translate: provider status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("translate: provider status %d", resp.StatusCode)
	}
	if len(out.Data.Translations) == 0 {
		return "", fmt.Errorf("translate: provider returned no translations")
	}
	return out.Data.Translations[0].TranslatedText, nil
}
