package tts

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
	// DefaultBaseURL is the ElevenLabs API endpoint.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultTimeout bounds a single synthesis call.
	DefaultTimeout = 30 * time.Second

	modelID      = "eleven_turbo_v2"
	outputFormat = "mp3_22050_32"
)

// ElevenLabs is a Synthesizer backed by the ElevenLabs REST API.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures an ElevenLabs synthesizer.
type Option func(*ElevenLabs)

func WithBaseURL(url string) Option {
	return func(e *ElevenLabs) { e.baseURL = url }
}

func WithHTTPClient(c *http.Client) Option {
	return func(e *ElevenLabs) { e.http = c }
}

// NewElevenLabs builds a synthesizer. An empty apiKey is allowed; every
// call then fails fast with ErrNotConfigured.
func NewElevenLabs(apiKey string, opts ...Option) *ElevenLabs {
	e := &ElevenLabs{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type apiError struct {
	Detail json.RawMessage `json:"detail"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if e.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: modelID})
	if err != nil {
		return nil, fmt.Errorf("tts: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", e.baseURL, voiceID, outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: provider call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && len(ae.Detail) > 0 {
			return nil, fmt.Errorf("tts: provider status %d: %s", resp.StatusCode, ae.Detail)
		}
		return nil, fmt.Errorf("tts: provider status %d", resp.StatusCode)
	}
	return raw, nil
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

func (e *ElevenLabs) Voices(ctx context.Context) ([]Voice, error) {
	if e.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts: provider status %d", resp.StatusCode)
	}
	var out voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tts: decode response: %w", err)
	}
	return out.Voices, nil
}
