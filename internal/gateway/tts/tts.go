// Package tts wraps a pluggable speech-synthesis provider.
package tts

import (
	"context"
	"errors"
)

// ErrNotConfigured means the provider credentials are absent. Calls fail
// fast with it before any network I/O.
var ErrNotConfigured = errors.New("tts: provider not configured")

// DefaultVoiceID is used when a request carries no voice preference.
const DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"

// Voice describes one selectable synthesis voice.
type Voice struct {
	ID       string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize returns encoded audio bytes for the given text and voice.
	// An empty voiceID selects the provider default.
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)

	// Voices returns the selectable voice descriptors.
	Voices(ctx context.Context) ([]Voice, error)
}
