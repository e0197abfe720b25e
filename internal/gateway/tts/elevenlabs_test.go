package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElevenLabsSynthesize(t *testing.T) {
	audio := []byte("mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		require.Equal(t, "mp3_22050_32", r.URL.Query().Get("output_format"))
		require.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "merhaba", req.Text)
		require.Equal(t, "eleven_turbo_v2", req.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer srv.Close()

	e := NewElevenLabs("test-key", WithBaseURL(srv.URL))
	out, err := e.Synthesize(context.Background(), "merhaba", "voice-1")
	require.NoError(t, err)
	require.Equal(t, audio, out)
}

func TestElevenLabsDefaultVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/text-to-speech/"+DefaultVoiceID, r.URL.Path)
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	e := NewElevenLabs("test-key", WithBaseURL(srv.URL))
	_, err := e.Synthesize(context.Background(), "merhaba", "")
	require.NoError(t, err)
}

func TestElevenLabsNotConfigured(t *testing.T) {
	e := NewElevenLabs("")
	_, err := e.Synthesize(context.Background(), "merhaba", "voice-1")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = e.Voices(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestElevenLabsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	e := NewElevenLabs("bad-key", WithBaseURL(srv.URL))
	_, err := e.Synthesize(context.Background(), "merhaba", "voice-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestElevenLabsVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/voices", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		_, _ = w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Adam"},{"voice_id":"v2","name":"Bella"}]}`))
	}))
	defer srv.Close()

	e := NewElevenLabs("test-key", WithBaseURL(srv.URL))
	voices, err := e.Voices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 2)
	require.Equal(t, "Adam", voices[0].Name)
}
