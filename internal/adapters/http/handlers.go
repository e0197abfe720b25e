// Package http is the REST adapter: the request/response twins of the
// websocket pipeline, for clients that do not hold a live connection.
package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/domain"
	"github.com/ekinok/lingoroom/internal/gateway/translate"
	"github.com/ekinok/lingoroom/internal/gateway/tts"
)

type API struct {
	Translator translate.Translator
	Synth      tts.Synthesizer
}

type translateRequest struct {
	Text         string `json:"text"`
	FromLanguage string `json:"fromLanguage"`
	ToLanguage   string `json:"toLanguage"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (a *API) HandleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid text"})
		return
	}

	translated, err := a.Translator.Translate(c.Request.Context(), req.Text,
		domain.PrimarySubtag(req.FromLanguage), domain.PrimarySubtag(req.ToLanguage))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, translate.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		log.Warn().Err(err).Str("module", "adapters.http").Msg("translate failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, translateResponse{TranslatedText: translated})
}

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

type ttsResponse struct {
	AudioBuffer string `json:"audioBuffer"`
}

func (a *API) HandleTTS(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid text"})
		return
	}

	audio, err := a.Synth.Synthesize(c.Request.Context(), req.Text, req.VoiceID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tts.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		log.Warn().Err(err).Str("module", "adapters.http").Msg("tts failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ttsResponse{AudioBuffer: base64.StdEncoding.EncodeToString(audio)})
}

func (a *API) HandleVoices(c *gin.Context) {
	voices, err := a.Synth.Voices(c.Request.Context())
	if err != nil {
		if errors.Is(err, tts.ErrNotConfigured) {
			// No credentials is not an error for listing: empty catalogue.
			c.JSON(http.StatusOK, gin.H{"voices": []tts.Voice{}})
			return
		}
		log.Warn().Err(err).Str("module", "adapters.http").Msg("voices failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}
