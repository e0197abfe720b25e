// Package protocol defines the typed websocket events exchanged with clients.
// Every frame is a JSON object with a "type" discriminator.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/ekinok/lingoroom/internal/domain"
)

// Client -> server event types.
const (
	EvtJoinRoom    = "join-room"
	EvtSpeechInput = "speech-input"
	EvtTTSForMe    = "generate-tts-for-me"
	EvtGetVoices   = "get-voices"
	EvtPing        = "ping"
)

// Server -> client event types.
const (
	EvtUserJoined        = "user-joined"
	EvtUserLeft          = "user-left"
	EvtTranslatedMessage = "translated-message"
	EvtGenerateTTS       = "generate-tts"
	EvtTTSAudio          = "tts-audio"
	EvtTTSError          = "tts-error"
	EvtTranslationError  = "translation-error"
	EvtVoicesList        = "voices-list"
	EvtVoicesError       = "voices-error"
	EvtRoomState         = "room-state"
	EvtPong              = "pong"
	EvtError             = "error"
)

// Envelope carries only the discriminator, for dispatch before full decode.
type Envelope struct {
	Type string `json:"type"`
}

type JoinRoom struct {
	Type          string `json:"type"`
	Room          string `json:"room"`
	ParticipantID string `json:"participantId"`
	Language      string `json:"language"`
	Voice         string `json:"voicePreference,omitempty"`
}

type SpeechInput struct {
	Type         string `json:"type"`
	Text         string `json:"text"`
	FromLanguage string `json:"fromLanguage"`
	ToLanguage   string `json:"toLanguage"`
}

type TTSRequest struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

type UserJoined struct {
	Type          string               `json:"type"`
	ParticipantID domain.ParticipantID `json:"participantId"`
	Language      string               `json:"language"`
}

type UserLeft struct {
	Type          string               `json:"type"`
	ParticipantID domain.ParticipantID `json:"participantId"`
}

// TranslatedMessage carries the full untruncated language tags even though
// the translation gateway only ever sees the primary subtags.
type TranslatedMessage struct {
	Type           string               `json:"type"`
	OriginalText   string               `json:"originalText"`
	TranslatedText string               `json:"translatedText"`
	FromLanguage   string               `json:"fromLanguage"`
	ToLanguage     string               `json:"toLanguage"`
	FromUserID     domain.ParticipantID `json:"fromUserId"`
	Timestamp      time.Time            `json:"timestamp"`
	// AudioBuffer is set only in server-side synthesis mode.
	// encoding/json transports it base64-encoded.
	AudioBuffer []byte `json:"audioBuffer,omitempty"`
}

// GenerateTTS instructs each recipient to synthesize the translated text
// with its own locally preferred voice (client-side synthesis mode).
type GenerateTTS struct {
	Type           string               `json:"type"`
	TranslatedText string               `json:"translatedText"`
	FromUserID     domain.ParticipantID `json:"fromUserId"`
	Timestamp      time.Time            `json:"timestamp"`
}

type TTSAudio struct {
	Type           string `json:"type"`
	AudioBuffer    []byte `json:"audioBuffer"`
	TranslatedText string `json:"translatedText"`
}

type TranslationError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Voice struct {
	ID       string `json:"voiceId"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type VoicesList struct {
	Type   string  `json:"type"`
	Voices []Voice `json:"voices"`
}

type VoicesError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type TTSError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type Member struct {
	ParticipantID domain.ParticipantID `json:"participantId"`
	Language      string               `json:"language"`
}

// RoomState acknowledges a join with the current member snapshot.
type RoomState struct {
	Type    string          `json:"type"`
	Room    domain.RoomName `json:"room"`
	Members []Member        `json:"members"`
	Count   int             `json:"count"`
}

type Pong struct {
	Type string `json:"type"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
