package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ekinok/lingoroom/internal/core"
	"github.com/ekinok/lingoroom/internal/domain"
	"github.com/ekinok/lingoroom/internal/gateway/translate"
	"github.com/ekinok/lingoroom/internal/gateway/tts"
	"github.com/ekinok/lingoroom/internal/protocol"
)

// TTSMode selects the audio fan-out strategy. Both modes run the same
// relay; the choice is deployment configuration, not a code fork.
type TTSMode string

const (
	// TTSModeClient broadcasts text unblocked, then a generate-tts
	// instruction so each client synthesizes with its own voice.
	TTSModeClient TTSMode = "client"
	// TTSModeServer synthesizes once with the sender's voice and attaches
	// the shared audio to the broadcast.
	TTSModeServer TTSMode = "server"
)

// Per-utterance pipeline states, logged at each transition.
const (
	stateReceived        = "received"
	stateTranslating     = "translating"
	stateTranslated      = "translated"
	stateTranslateFailed = "translate-failed"
	stateBroadcasting    = "broadcasting-text"
	stateTTSDispatch     = "tts-dispatch"
	stateDone            = "done"
)

// RelayEngine orchestrates an utterance: translate, fan the result out to
// the rest of the room, dispatch audio per the configured strategy.
// Gateway calls happen outside any registry lock; membership is
// re-enumerated at broadcast time, so a disconnect during a provider call
// just shrinks the target set (best-effort, no cancellation of in-flight
// provider I/O).
type RelayEngine struct {
	Sessions   *SessionManager
	Rooms      *RoomRegistry
	Translator translate.Translator
	Synth      tts.Synthesizer
	Policy     Policy
	Mode       TTSMode
}

func NewRelayEngine(sessions *SessionManager, rooms *RoomRegistry, tr translate.Translator, sy tts.Synthesizer, mode TTSMode) *RelayEngine {
	return &RelayEngine{
		Sessions:   sessions,
		Rooms:      rooms,
		Translator: tr,
		Synth:      sy,
		Policy:     SimplePolicy{},
		Mode:       mode,
	}
}

// OnSpeechInput runs one utterance through the pipeline. Blocking: callers
// run it on their own goroutine so other connections interleave while the
// gateways are in flight.
func (e *RelayEngine) OnSpeechInput(ctx context.Context, sid core.SessionID, in protocol.SpeechInput) {
	view, ok := e.Sessions.View(sid)
	if !ok || view.Room == "" || view.Participant == "" {
		log.Warn().Str("module", "app.relay").Str("sid", string(sid)).Msg("speech-input from session without a room")
		if ok {
			e.sendEvent(view.Conn, protocol.ErrorEvent{Type: protocol.EvtError, Error: "join a room first"})
		}
		return
	}

	utt := domain.Utterance{
		Text:         in.Text,
		FromLanguage: in.FromLanguage,
		ToLanguage:   in.ToLanguage,
		Room:         view.Room,
		From:         view.Participant,
	}

	logger := log.With().
		Str("module", "app.relay").
		Str("room", string(utt.Room)).
		Str("participant", string(utt.From)).
		Logger()
	logger.Debug().Str("state", stateReceived).Str("from", utt.FromLanguage).Str("to", utt.ToLanguage).Msg("utterance")

	logger.Debug().Str("state", stateTranslating).Msg("utterance")
	translated, err := e.Translator.Translate(ctx, utt.Text,
		domain.PrimarySubtag(utt.FromLanguage), domain.PrimarySubtag(utt.ToLanguage))
	if err != nil {
		// Error goes to the sender only; the room never sees a failed
		// utterance dressed up as content.
		logger.Warn().Err(err).Str("state", stateTranslateFailed).Msg("utterance")
		e.sendEvent(view.Conn, protocol.TranslationError{
			Type:    protocol.EvtTranslationError,
			Message: "Translation failed",
			Error:   err.Error(),
		})
		return
	}
	logger.Debug().Str("state", stateTranslated).Msg("utterance")

	now := time.Now().UTC()
	msg := protocol.TranslatedMessage{
		Type:           protocol.EvtTranslatedMessage,
		OriginalText:   in.Text,
		TranslatedText: translated,
		FromLanguage:   in.FromLanguage,
		ToLanguage:     in.ToLanguage,
		FromUserID:     view.Participant,
		Timestamp:      now,
	}

	if e.Mode == TTSModeServer && e.Synth != nil {
		audio, synthErr := e.Synth.Synthesize(ctx, translated, view.Voice)
		if synthErr != nil {
			// Text still goes out; only the shared audio is lost.
			logger.Warn().Err(synthErr).Msg("server-side synthesis failed, broadcasting text only")
		} else {
			msg.AudioBuffer = audio
		}
	}

	logger.Debug().Str("state", stateBroadcasting).Msg("utterance")
	frame, err := protocol.Encode(msg)
	if err != nil {
		logger.Error().Err(err).Msg("encode translated-message")
		return
	}
	res := e.Rooms.Broadcast(view.Room, view.Participant, frame)
	e.handleDropped(view.Room, res)

	if e.Mode == TTSModeClient {
		logger.Debug().Str("state", stateTTSDispatch).Msg("utterance")
		instr, err := protocol.Encode(protocol.GenerateTTS{
			Type:           protocol.EvtGenerateTTS,
			TranslatedText: translated,
			FromUserID:     view.Participant,
			Timestamp:      now,
		})
		if err != nil {
			logger.Error().Err(err).Msg("encode generate-tts")
			return
		}
		res = e.Rooms.Broadcast(view.Room, view.Participant, instr)
		e.handleDropped(view.Room, res)
	}
	logger.Debug().Str("state", stateDone).Int("sent_to", res.SentTo).Msg("utterance")
}

// OnTTSRequest serves on-demand synthesis for arbitrary text/voice pairs,
// outside the room-broadcast path. The result goes to the requester only.
func (e *RelayEngine) OnTTSRequest(ctx context.Context, sid core.SessionID, in protocol.TTSRequest) {
	view, ok := e.Sessions.View(sid)
	if !ok {
		return
	}
	if e.Synth == nil {
		e.sendEvent(view.Conn, protocol.TTSError{Type: protocol.EvtTTSError, Error: tts.ErrNotConfigured.Error()})
		return
	}
	voice := in.VoiceID
	if voice == "" {
		voice = view.Voice
	}
	audio, err := e.Synth.Synthesize(ctx, in.Text, voice)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("sid", string(sid)).Msg("on-demand synthesis failed")
		e.sendEvent(view.Conn, protocol.TTSError{Type: protocol.EvtTTSError, Error: err.Error()})
		return
	}
	e.sendEvent(view.Conn, protocol.TTSAudio{
		Type:           protocol.EvtTTSAudio,
		AudioBuffer:    audio,
		TranslatedText: in.Text,
	})
}

// OnGetVoices returns the synthesizer's voice catalogue to the requester.
func (e *RelayEngine) OnGetVoices(ctx context.Context, sid core.SessionID) {
	view, ok := e.Sessions.View(sid)
	if !ok {
		return
	}
	if e.Synth == nil {
		e.sendEvent(view.Conn, protocol.VoicesError{Type: protocol.EvtVoicesError, Error: tts.ErrNotConfigured.Error()})
		return
	}
	voices, err := e.Synth.Voices(ctx)
	if err != nil {
		e.sendEvent(view.Conn, protocol.VoicesError{Type: protocol.EvtVoicesError, Error: err.Error()})
		return
	}
	out := make([]protocol.Voice, 0, len(voices))
	for _, v := range voices {
		out = append(out, protocol.Voice{ID: v.ID, Name: v.Name, Category: v.Category})
	}
	e.sendEvent(view.Conn, protocol.VoicesList{Type: protocol.EvtVoicesList, Voices: out})
}

func (e *RelayEngine) handleDropped(room domain.RoomName, res core.PublishResult) {
	if e.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch e.Policy.OnBackPressure(slow) {
		case KickMember:
			e.Sessions.EvictFromRoom(room, slow.Meta().Participant)
		case MarkSlow, DropFrame, NoAction:
		}
	}
}

func (e *RelayEngine) sendEvent(conn core.SignalConnection, v any) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode event")
		return
	}
	if err := conn.TrySend(frame); err != nil && !errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Str("module", "app.relay").Msg("send event")
	}
}
