package tts

import (
	"context"
	"sync"
)

// SynthCall records one synthesis invocation, for assertions.
type SynthCall struct {
	Text    string
	VoiceID string
}

// Mock is an in-memory Synthesizer for tests. It returns a fixed audio
// payload and records every call. Set Err to force the failure path.
type Mock struct {
	mu     sync.Mutex
	Audio  []byte
	List   []Voice
	Err    error
	synths []SynthCall
}

func NewMock() *Mock {
	return &Mock{
		Audio: []byte("mock-audio-bytes"),
		List: []Voice{
			{ID: DefaultVoiceID, Name: "Adam", Category: "premade"},
			{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Category: "premade"},
		},
	}
}

func (m *Mock) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	m.synths = append(m.synths, SynthCall{Text: text, VoiceID: voiceID})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Audio, nil
}

func (m *Mock) Voices(_ context.Context) ([]Voice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}

// Synths returns a copy of the recorded synthesis calls.
func (m *Mock) Synths() []SynthCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SynthCall, len(m.synths))
	copy(out, m.synths)
	return out
}
