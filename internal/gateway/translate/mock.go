package translate

import (
	"context"
	"strings"
	"sync"
)

type phrase struct {
	text string
	from string
	to   string
}

// Call records one gateway invocation, for assertions.
type Call struct {
	Text string
	From string
	To   string
}

// Static is a deterministic table-backed Translator for tests and for
// running the server without provider credentials. A miss returns the
// original text prefixed with the target language so failure to translate
// is never disguised as a translation.
type Static struct {
	mu    sync.Mutex
	rules map[phrase]string
	calls []Call
}

// NewStatic seeds a small en<->tr phrase table.
func NewStatic() *Static {
	s := &Static{rules: make(map[phrase]string)}
	pairs := map[string]string{
		"hello":        "merhaba",
		"how are you":  "nasılsın",
		"good morning": "günaydın",
		"thank you":    "teşekkür ederim",
		"yes":          "evet",
		"no":           "hayır",
	}
	for en, tr := range pairs {
		s.Add(en, "en", "tr", tr)
		s.Add(tr, "tr", "en", en)
	}
	return s
}

func (s *Static) Add(text, from, to, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[phrase{text: strings.ToLower(text), from: from, to: to}] = result
}

func (s *Static) Translate(_ context.Context, text, from, to string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Text: text, From: from, To: to})
	if result, ok := s.rules[phrase{text: strings.ToLower(text), from: from, to: to}]; ok {
		return result, nil
	}
	return "[" + to + "] " + text, nil
}

// Calls returns a copy of the recorded invocations.
func (s *Static) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}
