// Package translate wraps a pluggable machine-translation provider.
package translate

import (
	"context"
	"errors"
)

// ErrNotConfigured means the provider credentials are absent. Gateways
// fail fast with it before any network I/O, so callers can tell a missing
// configuration from an upstream failure.
var ErrNotConfigured = errors.New("translate: provider not configured")

// Translator converts text between languages. Language arguments are
// primary subtags ("en", "tr"), never full BCP-47 tags.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, from, to string) (string, error)

func (f Func) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}
