// Package translator wraps the translation service collaborator. Source
// language is always auto-detected; only the target code varies.
package translator

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput means translation was requested with nothing to
	// translate; no service call is made.
	ErrEmptyInput = errors.New("no text to translate")

	// ErrService wraps any failure from the translation service itself.
	ErrService = errors.New("translation service error")
)

type Translator interface {
	Name() string
	Translate(ctx context.Context, text, target string) (string, error)
}
