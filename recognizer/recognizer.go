package recognizer

import (
	"context"
	"errors"
	"os"
	"time"
)

// Errors a capture loop discriminates on. ErrUnintelligible skips the
// utterance; anything wrapping ErrServiceUnreachable ends the loop.
var (
	ErrUnintelligible     = errors.New("could not understand audio")
	ErrServiceUnreachable = errors.New("recognition service unreachable")
)

type NetworkMetrics struct {
	DNS        time.Duration
	TLS        time.Duration
	TTFB       time.Duration
	Download   time.Duration
	Total      time.Duration
	ConnReused bool
}

type Result struct {
	Text       string
	Confidence float64
	Metrics    *NetworkMetrics
}

// Recognizer converts one bounded utterance of PCM16 audio into text.
type Recognizer interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	Recognize(ctx context.Context, pcm []byte) (Result, error)
}

// New returns the default recognizer. GOOGLE_SPEECH_API_KEY overrides the
// built-in key.
func New() Recognizer {
	return NewGoogle(os.Getenv("GOOGLE_SPEECH_API_KEY"))
}
