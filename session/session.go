// Package session holds the per-session state: the running transcript, the
// latest translation, the selected target language, and the append-only
// translation history. One State instance lives exactly as long as the
// process; nothing is persisted.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"lingua/translator"
)

// Record is an immutable snapshot of one completed translation.
type Record struct {
	ID         string `json:"id"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Language   string `json:"language"`
}

// State is safe for concurrent use; the browser shell hits it from multiple
// request goroutines.
type State struct {
	mu         sync.Mutex
	recognized string
	translated string
	target     string
	history    []Record
}

func New() *State {
	return &State{target: DefaultLanguage}
}

func (s *State) Recognized() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recognized
}

// SetRecognized replaces the transcript wholesale: the capture loop writes
// the running transcript here after every utterance, and the user may edit
// it freely between captures.
func (s *State) SetRecognized(text string) {
	s.mu.Lock()
	s.recognized = text
	s.mu.Unlock()
}

func (s *State) Translated() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.translated
}

func (s *State) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// SetTarget selects the translation target. Codes outside the fixed language
// set are rejected.
func (s *State) SetTarget(code string) error {
	if !Supported(code) {
		return fmt.Errorf("unsupported language code %q", code)
	}
	s.mu.Lock()
	s.target = code
	s.mu.Unlock()
	return nil
}

// History returns a copy; the underlying slice only ever grows.
func (s *State) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Translate runs one translation step against the current transcript. On
// success it updates the current translation and appends exactly one history
// record. On any failure the state is left untouched: no partial update, no
// history entry.
func (s *State) Translate(ctx context.Context, tr translator.Translator) (string, error) {
	text := s.Recognized()
	if strings.TrimSpace(text) == "" {
		return "", translator.ErrEmptyInput
	}

	target := s.Target()
	out, err := tr.Translate(ctx, text, target)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.translated = out
	s.history = append(s.history, Record{
		ID:         uuid.NewString(),
		Original:   text,
		Translated: out,
		Language:   target,
	})
	s.mu.Unlock()
	return out, nil
}
