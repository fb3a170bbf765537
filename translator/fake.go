package translator

import (
	"context"
	"strings"
	"sync"
)

// Fake translates by table lookup, or fails with a fixed error.
type Fake struct {
	mu     sync.Mutex
	byText map[string]string
	err    error
	calls  int
}

func NewFake(byText map[string]string, err error) *Fake {
	return &Fake{byText: byText, err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Translate(_ context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if out, ok := f.byText[text]; ok {
		return out, nil
	}
	return "[" + target + "] " + text, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
