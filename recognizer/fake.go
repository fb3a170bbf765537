package recognizer

import (
	"context"
	"sync"
)

// FakeResult scripts one Recognize call of a Fake.
type FakeResult struct {
	Text string
	Err  error
}

// Fake replays a scripted sequence of recognition results, one per call.
// Calls past the end of the script return ErrUnintelligible.
type Fake struct {
	mu     sync.Mutex
	script []FakeResult
	next   int
	lang   string
}

func NewFake(script ...FakeResult) *Fake {
	return &Fake{script: script, lang: "en-US"}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) SetLanguage(lang string) { f.lang = lang }

func (f *Fake) GetLanguage() string { return f.lang }

func (f *Fake) Recognize(_ context.Context, _ []byte) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.script) {
		return Result{}, ErrUnintelligible
	}
	r := f.script[f.next]
	f.next++
	if r.Err != nil {
		return Result{}, r.Err
	}
	return Result{Text: r.Text, Confidence: 0.9}, nil
}

// Calls reports how many scripted results have been consumed.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}
