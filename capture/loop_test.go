package capture

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lingua/recognizer"
)

type fakeSource struct {
	ch      chan []byte
	stopped bool
}

func newFakeSource(utterances int) *fakeSource {
	ch := make(chan []byte, utterances)
	for i := 0; i < utterances; i++ {
		ch <- []byte{0, 0} // content is irrelevant to a fake recognizer
	}
	return &fakeSource{ch: ch}
}

func (f *fakeSource) Start() error              { return nil }
func (f *fakeSource) Stop()                     { f.stopped = true }
func (f *fakeSource) Utterances() <-chan []byte { return f.ch }

func collectUpdates(l *Loop) <-chan []Update {
	out := make(chan []Update, 1)
	go func() {
		var got []Update
		for u := range l.Updates() {
			got = append(got, u)
		}
		out <- got
	}()
	return out
}

func TestLoopAccumulatesAndStops(t *testing.T) {
	rec := recognizer.NewFake(
		recognizer.FakeResult{Text: "turn on"},
		recognizer.FakeResult{Text: "the lights"},
		recognizer.FakeResult{Text: "stop recording now"},
	)
	l := NewLoop(rec, Options{})
	updates := collectUpdates(l)

	transcript, err := l.Run(context.Background(), newFakeSource(3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if transcript != "turn on the lights" {
		t.Errorf("transcript = %q, want %q", transcript, "turn on the lights")
	}

	got := <-updates
	want := []string{"turn on", "turn on the lights"}
	if len(got) != len(want) {
		t.Fatalf("got %d updates, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Transcript != w || got[i].Warning != "" {
			t.Errorf("update %d = %+v, want transcript %q", i, got[i], w)
		}
	}
	if rec.Calls() != 3 {
		t.Errorf("recognizer calls = %d, want 3", rec.Calls())
	}
}

func TestLoopStopPhraseCaseInsensitive(t *testing.T) {
	rec := recognizer.NewFake(
		recognizer.FakeResult{Text: "hello"},
		recognizer.FakeResult{Text: "please STOP Recording"},
	)
	l := NewLoop(rec, Options{})
	go func() {
		for range l.Updates() {
		}
	}()

	transcript, err := l.Run(context.Background(), newFakeSource(2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if transcript != "hello" {
		t.Errorf("transcript = %q, want %q (stop utterance excluded)", transcript, "hello")
	}
}

func TestLoopSkipsUnintelligible(t *testing.T) {
	rec := recognizer.NewFake(
		recognizer.FakeResult{Text: "first"},
		recognizer.FakeResult{Err: recognizer.ErrUnintelligible},
		recognizer.FakeResult{Text: "second"},
		recognizer.FakeResult{Text: "stop recording"},
	)
	l := NewLoop(rec, Options{})
	updates := collectUpdates(l)

	transcript, err := l.Run(context.Background(), newFakeSource(4))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if transcript != "first second" {
		t.Errorf("transcript = %q, want %q", transcript, "first second")
	}

	var warnings int
	for _, u := range <-updates {
		if u.Warning != "" {
			warnings++
			if u.Transcript != "first" {
				t.Errorf("warning update carried transcript %q, want %q", u.Transcript, "first")
			}
		}
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}
}

func TestLoopServiceUnreachableEndsLoop(t *testing.T) {
	unreachable := fmt.Errorf("%w: connection refused", recognizer.ErrServiceUnreachable)
	rec := recognizer.NewFake(
		recognizer.FakeResult{Text: "partial progress"},
		recognizer.FakeResult{Err: unreachable},
	)
	l := NewLoop(rec, Options{})
	go func() {
		for range l.Updates() {
		}
	}()

	src := newFakeSource(2)
	transcript, err := l.Run(context.Background(), src)
	if !errors.Is(err, recognizer.ErrServiceUnreachable) {
		t.Fatalf("err = %v, want ErrServiceUnreachable", err)
	}
	if transcript != "partial progress" {
		t.Errorf("transcript = %q; accumulated text must survive the error", transcript)
	}
	if !src.stopped {
		t.Error("source must be stopped when the loop ends")
	}
}

func TestLoopCancel(t *testing.T) {
	rec := recognizer.NewFake(recognizer.FakeResult{Text: "so far"})
	l := NewLoop(rec, Options{})
	go func() {
		for range l.Updates() {
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	src := newFakeSource(1)

	done := make(chan struct{})
	var transcript string
	var err error
	go func() {
		transcript, err = l.Run(ctx, src)
		close(done)
	}()

	// Let the single utterance be processed, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if transcript != "so far" {
		t.Errorf("transcript = %q; partial transcript must survive cancellation", transcript)
	}
}

func TestSegmenterCalibration(t *testing.T) {
	seg, err := newSegmenter()
	if err != nil {
		t.Skipf("webrtcvad unavailable: %v", err)
	}

	quiet := make([]byte, frameBytes*calibrationFrames)
	seg.Process(quiet)

	seg.mu.Lock()
	defer seg.mu.Unlock()
	if !seg.calibrated {
		t.Fatal("expected calibration to complete after the calibration window")
	}
	if seg.threshold < energyFloor {
		t.Errorf("threshold = %v, must not drop below the floor %v", seg.threshold, energyFloor)
	}
}

func TestRMS(t *testing.T) {
	silent := make([]byte, frameBytes)
	if got := rms(silent); got != 0 {
		t.Errorf("rms(silence) = %v, want 0", got)
	}

	loud := make([]byte, frameBytes)
	for i := 0; i+1 < len(loud); i += 2 {
		loud[i] = 0x00
		loud[i+1] = 0x40 // 16384 -> 0.5 normalized
	}
	got := rms(loud)
	if got < 0.49 || got > 0.51 {
		t.Errorf("rms(half-scale) = %v, want ~0.5", got)
	}
}
