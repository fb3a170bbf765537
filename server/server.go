// Package server exposes the session over HTTP for the browser shell: state
// and language endpoints, capture control with a live SSE transcript stream,
// the translate step, and document downloads.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"lingua/capture"
	"lingua/log"
	"lingua/recognizer"
	"lingua/session"
	"lingua/translator"
)

// event is one SSE message on /api/capture/stream.
type event struct {
	Type       string `json:"type"` // update, warning, done
	Transcript string `json:"transcript"`
	Warning    string `json:"warning,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Options struct {
	State      *session.State
	Recognizer recognizer.Recognizer
	Translator translator.Translator

	// NewSource builds the audio source for each capture run. Injected so the
	// shell decides between a real microphone and a scripted source.
	NewSource func() (capture.Source, error)

	StopPhrase string // empty = capture.DefaultStopPhrase
}

type Server struct {
	st         *session.State
	rec        recognizer.Recognizer
	tr         translator.Translator
	newSource  func() (capture.Source, error)
	stopPhrase string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	subMu sync.Mutex
	subs  map[chan event]struct{}
}

func New(opts Options) *Server {
	return &Server{
		st:         opts.State,
		rec:        opts.Recognizer,
		tr:         opts.Translator,
		newSource:  opts.NewSource,
		stopPhrase: opts.StopPhrase,
		subs:       make(map[chan event]struct{}),
	}
}

// Serve blocks until ctx is cancelled, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Infof("listening on http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.stopCaptureLocked()

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// startCapture spins up one capture run. Only one run may be live at a time.
func (s *Server) startCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errCaptureRunning
	}

	src, err := s.newSource()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := capture.NewLoop(s.rec, capture.Options{StopPhrase: s.stopPhrase})

	s.running = true
	s.cancel = cancel

	go func() {
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			for u := range loop.Updates() {
				s.st.SetRecognized(u.Transcript)
				ev := event{Type: "update", Transcript: u.Transcript}
				if u.Warning != "" {
					ev.Type = "warning"
					ev.Warning = u.Warning
				}
				s.broadcast(ev)
			}
		}()

		text, err := loop.Run(ctx, src)
		<-drained
		cancel()

		s.st.SetRecognized(text)
		ev := event{Type: "done", Transcript: text}
		if err != nil && !errors.Is(err, context.Canceled) {
			ev.Error = err.Error()
		}

		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()

		s.broadcast(ev)
	}()
	return nil
}

var errCaptureRunning = errors.New("capture already running")

func (s *Server) stopCaptureLocked() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

func (s *Server) captureRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) subscribe() chan event {
	ch := make(chan event, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan event) {
	s.subMu.Lock()
	delete(s.subs, ch)
	s.subMu.Unlock()
}

// broadcast never blocks; a subscriber that falls 16 events behind misses
// the overflow.
func (s *Server) broadcast(ev event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
