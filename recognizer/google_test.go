package recognizer

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPCM() []byte {
	pcm := make([]byte, 3200)
	for i := 0; i < len(pcm)/2; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(i%500))
	}
	return pcm
}

func googleOn(t *testing.T, handler http.HandlerFunc) *Google {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGoogle("test-key")
	g.apiURL = srv.URL
	return g
}

func TestGoogleRecognize(t *testing.T) {
	var gotContentType string
	g := googleOn(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"result":[]}
{"result":[{"alternative":[{"transcript":"hello world","confidence":0.92}],"final":true}],"result_index":0}
`))
	})

	res, err := g.Recognize(context.Background(), testPCM())
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Text != "hello world" {
		t.Errorf("Text = %q, want %q", res.Text, "hello world")
	}
	if res.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", res.Confidence)
	}
	if gotContentType != "audio/x-flac; rate=16000" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if res.Metrics == nil || res.Metrics.Total <= 0 {
		t.Error("expected network metrics")
	}
}

func TestGoogleRecognizeUnintelligible(t *testing.T) {
	g := googleOn(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{\"result\":[]}\n"))
	})

	_, err := g.Recognize(context.Background(), testPCM())
	if !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("err = %v, want ErrUnintelligible", err)
	}
}

func TestGoogleRecognizeHTTPError(t *testing.T) {
	g := googleOn(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := g.Recognize(context.Background(), testPCM())
	if !errors.Is(err, ErrServiceUnreachable) {
		t.Fatalf("err = %v, want ErrServiceUnreachable", err)
	}
}

func TestGoogleRecognizeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	g := NewGoogle("test-key")
	g.apiURL = srv.URL

	_, err := g.Recognize(context.Background(), testPCM())
	if !errors.Is(err, ErrServiceUnreachable) {
		t.Fatalf("err = %v, want ErrServiceUnreachable", err)
	}
}

func TestFakeScript(t *testing.T) {
	f := NewFake(
		FakeResult{Text: "one"},
		FakeResult{Err: ErrUnintelligible},
		FakeResult{Text: "two"},
	)

	res, err := f.Recognize(context.Background(), nil)
	if err != nil || res.Text != "one" {
		t.Fatalf("call 1: %q, %v", res.Text, err)
	}
	if _, err := f.Recognize(context.Background(), nil); !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("call 2: want ErrUnintelligible, got %v", err)
	}
	res, err = f.Recognize(context.Background(), nil)
	if err != nil || res.Text != "two" {
		t.Fatalf("call 3: %q, %v", res.Text, err)
	}
	// Past the script's end.
	if _, err := f.Recognize(context.Background(), nil); !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("call 4: want ErrUnintelligible, got %v", err)
	}
	if f.Calls() != 3 {
		t.Errorf("Calls = %d, want 3", f.Calls())
	}
}
