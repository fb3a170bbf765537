package session

import (
	"context"
	"errors"
	"testing"

	"lingua/translator"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.Target() != "ur" {
		t.Errorf("Target = %q, want ur", s.Target())
	}
	if s.Recognized() != "" || s.Translated() != "" {
		t.Error("fresh session should have empty texts")
	}
	if s.HistoryLen() != 0 {
		t.Error("fresh session should have empty history")
	}
}

func TestSetTarget(t *testing.T) {
	s := New()
	if err := s.SetTarget("fr"); err != nil {
		t.Fatalf("SetTarget(fr): %v", err)
	}
	if s.Target() != "fr" {
		t.Errorf("Target = %q, want fr", s.Target())
	}
	if err := s.SetTarget("xx"); err == nil {
		t.Error("SetTarget(xx) should fail")
	}
	if s.Target() != "fr" {
		t.Error("failed SetTarget must not change the target")
	}
}

func TestTranslateSuccess(t *testing.T) {
	s := New()
	s.SetRecognized("hello world")
	s.SetTarget("fr")
	tr := translator.NewFake(map[string]string{"hello world": "bonjour le monde"}, nil)

	out, err := s.Translate(context.Background(), tr)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "bonjour le monde" {
		t.Errorf("got %q", out)
	}
	if s.Translated() != out {
		t.Error("Translated must mirror the latest successful translation")
	}

	h := s.History()
	if len(h) != 1 {
		t.Fatalf("history length = %d, want 1", len(h))
	}
	rec := h[0]
	if rec.Original != "hello world" || rec.Translated != "bonjour le monde" || rec.Language != "fr" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ID == "" {
		t.Error("record should carry an ID")
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	s := New()
	tr := translator.NewFake(nil, nil)

	for _, text := range []string{"", "   "} {
		s.SetRecognized(text)
		_, err := s.Translate(context.Background(), tr)
		if !errors.Is(err, translator.ErrEmptyInput) {
			t.Errorf("Translate with %q: err = %v, want ErrEmptyInput", text, err)
		}
	}
	if tr.Calls() != 0 {
		t.Error("empty input must not reach the service")
	}
	if s.HistoryLen() != 0 {
		t.Error("empty input must not append history")
	}
}

func TestTranslateServiceFailureLeavesStateUnchanged(t *testing.T) {
	s := New()
	s.SetRecognized("first")
	good := translator.NewFake(map[string]string{"first": "erste"}, nil)
	if _, err := s.Translate(context.Background(), good); err != nil {
		t.Fatalf("seed translate: %v", err)
	}

	s.SetRecognized("second")
	bad := translator.NewFake(nil, translator.ErrService)
	_, err := s.Translate(context.Background(), bad)
	if !errors.Is(err, translator.ErrService) {
		t.Fatalf("err = %v, want ErrService", err)
	}

	if s.Translated() != "erste" {
		t.Error("failed translate must not touch the current translation")
	}
	if s.HistoryLen() != 1 {
		t.Error("failed translate must not append history")
	}
}

func TestHistoryAppendOnly(t *testing.T) {
	s := New()
	tr := translator.NewFake(nil, nil)

	texts := []string{"one", "two", "three"}
	prevLen := 0
	for _, text := range texts {
		s.SetRecognized(text)
		if _, err := s.Translate(context.Background(), tr); err != nil {
			t.Fatalf("Translate(%q): %v", text, err)
		}
		if s.HistoryLen() != prevLen+1 {
			t.Fatalf("history length = %d after %q, want %d", s.HistoryLen(), text, prevLen+1)
		}
		prevLen = s.HistoryLen()
	}

	h := s.History()
	for i, text := range texts {
		if h[i].Original != text {
			t.Errorf("history[%d].Original = %q, want %q (insertion order)", i, h[i].Original, text)
		}
	}

	// Mutating the returned copy must not reach the session.
	h[0].Original = "tampered"
	if s.History()[0].Original != "one" {
		t.Error("History must return a copy")
	}
}

func TestLanguageName(t *testing.T) {
	for _, tt := range []struct{ code, want string }{
		{"fr", "French"},
		{"ur", "Urdu"},
		{"xx", "xx"}, // unknown code falls back to itself
	} {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLanguagesFixedSet(t *testing.T) {
	langs := Languages()
	if len(langs) != 6 {
		t.Fatalf("len = %d, want 6", len(langs))
	}
	for _, code := range []string{"fr", "es", "de", "ur", "hi", "ar"} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false", code)
		}
	}
	if Supported("en") {
		t.Error("en is not on the selection surface")
	}

	// Callers must not be able to mutate the option table.
	langs[0].Code = "zz"
	if Languages()[0].Code != "fr" {
		t.Error("Languages must return a copy")
	}
}
