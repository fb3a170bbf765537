package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("LINGUA_LOG_PATH", "/tmp/lingua-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/lingua-env-log" {
		t.Errorf("got %q, want /tmp/lingua-env-log", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Info("hello from test")
	RecognizedUtterance("turn on the lights", 0.9, nil)
	Close()

	diag, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatalf("reading diagnostics log: %v", err)
	}
	if !strings.Contains(string(diag), "hello from test") {
		t.Error("diagnostics log missing info line")
	}

	transcript, err := os.ReadFile(filepath.Join(tmp, "transcript_log.txt"))
	if err != nil {
		t.Fatalf("reading transcript log: %v", err)
	}
	if !strings.Contains(string(transcript), "turn on the lights") {
		t.Error("transcript log missing utterance text")
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	// Must not panic or create files while uninitialized.
	Info("dropped")
	Warnf("dropped %d", 1)
	Errorf("dropped %v", os.ErrNotExist)
	RecognizedUtterance("dropped", 0, nil)
	SessionEnd(0)
}
