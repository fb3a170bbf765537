// Package log writes diagnostics to diagnostics_log.txt via zerolog and the
// raw transcript stream to transcript_log.txt. All functions are no-ops until
// Init succeeds, so packages can log unconditionally.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lingua/recognizer"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcriptFile *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: LINGUA_LOG_PATH environment variable
	envPath := os.Getenv("LINGUA_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transcriptPath := filepath.Join(dir, "transcript_log.txt")
	transcriptFile, err = os.OpenFile(transcriptPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcriptFile != nil {
		transcriptFile.Close()
		transcriptFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// RecognizedUtterance records one recognized utterance with its network
// timings, and appends the text to the transcript log.
func RecognizedUtterance(text string, confidence float64, m *recognizer.NetworkMetrics) {
	if !logReady {
		return
	}

	ev := diagLog.Info().Int("chars", len(text))
	if confidence > 0 {
		ev = ev.Float64("confidence", confidence)
	}
	if m != nil {
		conn := "new"
		if m.ConnReused {
			conn = "reused"
		}
		ev = ev.Str("conn", conn).
			Int64("dns_ms", m.DNS.Milliseconds()).
			Int64("tls_ms", m.TLS.Milliseconds()).
			Int64("ttfb_ms", m.TTFB.Milliseconds()).
			Int64("download_ms", m.Download.Milliseconds()).
			Int64("total_ms", m.Total.Milliseconds())
	}
	ev.Msg("utterance")

	logMu.Lock()
	defer logMu.Unlock()
	if transcriptFile != nil {
		line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
		transcriptFile.WriteString(line)
	}
}

// TranslationDone records one completed translation step.
func TranslationDone(lang string, chars int, dur time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("lang", lang).
		Int("chars", chars).
		Int64("total_ms", dur.Milliseconds()).
		Msg("translation")
}

// Request records one handled HTTP request from the browser shell.
func Request(method, path string, status int, dur time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Int64("ms", dur.Milliseconds()).
		Msg("http")
}

func SessionStart(provider, translator, lang string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("recognizer", provider).
		Str("translator", translator).
		Str("lang", lang).
		Msg("session_start")
}

func SessionEnd(translations int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("translations", translations).
		Msg("session_end")
}
