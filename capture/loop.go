// Package capture runs the continuous listening loop: segment the microphone
// stream into utterances, recognize each one, and accumulate text until the
// stop phrase is heard, the context is cancelled, or the recognition service
// becomes unreachable.
package capture

import (
	"context"
	"errors"
	"strings"

	"lingua/log"
	"lingua/recognizer"
)

// DefaultStopPhrase ends a capture when it appears anywhere in a recognized
// utterance, case-insensitively.
const DefaultStopPhrase = "stop recording"

// Update is emitted after every processed utterance. Transcript is the full
// running transcript; Warning, when set, flags a skipped utterance.
type Update struct {
	Transcript string
	Warning    string
}

type Options struct {
	StopPhrase string // defaults to DefaultStopPhrase
}

type Loop struct {
	rec        recognizer.Recognizer
	stopPhrase string
	updates    chan Update
}

// NewLoop builds a single-use loop; Run may be called once.
func NewLoop(rec recognizer.Recognizer, opts Options) *Loop {
	phrase := opts.StopPhrase
	if phrase == "" {
		phrase = DefaultStopPhrase
	}
	return &Loop{
		rec:        rec,
		stopPhrase: strings.ToLower(phrase),
		updates:    make(chan Update, 8),
	}
}

// Updates streams incremental transcript updates and warnings. The channel
// closes when Run returns; a consumer must drain it or Run can block.
func (l *Loop) Updates() <-chan Update { return l.updates }

// Run blocks until the stop phrase is recognized, ctx is cancelled, or the
// recognition service fails. The accumulated transcript is returned in every
// case; the error reports why the loop ended (nil for the stop phrase).
func (l *Loop) Run(ctx context.Context, src Source) (string, error) {
	defer close(l.updates)

	if err := src.Start(); err != nil {
		return "", err
	}
	defer src.Stop()

	var parts []string
	transcript := func() string { return strings.Join(parts, " ") }

	for {
		select {
		case <-ctx.Done():
			log.Info("capture cancelled")
			return transcript(), ctx.Err()

		case utt, ok := <-src.Utterances():
			if !ok {
				return transcript(), nil
			}

			res, err := l.rec.Recognize(ctx, utt)
			if errors.Is(err, recognizer.ErrUnintelligible) {
				log.Warn("utterance not understood, continuing")
				l.updates <- Update{Transcript: transcript(), Warning: "Couldn't understand the audio. Please speak clearly."}
				continue
			}
			if err != nil {
				log.Errorf("recognition failed: %v", err)
				return transcript(), err
			}

			if strings.Contains(strings.ToLower(res.Text), l.stopPhrase) {
				log.Info("stop phrase detected")
				return transcript(), nil
			}

			parts = append(parts, res.Text)
			log.RecognizedUtterance(res.Text, res.Confidence, res.Metrics)
			l.updates <- Update{Transcript: transcript()}
		}
	}
}
