package capture

import (
	"lingua/audio"
)

// Source delivers bounded utterances of PCM16 audio.
type Source interface {
	Start() error
	Stop()
	Utterances() <-chan []byte
}

// micSource adapts a capture device into a Source by running its data
// callback through the utterance segmenter.
type micSource struct {
	dev audio.CaptureDevice
	seg *segmenter

	// level, when set, receives the RMS of every chunk so shells can draw a
	// meter.
	level func(float64)
}

// NewMicSource wraps dev. level may be nil.
func NewMicSource(dev audio.CaptureDevice, level func(float64)) (Source, error) {
	seg, err := newSegmenter()
	if err != nil {
		return nil, err
	}
	return &micSource{dev: dev, seg: seg, level: level}, nil
}

func (m *micSource) Start() error {
	m.dev.SetCallback(func(data []byte, _ uint32) {
		if len(data) == 0 {
			return
		}
		if m.level != nil {
			m.level(rms(data))
		}
		m.seg.Process(data)
	})
	return m.dev.Start()
}

func (m *micSource) Stop() {
	m.dev.Stop()
	m.dev.ClearCallback()
}

func (m *micSource) Utterances() <-chan []byte {
	return m.seg.Utterances()
}
