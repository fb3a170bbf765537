package capture

import (
	"encoding/binary"
	"math"
	"sync"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"lingua/encoder"
	"lingua/log"
)

const (
	vadMode        = 3
	frameMs        = 20
	frameBytes     = encoder.SampleRate * frameMs / 1000 * 2 // 640 bytes
	debounceFrames = 3 // consecutive speech frames to open an utterance

	// Trailing silence that closes an utterance. Short enough to feel
	// responsive, long enough that a mid-sentence pause doesn't split.
	silenceHoldFrames = 700 / frameMs

	prerollFrames = 15 // 300ms kept before onset so the first word isn't clipped

	minUtteranceBytes = encoder.SampleRate * 300 / 1000 * 2 // 300ms

	calibrationFrames = 1000 / frameMs // 1s ambient noise window

	// energyFloor matches an RMS threshold of 300 on 16-bit samples.
	energyFloor         = 300.0 / 32768.0
	calibrationHeadroom = 1.5
)

// segmenter cuts the capture stream into bounded utterances: WebRTC VAD plus
// a calibrated energy gate decide where speech starts and stops. The first
// calibrationFrames frames only feed the ambient-noise measurement.
type segmenter struct {
	vad *webrtcvad.VAD

	mu         sync.Mutex
	buf        []byte
	threshold  float64
	calibrated bool
	calFrames  int
	calEnergy  float64

	inSpeech   bool
	speechRun  int
	silenceRun int
	preroll    [][]byte
	utterance  []byte

	out chan []byte
}

func newSegmenter() (*segmenter, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(vadMode); err != nil {
		return nil, err
	}
	return &segmenter{
		vad:       v,
		threshold: energyFloor,
		out:       make(chan []byte, 8),
	}, nil
}

func (s *segmenter) Utterances() <-chan []byte { return s.out }

// Process consumes raw capture data. Called from the audio callback.
func (s *segmenter) Process(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = append(s.buf, data...)
	for len(s.buf) >= frameBytes {
		frame := make([]byte, frameBytes)
		copy(frame, s.buf[:frameBytes])
		s.buf = s.buf[frameBytes:]
		s.processFrame(frame)
	}
}

func (s *segmenter) processFrame(frame []byte) {
	energy := rms(frame)

	if !s.calibrated {
		s.calEnergy += energy
		s.calFrames++
		if s.calFrames >= calibrationFrames {
			s.threshold = max(s.calEnergy/float64(s.calFrames)*calibrationHeadroom, energyFloor)
			s.calibrated = true
			log.Infof("calibrated: energy threshold %.4f", s.threshold)
		}
		return
	}

	active, err := s.vad.Process(encoder.SampleRate, frame)
	if err != nil {
		return
	}
	active = active && energy >= s.threshold

	if !s.inSpeech {
		s.pushPreroll(frame)
		if active {
			s.speechRun++
		} else {
			s.speechRun = 0
		}
		if s.speechRun >= debounceFrames {
			s.inSpeech = true
			s.silenceRun = 0
			s.utterance = nil
			for _, f := range s.preroll {
				s.utterance = append(s.utterance, f...)
			}
			s.preroll = s.preroll[:0]
		}
		return
	}

	s.utterance = append(s.utterance, frame...)
	if active {
		s.silenceRun = 0
		return
	}
	s.silenceRun++
	if s.silenceRun < silenceHoldFrames {
		return
	}

	if len(s.utterance) >= minUtteranceBytes {
		select {
		case s.out <- s.utterance:
		default:
			log.Warn("utterance dropped: recognition backlog")
		}
	}
	s.inSpeech = false
	s.speechRun = 0
	s.silenceRun = 0
	s.utterance = nil
}

func (s *segmenter) pushPreroll(frame []byte) {
	s.preroll = append(s.preroll, frame)
	if len(s.preroll) > prerollFrames {
		s.preroll = s.preroll[1:]
	}
}

func rms(frame []byte) float64 {
	if len(frame) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 0; i+1 < len(frame); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(frame[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	return math.Sqrt(sumSquares / float64(len(frame)/2))
}
