// Package encoder turns raw PCM16 utterance audio into FLAC, the format the
// recognition service accepts.
package encoder

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)
