package encoder

import (
	"encoding/binary"
	"math"
	"testing"
)

func sinePCM(nSamples int) []byte {
	pcm := make([]byte, nSamples*2)
	for i := 0; i < nSamples; i++ {
		s := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/SampleRate))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestEncodePCM(t *testing.T) {
	pcm := sinePCM(BlockSize + BlockSize/3) // forces a partial final block
	out, err := EncodePCM(pcm)
	if err != nil {
		t.Fatalf("EncodePCM: %v", err)
	}
	if len(out) < 4 || string(out[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestEncodePCMEmpty(t *testing.T) {
	out, err := EncodePCM(nil)
	if err != nil {
		t.Fatalf("EncodePCM(nil): %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty FLAC output (at least header)")
	}
}

func TestFlacEncoderTotalFrames(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	partial := make([]int16, BlockSize/4)
	for i := range partial {
		partial[i] = int16(i % 1000)
	}

	if err := enc.EncodeBlock(partial); err != nil {
		t.Fatalf("EncodeBlock partial: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != uint64(len(partial)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(partial))
	}
}
