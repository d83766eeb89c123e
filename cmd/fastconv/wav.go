package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errUnsupportedBitDepth = errors.New("unsupported bit depth")

// signal is a decoded multichannel audio file in deinterleaved float form,
// scaled to [-1, 1).
type signal struct {
	sampleRate int
	bitDepth   int
	channels   [][]float64
}

func (s *signal) frames() int {
	if len(s.channels) == 0 {
		return 0
	}

	return len(s.channels[0])
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", errUnsupportedBitDepth, bitDepth)
	}
}

// readWAV decodes an entire PCM WAV file.
func readWAV(path string) (*signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("invalid WAV buffer: %s", path)
	}

	bitDepth := int(dec.BitDepth)
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	numCh := buf.Format.NumChannels
	frames := len(buf.Data) / numCh
	if frames == 0 {
		return nil, fmt.Errorf("empty WAV data: %s", path)
	}

	channels := make([][]float64, numCh)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	inv := 1 / scale
	for i := range frames {
		for ch := range numCh {
			channels[ch][i] = float64(buf.Data[i*numCh+ch]) * inv
		}
	}

	return &signal{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}, nil
}

// writeWAV encodes s as PCM WAV, clipping to full scale.
func writeWAV(path string, s *signal) error {
	scale, err := fullScale(s.bitDepth)
	if err != nil {
		return err
	}

	numCh := len(s.channels)
	frames := s.frames()
	maxVal := scale - 1

	data := make([]int, frames*numCh)
	for i := range frames {
		for ch := range numCh {
			v := math.Round(s.channels[ch][i] * scale)
			data[i*numCh+ch] = int(math.Max(-scale, math.Min(maxVal, v)))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, s.sampleRate, s.bitDepth, numCh, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: numCh, SampleRate: s.sampleRate},
		SourceBitDepth: s.bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return f.Close()
}
