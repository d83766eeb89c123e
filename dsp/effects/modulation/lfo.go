package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fastconv/dsp/buffer"
)

const (
	defaultLFOResolution = 4096
	defaultLFOFrequency  = 1.0
	defaultLFOAmplitude  = 1.0
)

// LFOOption mutates LFO construction parameters.
type LFOOption func(*lfoConfig) error

type lfoConfig struct {
	resolution int
	frequency  float64
	amplitude  float64
}

// WithLFOResolution sets the wavetable length.
func WithLFOResolution(resolution int) LFOOption {
	return func(cfg *lfoConfig) error {
		if resolution < 2 {
			return fmt.Errorf("lfo resolution must be >= 2: %d", resolution)
		}

		cfg.resolution = resolution

		return nil
	}
}

// WithLFOFrequency sets the oscillation frequency in Hz.
func WithLFOFrequency(hz float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if hz < 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", hz)
		}

		cfg.frequency = hz

		return nil
	}
}

// WithLFOAmplitude sets the peak output value.
func WithLFOAmplitude(amplitude float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
			return fmt.Errorf("lfo amplitude must be finite: %f", amplitude)
		}

		cfg.amplitude = amplitude

		return nil
	}
}

// LFO is a wavetable sine oscillator. One period is stored in a ring and read
// at a fractional index with linear interpolation.
type LFO struct {
	sampleRate float64
	frequency  float64
	amplitude  float64

	index     float64
	wavetable *buffer.Ring[float64]
}

// NewLFO creates a sine LFO starting at phase 0.
func NewLFO(sampleRate float64, opts ...LFOOption) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := lfoConfig{
		resolution: defaultLFOResolution,
		frequency:  defaultLFOFrequency,
		amplitude:  defaultLFOAmplitude,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.frequency > sampleRate/2 {
		return nil, fmt.Errorf("lfo frequency must be <= %f: %f", sampleRate/2, cfg.frequency)
	}

	wavetable, err := buffer.NewRing[float64](cfg.resolution)
	if err != nil {
		return nil, err
	}

	for i := range cfg.resolution {
		wavetable.PutPostInc(math.Sin(2 * math.Pi * float64(i) / float64(cfg.resolution)))
	}

	return &LFO{
		sampleRate: sampleRate,
		frequency:  cfg.frequency,
		amplitude:  cfg.amplitude,
		wavetable:  wavetable,
	}, nil
}

// Process returns the current value and advances the phase by one sample.
func (l *LFO) Process() float64 {
	v := buffer.Interpolated(l.wavetable, l.index)

	n := float64(l.wavetable.Len())
	l.index = math.Mod(l.index+l.frequency/l.sampleRate*n, n)

	return v * l.amplitude
}

// SetFrequency sets the oscillation frequency in Hz, up to half the sample rate.
func (l *LFO) SetFrequency(hz float64) error {
	if hz < 0 || hz > l.sampleRate/2 || math.IsNaN(hz) {
		return fmt.Errorf("lfo frequency must be in [0, %f]: %f", l.sampleRate/2, hz)
	}

	l.frequency = hz

	return nil
}

// SetAmplitude sets the peak output value.
func (l *LFO) SetAmplitude(amplitude float64) error {
	if math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
		return fmt.Errorf("lfo amplitude must be finite: %f", amplitude)
	}

	l.amplitude = amplitude

	return nil
}

// Reset rewinds the phase to 0.
func (l *LFO) Reset() {
	l.index = 0
}

// Frequency returns the oscillation frequency in Hz.
func (l *LFO) Frequency() float64 { return l.frequency }

// Amplitude returns the peak output value.
func (l *LFO) Amplitude() float64 { return l.amplitude }

// SampleRate returns the sample rate in Hz.
func (l *LFO) SampleRate() float64 { return l.sampleRate }

// Resolution returns the wavetable length.
func (l *LFO) Resolution() int { return l.wavetable.Len() }
