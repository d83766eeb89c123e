package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fastconv/dsp/buffer"
)

const defaultVibratoRateHz = 5.0

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*vibratoConfig) error

type vibratoConfig struct {
	rateHz       float64
	depthSeconds float64 // negative selects the maximum depth
}

// WithVibratoRateHz sets modulation speed in Hz.
func WithVibratoRateHz(rateHz float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("vibrato rate must be >= 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithVibratoDepthSeconds sets modulation depth in seconds. It must not
// exceed the maximum depth given to NewVibrato.
func WithVibratoDepthSeconds(depth float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("vibrato depth must be >= 0 and finite: %f", depth)
		}

		cfg.depthSeconds = depth

		return nil
	}
}

// Vibrato is a pitch modulation effect: the input is read from a delay line
// whose length swings sinusoidally around a fixed centre of maxDepth samples.
// With zero depth the output is the input delayed by Latency samples.
type Vibrato struct {
	sampleRate float64
	maxDepth   int     // samples, also the centre delay
	depth      float64 // samples

	lfo       *LFO
	delayLine *buffer.Ring[float64]
}

// NewVibrato creates a vibrato able to sweep up to maxDepthSeconds either
// side of its centre delay. Depth defaults to the maximum.
func NewVibrato(sampleRate, maxDepthSeconds float64, opts ...VibratoOption) (*Vibrato, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("vibrato sample rate must be > 0 and finite: %f", sampleRate)
	}
	if maxDepthSeconds < 0 || math.IsNaN(maxDepthSeconds) || math.IsInf(maxDepthSeconds, 0) {
		return nil, fmt.Errorf("vibrato max depth must be >= 0 and finite: %f", maxDepthSeconds)
	}

	cfg := vibratoConfig{rateHz: defaultVibratoRateHz, depthSeconds: -1}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.depthSeconds < 0 {
		cfg.depthSeconds = maxDepthSeconds
	}

	lfo, err := NewLFO(sampleRate, WithLFOFrequency(cfg.rateHz))
	if err != nil {
		return nil, err
	}

	maxDepth := int(math.Ceil(maxDepthSeconds * sampleRate))

	// Delays span [0, 2*maxDepth]; one more slot for the interpolation neighbour.
	delayLine, err := buffer.NewRing[float64](2*maxDepth + 2)
	if err != nil {
		return nil, err
	}

	v := &Vibrato{
		sampleRate: sampleRate,
		maxDepth:   maxDepth,
		lfo:        lfo,
		delayLine:  delayLine,
	}

	if err := v.SetDepth(cfg.depthSeconds); err != nil {
		return nil, err
	}

	return v, nil
}

// SetFrequency sets modulation speed in Hz.
func (v *Vibrato) SetFrequency(hz float64) error {
	return v.lfo.SetFrequency(hz)
}

// SetDepth sets modulation depth in seconds, at most the maximum depth.
func (v *Vibrato) SetDepth(seconds float64) error {
	samples := seconds * v.sampleRate
	if seconds < 0 || math.IsNaN(seconds) || samples > float64(v.maxDepth) {
		return fmt.Errorf("vibrato depth must be in [0, %f]: %f", float64(v.maxDepth)/v.sampleRate, seconds)
	}

	v.depth = samples

	return nil
}

// ProcessSample processes one sample.
func (v *Vibrato) ProcessSample(sample float64) float64 {
	v.delayLine.PutPostInc(sample)
	v.delayLine.SetReadIdx(v.delayLine.WriteIdx() - 1)

	delay := float64(v.maxDepth) + v.depth*v.lfo.Process()

	return buffer.Interpolated(v.delayLine, -delay)
}

// Process writes len(input) vibrato samples into output.
func (v *Vibrato) Process(output, input []float64) error {
	if len(output) < len(input) {
		return fmt.Errorf("vibrato output too short: %d < %d", len(output), len(input))
	}

	for i, x := range input {
		output[i] = v.ProcessSample(x)
	}

	return nil
}

// Reset clears the delay line and rewinds the LFO.
func (v *Vibrato) Reset() {
	v.delayLine.Reset()
	v.lfo.Reset()
}

// Frequency returns modulation speed in Hz.
func (v *Vibrato) Frequency() float64 { return v.lfo.Frequency() }

// Depth returns modulation depth in seconds.
func (v *Vibrato) Depth() float64 { return v.depth / v.sampleRate }

// MaxDepth returns the largest accepted depth in seconds.
func (v *Vibrato) MaxDepth() float64 { return float64(v.maxDepth) / v.sampleRate }

// Latency returns the centre delay in samples.
func (v *Vibrato) Latency() int { return v.maxDepth }
