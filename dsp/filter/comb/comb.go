// Package comb provides feedforward and feedback comb filters on a circular
// delay line.
package comb

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fastconv/dsp/buffer"
)

// ErrInvalidParameter is returned for out-of-range construction or setter
// arguments.
var ErrInvalidParameter = errors.New("comb: invalid parameter")

const defaultGain = 0.5

// Kind selects the comb topology.
type Kind int

const (
	// KindFIR is the feedforward comb y[n] = x[n] + g*x[n-d].
	KindFIR Kind = iota

	// KindIIR is the feedback comb y[n] = x[n] + g*y[n-d]. It requires d >= 1.
	KindIIR
)

// String returns "fir" or "iir".
func (k Kind) String() string {
	switch k {
	case KindFIR:
		return "fir"
	case KindIIR:
		return "iir"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Filter is a comb filter with a delay adjustable up to the maximum given at
// construction. The gain defaults to 0.5 and the delay to the maximum.
type Filter struct {
	kind       Kind
	sampleRate float64
	gain       float64
	delayline  *buffer.Ring[float64]
}

// New creates a comb filter able to delay up to maxDelaySeconds.
func New(kind Kind, maxDelaySeconds, sampleRate float64) (*Filter, error) {
	if kind != KindFIR && kind != KindIIR {
		return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidParameter, kind)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidParameter, sampleRate)
	}
	if maxDelaySeconds < 0 || math.IsNaN(maxDelaySeconds) || math.IsInf(maxDelaySeconds, 0) {
		return nil, fmt.Errorf("%w: max delay must be >= 0 and finite: %f", ErrInvalidParameter, maxDelaySeconds)
	}

	// One extra slot so the full delay never makes read and write cursors meet.
	delayline, err := buffer.NewRing[float64](int(math.Ceil(maxDelaySeconds*sampleRate)) + 1)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		kind:       kind,
		sampleRate: sampleRate,
		gain:       defaultGain,
		delayline:  delayline,
	}

	if err := f.SetDelay(maxDelaySeconds); err != nil {
		return nil, err
	}

	return f, nil
}

// Kind returns the filter topology.
func (f *Filter) Kind() Kind {
	return f.kind
}

// SetGain sets the comb gain g. Feedback combs are only stable for |g| < 1.
func (f *Filter) SetGain(gain float64) error {
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("%w: gain must be finite: %f", ErrInvalidParameter, gain)
	}

	f.gain = gain

	return nil
}

// Gain returns g.
func (f *Filter) Gain() float64 {
	return f.gain
}

// SetDelay sets the delay in seconds, rounded to whole samples. The delay
// must not be negative or exceed the maximum; feedback combs need at least
// one sample.
func (f *Filter) SetDelay(seconds float64) error {
	if seconds < 0 || math.IsNaN(seconds) {
		return fmt.Errorf("%w: delay must be >= 0: %f", ErrInvalidParameter, seconds)
	}

	samples := math.Round(seconds * f.sampleRate)
	if samples > float64(f.delayline.Len()-1) {
		return fmt.Errorf("%w: delay %f s exceeds maximum %f s",
			ErrInvalidParameter, seconds, float64(f.delayline.Len()-1)/f.sampleRate)
	}
	if f.kind == KindIIR && samples < 1 {
		return fmt.Errorf("%w: feedback delay must be at least one sample: %f", ErrInvalidParameter, seconds)
	}

	f.delayline.SetReadIdx(f.delayline.WriteIdx() - int(samples))

	return nil
}

// Delay returns the delay in seconds.
func (f *Filter) Delay() float64 {
	return float64(f.DelaySamples()) / f.sampleRate
}

// DelaySamples returns the delay in samples.
func (f *Filter) DelaySamples() int {
	return f.delayline.NumValuesInBuffer()
}

// Process filters input into output. len(output) must be at least len(input).
func (f *Filter) Process(output, input []float64) error {
	if len(output) < len(input) {
		return fmt.Errorf("%w: output %d < input %d", ErrInvalidParameter, len(output), len(input))
	}

	switch f.kind {
	case KindFIR:
		for i, x := range input {
			// Write before read so a zero delay yields the current sample.
			f.delayline.PutPostInc(x)
			output[i] = x + f.gain*f.delayline.GetPostInc()
		}
	case KindIIR:
		for i, x := range input {
			y := x + f.gain*f.delayline.GetPostInc()
			output[i] = y
			f.delayline.PutPostInc(y)
		}
	}

	return nil
}

// Reset clears the delay line, keeping delay and gain.
func (f *Filter) Reset() {
	delay := f.DelaySamples()
	f.delayline.Reset()
	f.delayline.SetReadIdx(-delay)
}
