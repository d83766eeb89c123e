package modulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fastconv/dsp/buffer"
)

// Accepted delay range of a flanger, base delay plus depth included.
const (
	MinFlangerDelaySeconds = 0.0001
	MaxFlangerDelaySeconds = 0.0100
)

// ErrInvalidFlangerParams is wrapped by every flanger validation error.
var ErrInvalidFlangerParams = errors.New("modulation: invalid flanger parameters")

// FlangerParams holds the user-facing settings of a Flanger.
type FlangerParams struct {
	RateHz           float64 // LFO speed, > 0
	DepthSeconds     float64 // sweep width, >= 0
	BaseDelaySeconds float64 // shortest delay of the sweep
	Feedback         float64 // in [-0.99, 0.99]
	Mix              float64 // wet amount in [0, 1]
}

// DefaultFlangerParams returns a gentle, slow flange.
func DefaultFlangerParams() FlangerParams {
	return FlangerParams{
		RateHz:           0.25,
		DepthSeconds:     0.0015,
		BaseDelaySeconds: 0.001,
		Feedback:         0.25,
		Mix:              0.5,
	}
}

// Validate reports the first out-of-range field.
func (p FlangerParams) Validate() error {
	checks := []struct {
		name   string
		value  float64
		lo, hi float64
		openLo bool
	}{
		{"rate", p.RateHz, 0, math.MaxFloat64, true},
		{"depth", p.DepthSeconds, 0, MaxFlangerDelaySeconds, false},
		{"base delay", p.BaseDelaySeconds, MinFlangerDelaySeconds, MaxFlangerDelaySeconds, false},
		{"feedback", p.Feedback, -0.99, 0.99, false},
		{"mix", p.Mix, 0, 1, false},
	}

	for _, c := range checks {
		below := c.value < c.lo || (c.openLo && c.value == c.lo)
		if math.IsNaN(c.value) || below || c.value > c.hi {
			return fmt.Errorf("%w: %s %g outside [%g, %g]", ErrInvalidFlangerParams, c.name, c.value, c.lo, c.hi)
		}
	}

	if p.BaseDelaySeconds+p.DepthSeconds > MaxFlangerDelaySeconds {
		return fmt.Errorf("%w: base delay %g + depth %g exceeds %g s",
			ErrInvalidFlangerParams, p.BaseDelaySeconds, p.DepthSeconds, MaxFlangerDelaySeconds)
	}

	return nil
}

// FlangerOption overrides one field of the default parameters.
type FlangerOption func(*FlangerParams)

// WithFlangerRateHz sets the sweep speed.
func WithFlangerRateHz(hz float64) FlangerOption {
	return func(p *FlangerParams) { p.RateHz = hz }
}

// WithFlangerDepthSeconds sets the sweep width.
func WithFlangerDepthSeconds(seconds float64) FlangerOption {
	return func(p *FlangerParams) { p.DepthSeconds = seconds }
}

// WithFlangerBaseDelaySeconds sets the shortest delay.
func WithFlangerBaseDelaySeconds(seconds float64) FlangerOption {
	return func(p *FlangerParams) { p.BaseDelaySeconds = seconds }
}

// WithFlangerFeedback sets the recirculation gain.
func WithFlangerFeedback(gain float64) FlangerOption {
	return func(p *FlangerParams) { p.Feedback = gain }
}

// WithFlangerMix sets the wet amount.
func WithFlangerMix(mix float64) FlangerOption {
	return func(p *FlangerParams) { p.Mix = mix }
}

// Flanger mixes the input with a copy delayed by baseDelay+depth*m(t), where
// m sweeps [0, 1] sinusoidally. The delayed path is fed back into the line.
type Flanger struct {
	params     FlangerParams
	sampleRate float64

	lfo  *LFO
	line *buffer.Ring[float64]
}

// NewFlanger applies opts to DefaultFlangerParams and validates the result.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	p := DefaultFlangerParams()

	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := &Flanger{params: p}
	if err := f.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return f, nil
}

// Params returns the current settings.
func (f *Flanger) Params() FlangerParams { return f.params }

// SetParams validates and installs p. On error the flanger is unchanged.
func (f *Flanger) SetParams(p FlangerParams) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := f.lfo.SetFrequency(p.RateHz); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlangerParams, err)
	}

	f.params = p

	return nil
}

func (f *Flanger) update(mutate func(*FlangerParams)) error {
	p := f.params
	mutate(&p)

	return f.SetParams(p)
}

// SetSampleRate rebuilds the LFO and the delay line, clearing all state.
// The line is sized for MaxFlangerDelaySeconds so parameter updates never
// reallocate.
func (f *Flanger) SetSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %g", ErrInvalidFlangerParams, sampleRate)
	}

	lfo, err := NewLFO(sampleRate, WithLFOFrequency(f.params.RateHz), WithLFOAmplitude(0.5))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlangerParams, err)
	}

	line, err := buffer.NewRing[float64](int(math.Ceil(MaxFlangerDelaySeconds*sampleRate)) + 2)
	if err != nil {
		return err
	}

	f.sampleRate, f.lfo, f.line = sampleRate, lfo, line

	return nil
}

// SetRateHz, SetDepthSeconds, SetBaseDelaySeconds, SetFeedback and SetMix
// change a single field through SetParams.
func (f *Flanger) SetRateHz(hz float64) error {
	return f.update(func(p *FlangerParams) { p.RateHz = hz })
}

func (f *Flanger) SetDepthSeconds(seconds float64) error {
	return f.update(func(p *FlangerParams) { p.DepthSeconds = seconds })
}

func (f *Flanger) SetBaseDelaySeconds(seconds float64) error {
	return f.update(func(p *FlangerParams) { p.BaseDelaySeconds = seconds })
}

func (f *Flanger) SetFeedback(gain float64) error {
	return f.update(func(p *FlangerParams) { p.Feedback = gain })
}

func (f *Flanger) SetMix(mix float64) error {
	return f.update(func(p *FlangerParams) { p.Mix = mix })
}

// Reset clears the delay line and rewinds the LFO.
func (f *Flanger) Reset() {
	f.line.Reset()
	f.lfo.Reset()
}

// Process returns the next output sample for input x.
func (f *Flanger) Process(x float64) float64 {
	p := &f.params
	m := 0.5 + f.lfo.Process()
	d := max((p.BaseDelaySeconds+p.DepthSeconds*m)*f.sampleRate, 1)

	// Offsets are relative to the newest stored sample, one sample old.
	f.line.SetReadIdx(f.line.WriteIdx() - 1)
	wet := buffer.Interpolated(f.line, 1-d)
	f.line.PutPostInc(x + p.Feedback*wet)

	return x + p.Mix*(wet-x)
}

// ProcessInPlace runs Process over buf.
func (f *Flanger) ProcessInPlace(buf []float64) error {
	for i, x := range buf {
		buf[i] = f.Process(x)
	}

	return nil
}

// SampleRate returns the rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// RateHz returns the sweep speed.
func (f *Flanger) RateHz() float64 { return f.params.RateHz }

// DepthSeconds returns the sweep width.
func (f *Flanger) DepthSeconds() float64 { return f.params.DepthSeconds }

// BaseDelaySeconds returns the shortest delay.
func (f *Flanger) BaseDelaySeconds() float64 { return f.params.BaseDelaySeconds }

// Feedback returns the recirculation gain.
func (f *Flanger) Feedback() float64 { return f.params.Feedback }

// Mix returns the wet amount.
func (f *Flanger) Mix() float64 { return f.params.Mix }
