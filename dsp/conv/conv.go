package conv

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by convolution routines. The specific argument errors wrap
// ErrInvalidArgument so callers can match either level with errors.Is.
var (
	ErrNotInitialized  = errors.New("conv: not initialized")
	ErrInvalidArgument = errors.New("conv: invalid argument")

	ErrEmptyInput           = fmt.Errorf("%w: empty input", ErrInvalidArgument)
	ErrEmptyImpulseResponse = fmt.Errorf("%w: empty impulse response", ErrInvalidArgument)
	ErrInvalidBlockLength   = fmt.Errorf("%w: block length must be a positive power of two", ErrInvalidArgument)
	ErrInvalidMode          = fmt.Errorf("%w: unknown convolution mode", ErrInvalidArgument)
	ErrLengthMismatch       = fmt.Errorf("%w: buffer length mismatch", ErrInvalidArgument)
)

// DefaultBlockLength is the frequency-domain block length used when none is given.
const DefaultBlockLength = 8192

// Mode selects the convolution strategy.
type Mode int

const (
	// ModeTimeDomain convolves sample by sample against the impulse response.
	ModeTimeDomain Mode = iota

	// ModeFreqDomain convolves block by block with uniformly partitioned
	// overlap-add in the frequency domain.
	ModeFreqDomain

	numModes
)

// String returns the short mode name accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeTimeDomain:
		return "time"
	case ModeFreqDomain:
		return "freq"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "time" or "freq" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	for m := range numModes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	blockLength int
	mode        Mode
}

func defaultConfig() config {
	return config{
		blockLength: DefaultBlockLength,
		mode:        ModeFreqDomain,
	}
}

// WithBlockLength sets the frequency-domain block length. It is validated only
// when the frequency-domain strategy is built.
func WithBlockLength(blockLength int) Option {
	return func(cfg *config) {
		cfg.blockLength = blockLength
	}
}

// WithMode selects the convolution strategy.
func WithMode(mode Mode) Option {
	return func(cfg *config) {
		cfg.mode = mode
	}
}

// Convolver is a streaming single-channel convolution strategy with a fixed
// impulse response.
type Convolver interface {
	// Process writes len(input) output samples into output.
	Process(output, input []float64) error

	// TailLength returns how many further samples the output keeps ringing
	// after the last input sample, including pipeline latency.
	TailLength() int

	// Latency returns the fixed delay in samples added on top of the
	// convolution itself.
	Latency() int

	// KernelLen returns the impulse response length.
	KernelLen() int

	// Reset clears all signal history, keeping the impulse response.
	Reset()
}

// Direct performs one-shot time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyImpulseResponse
	}

	result := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			result[i+j] += a[i] * b[j]
		}
	}

	return result, nil
}

// Convolve runs signal through a streaming Engine built with opts, flushes the
// tail, and strips the engine latency. The result is the full linear
// convolution of length len(signal) + len(ir) - 1.
func Convolve(signal, ir []float64, opts ...Option) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	e, err := NewEngine(ir, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(signal)+e.TailLength())
	if err := e.Process(out[:len(signal)], signal); err != nil {
		return nil, err
	}
	if err := e.Flush(out[len(signal):]); err != nil {
		return nil, err
	}

	return out[e.Latency():], nil
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
