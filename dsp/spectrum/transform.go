package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-fastconv/dsp/window"
)

// Errors returned by the spectral transform.
var (
	ErrInvalidSize    = errors.New("spectrum: transform size must be a power of two >= 2")
	ErrLengthMismatch = errors.New("spectrum: buffer length mismatch")
	ErrInvalidWindow  = errors.New("spectrum: invalid window")
)

// Windowing selects where the transform applies its window.
type Windowing int

const (
	// NoWindow leaves the data untouched.
	NoWindow Windowing = 0
	// PreWindow multiplies the time signal by the window before Forward.
	PreWindow Windowing = 1 << 0
	// PostWindow multiplies the time signal by the window after Inverse.
	PostWindow Windowing = 1 << 1
	// PrePostWindow applies the window on both sides.
	PrePostWindow = PreWindow | PostWindow
)

// TransformOption configures a Transform.
type TransformOption func(*transformConfig) error

type transformConfig struct {
	windowType window.Type
	windowing  Windowing
}

// WithWindow selects the window function. The default is Hann.
func WithWindow(t window.Type) TransformOption {
	return func(cfg *transformConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: type %d", ErrInvalidWindow, int(t))
		}

		cfg.windowType = t

		return nil
	}
}

// WithWindowing selects where the window is applied. The default is NoWindow.
func WithWindowing(w Windowing) TransformOption {
	return func(cfg *transformConfig) error {
		if w < NoWindow || w > PrePostWindow {
			return fmt.Errorf("%w: windowing %d", ErrInvalidWindow, int(w))
		}

		cfg.windowing = w

		return nil
	}
}

// Transform is a real-valued FFT of fixed power-of-two size operating in place
// on the packed layout
//
//	re(0), re(1), ..., re(n/2), im(n/2-1), ..., im(1)
//
// Bins 0 and n/2 are purely real for real input, so their imaginary parts are
// not stored.
//
// Forward is normalized by 1/n and Inverse is not, so Inverse(Forward(x)) == x.
// The product of two forward spectra must be multiplied by Scale() before
// Inverse to yield their circular convolution.
type Transform struct {
	size      int
	plan      *algofft.Plan[complex128]
	work      []complex128
	window    []float64
	windowing Windowing
}

// NewTransform creates a transform of the given size.
func NewTransform(size int, opts ...TransformOption) (*Transform, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	cfg := transformConfig{windowType: window.TypeHann, windowing: NoWindow}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	return &Transform{
		size:      size,
		plan:      plan,
		work:      make([]complex128, size),
		window:    window.Generate(cfg.windowType, size),
		windowing: cfg.windowing,
	}, nil
}

// Size returns the transform length.
func (t *Transform) Size() int {
	return t.size
}

// Scale returns the factor a product of two forward spectra needs before
// Inverse. It equals Size().
func (t *Transform) Scale() float64 {
	return float64(t.size)
}

// Window returns a copy of the window coefficients.
func (t *Transform) Window() []float64 {
	return append([]float64(nil), t.window...)
}

// OverrideWindow replaces the window coefficients.
func (t *Transform) OverrideWindow(coeffs []float64) error {
	if len(coeffs) != t.size {
		return fmt.Errorf("%w: expected %d coefficients, got %d", ErrLengthMismatch, t.size, len(coeffs))
	}

	copy(t.window, coeffs)

	return nil
}

// Forward transforms buf in place from time samples to a packed spectrum.
func (t *Transform) Forward(buf []float64) error {
	if len(buf) != t.size {
		return fmt.Errorf("%w: expected %d samples, got %d", ErrLengthMismatch, t.size, len(buf))
	}

	if t.windowing&PreWindow != 0 {
		if err := window.ApplyCoefficientsInPlace(buf, t.window); err != nil {
			return err
		}
	}

	for i, v := range buf {
		t.work[i] = complex(v, 0)
	}

	if err := t.plan.Forward(t.work, t.work); err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	half := t.size / 2
	for k := 0; k <= half; k++ {
		buf[k] = real(t.work[k])
	}

	for k := 1; k < half; k++ {
		buf[t.size-k] = imag(t.work[k])
	}

	f64.Scale(buf, buf, 1/float64(t.size))

	return nil
}

// Inverse transforms a packed spectrum in buf back to time samples in place.
func (t *Transform) Inverse(buf []float64) error {
	if len(buf) != t.size {
		return fmt.Errorf("%w: expected %d bins, got %d", ErrLengthMismatch, t.size, len(buf))
	}

	half := t.size / 2
	t.work[0] = complex(buf[0], 0)
	t.work[half] = complex(buf[half], 0)

	for k := 1; k < half; k++ {
		c := complex(buf[k], buf[t.size-k])
		t.work[k] = c
		t.work[t.size-k] = cmplx.Conj(c)
	}

	if err := t.plan.Inverse(t.work, t.work); err != nil {
		return fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	for i := range buf {
		buf[i] = real(t.work[i])
	}

	// The plan's inverse is normalized; undo it so only Forward carries 1/n.
	f64.Scale(buf, buf, float64(t.size))

	if t.windowing&PostWindow != 0 {
		if err := window.ApplyCoefficientsInPlace(buf, t.window); err != nil {
			return err
		}
	}

	return nil
}

// FreqToBin converts a frequency in Hz to a (fractional) bin index.
func (t *Transform) FreqToBin(freqHz, sampleRate float64) float64 {
	return freqHz / sampleRate * float64(t.size)
}

// BinToFreq converts a bin index to its centre frequency in Hz.
func (t *Transform) BinToFreq(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(t.size)
}
