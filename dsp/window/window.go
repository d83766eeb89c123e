// Package window generates the analysis windows offered by the spectral
// transform's windowing option.
package window

import (
	"github.com/cwbudde/algo-vecmath"
	gonumwindow "gonum.org/v1/gonum/dsp/window"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeSine
	TypeHann
	TypeHamming
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeSine:
		return "sine"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a supported window.
func (t Type) Valid() bool {
	return t >= TypeRectangular && t <= TypeHamming
}

// Generate returns symmetric window coefficients of the given length.
// Unknown types yield a rectangular window.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = 1
	}

	if length == 1 {
		return out
	}

	switch t {
	case TypeSine:
		gonumwindow.Sine(out)
	case TypeHann:
		gonumwindow.Hann(out)
	case TypeHamming:
		gonumwindow.Hamming(out)
	}

	return out
}

// ApplyCoefficientsInPlace multiplies samples with precomputed coefficients.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}
