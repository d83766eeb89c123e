package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-fastconv/dsp/window"
	"github.com/cwbudde/algo-fastconv/internal/testutil"
)

func TestNewTransformValidation(t *testing.T) {
	for _, size := range []int{-4, 0, 1, 3, 6, 12, 1000} {
		_, err := NewTransform(size)
		require.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}

	for _, size := range []int{2, 4, 64, 4096} {
		tr, err := NewTransform(size)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, size, tr.Size())
		assert.InDelta(t, float64(size), tr.Scale(), 0)
	}
}

func TestNewTransformOptions(t *testing.T) {
	_, err := NewTransform(8, WithWindow(window.Type(99)))
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewTransform(8, WithWindowing(Windowing(8)))
	require.ErrorIs(t, err, ErrInvalidWindow)

	tr, err := NewTransform(8, nil, WithWindow(window.TypeHamming), WithWindowing(PreWindow))
	require.NoError(t, err)
	assert.InDeltaSlice(t, window.Generate(window.TypeHamming, 8), tr.Window(), 1e-15)
}

func TestForwardMatchesReference(t *testing.T) {
	for _, n := range []int{2, 4, 16, 128} {
		x := testutil.DeterministicNoise(int64(n), 1, n)

		ref := fourier.NewFFT(n).Coefficients(nil, x)

		tr, err := NewTransform(n)
		require.NoError(t, err)

		packed := append([]float64(nil), x...)
		require.NoError(t, tr.Forward(packed))

		scale := 1 / float64(n)
		for k := 0; k <= n/2; k++ {
			assert.InDelta(t, real(ref[k])*scale, packed[k], 1e-12, "n=%d re[%d]", n, k)
		}
		for k := 1; k < n/2; k++ {
			assert.InDelta(t, imag(ref[k])*scale, packed[n-k], 1e-12, "n=%d im[%d]", n, k)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tr, err := NewTransform(256)
	require.NoError(t, err)

	x := testutil.DeterministicNoise(7, 2, 256)
	buf := append([]float64(nil), x...)

	require.NoError(t, tr.Forward(buf))
	require.NoError(t, tr.Inverse(buf))
	assert.InDeltaSlice(t, x, buf, 1e-12)
}

func TestScaledProductIsCircularConvolution(t *testing.T) {
	const n = 32

	a := testutil.DeterministicNoise(1, 1, n)
	b := testutil.DeterministicNoise(2, 1, n)

	want := make([]float64, n)
	for i := range n {
		for j := range n {
			want[(i+j)%n] += a[i] * b[j]
		}
	}

	tr, err := NewTransform(n)
	require.NoError(t, err)

	fa := append([]float64(nil), a...)
	fb := append([]float64(nil), b...)
	require.NoError(t, tr.Forward(fa))
	require.NoError(t, tr.Forward(fb))

	prod := make([]float64, n)
	prod[0] = fa[0] * fb[0]
	prod[n/2] = fa[n/2] * fb[n/2]
	for k := 1; k < n/2; k++ {
		c := complex(fa[k], fa[n-k]) * complex(fb[k], fb[n-k])
		prod[k] = real(c)
		prod[n-k] = imag(c)
	}
	for i := range prod {
		prod[i] *= tr.Scale()
	}

	require.NoError(t, tr.Inverse(prod))
	assert.InDeltaSlice(t, want, prod, 1e-10)
}

func TestTransformLengthMismatch(t *testing.T) {
	tr, err := NewTransform(8)
	require.NoError(t, err)

	require.ErrorIs(t, tr.Forward(make([]float64, 7)), ErrLengthMismatch)
	require.ErrorIs(t, tr.Inverse(make([]float64, 16)), ErrLengthMismatch)
	require.ErrorIs(t, tr.OverrideWindow(make([]float64, 3)), ErrLengthMismatch)
}

func TestPreWindowing(t *testing.T) {
	const n = 16

	tr, err := NewTransform(n, WithWindow(window.TypeHann), WithWindowing(PreWindow))
	require.NoError(t, err)

	buf := testutil.Ones(n)
	require.NoError(t, tr.Forward(buf))

	plain, err := NewTransform(n)
	require.NoError(t, err)

	want := window.Generate(window.TypeHann, n)
	require.NoError(t, plain.Forward(want))
	assert.InDeltaSlice(t, want, buf, 1e-12)
}

func TestPostWindowing(t *testing.T) {
	const n = 8

	tr, err := NewTransform(n, WithWindowing(PostWindow))
	require.NoError(t, err)

	coeffs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	require.NoError(t, tr.OverrideWindow(coeffs))

	buf := testutil.Ones(n)
	require.NoError(t, tr.Forward(buf))
	require.NoError(t, tr.Inverse(buf))
	assert.InDeltaSlice(t, coeffs, buf, 1e-12)
}

func TestBinConversions(t *testing.T) {
	tr, err := NewTransform(1024)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0/48000*1024, tr.FreqToBin(1000, 48000), 1e-12)
	assert.InDelta(t, 24000.0, tr.BinToFreq(512, 48000), 1e-12)
	assert.InDelta(t, 0.0, tr.BinToFreq(0, 48000), 0)
}

func TestPackedHelpers(t *testing.T) {
	const n = 16

	x := testutil.DeterministicNoise(3, 1, n)
	ref := fourier.NewFFT(n).Coefficients(nil, x)

	tr, err := NewTransform(n)
	require.NoError(t, err)

	packed := append([]float64(nil), x...)
	require.NoError(t, tr.Forward(packed))

	bins := NumBins(n)
	mag := make([]float64, bins)
	pow := make([]float64, bins)
	phase := make([]float64, bins)
	require.NoError(t, Magnitude(mag, packed))
	require.NoError(t, Power(pow, packed))
	require.NoError(t, Phase(phase, packed))

	for k := range bins {
		c := ref[k] / complex(float64(n), 0)
		assert.InDelta(t, cmplx.Abs(c), mag[k], 1e-12, "mag[%d]", k)
		assert.InDelta(t, cmplx.Abs(c)*cmplx.Abs(c), pow[k], 1e-12, "pow[%d]", k)
		if k > 0 && k < bins-1 && cmplx.Abs(c) > 1e-9 {
			assert.InDelta(t, math.Atan2(imag(c), real(c)), phase[k], 1e-9, "phase[%d]", k)
		}
	}

	for _, k := range []int{0, bins - 1} {
		p := math.Abs(phase[k])
		assert.True(t, p == 0 || p == math.Pi, "real bin %d phase %v", k, phase[k])
	}

	re := make([]float64, bins)
	im := make([]float64, bins)
	require.NoError(t, SplitRealImag(re, im, packed))
	assert.Zero(t, im[0])
	assert.Zero(t, im[bins-1])

	merged := make([]float64, n)
	require.NoError(t, MergeRealImag(merged, re, im))
	assert.Equal(t, packed, merged)
}

func TestPackedHelperValidation(t *testing.T) {
	require.ErrorIs(t, Magnitude(make([]float64, 3), make([]float64, 6)), ErrInvalidSize)
	require.ErrorIs(t, Magnitude(make([]float64, 3), make([]float64, 8)), ErrLengthMismatch)
	require.ErrorIs(t, Phase(make([]float64, 2), make([]float64, 8)), ErrLengthMismatch)
	require.ErrorIs(t, SplitRealImag(make([]float64, 5), make([]float64, 4), make([]float64, 8)), ErrLengthMismatch)
	require.ErrorIs(t, MergeRealImag(make([]float64, 1), nil, nil), ErrInvalidSize)
}
