package spectrum

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for packed-to-split unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// NumBins returns the number of distinct bins (n/2+1) in a packed spectrum of
// length n.
func NumBins(n int) int {
	return n/2 + 1
}

func checkPacked(packed []float64) error {
	n := len(packed)
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	return nil
}

// SplitRealImag unpacks a packed spectrum into separate real and imaginary
// parts of length n/2+1. The imaginary parts of bins 0 and n/2 are zero.
func SplitRealImag(re, im, packed []float64) error {
	if err := checkPacked(packed); err != nil {
		return err
	}

	n := len(packed)
	bins := NumBins(n)
	if len(re) != bins || len(im) != bins {
		return fmt.Errorf("%w: expected %d bins", ErrLengthMismatch, bins)
	}

	copy(re, packed[:bins])
	im[0] = 0
	im[bins-1] = 0
	for k := 1; k < bins-1; k++ {
		im[k] = packed[n-k]
	}

	return nil
}

// MergeRealImag packs real and imaginary parts of length n/2+1 into packed,
// which must have length n. The imaginary parts of bins 0 and n/2 are dropped.
func MergeRealImag(packed, re, im []float64) error {
	if err := checkPacked(packed); err != nil {
		return err
	}

	n := len(packed)
	bins := NumBins(n)
	if len(re) != bins || len(im) != bins {
		return fmt.Errorf("%w: expected %d bins", ErrLengthMismatch, bins)
	}

	copy(packed[:bins], re)
	for k := 1; k < bins-1; k++ {
		packed[n-k] = im[k]
	}

	return nil
}

// Magnitude writes |X[k]| for the n/2+1 bins of a packed spectrum into dst.
func Magnitude(dst, packed []float64) error {
	return fromParts(dst, packed, vecmath.Magnitude)
}

// Power writes |X[k]|^2 for the n/2+1 bins of a packed spectrum into dst.
func Power(dst, packed []float64) error {
	return fromParts(dst, packed, vecmath.Power)
}

func fromParts(dst, packed []float64, kernel func(dst, re, im []float64)) error {
	if err := checkPacked(packed); err != nil {
		return err
	}

	bins := NumBins(len(packed))
	if len(dst) != bins {
		return fmt.Errorf("%w: expected %d bins, got %d", ErrLengthMismatch, bins, len(dst))
	}

	re, im, buf := getScratch(bins)
	defer putScratch(buf)

	if err := SplitRealImag(re, im, packed); err != nil {
		return err
	}

	kernel(dst, re, im)

	return nil
}

// Phase writes the phase angle in radians of each of the n/2+1 bins into dst.
func Phase(dst, packed []float64) error {
	if err := checkPacked(packed); err != nil {
		return err
	}

	n := len(packed)
	bins := NumBins(n)
	if len(dst) != bins {
		return fmt.Errorf("%w: expected %d bins, got %d", ErrLengthMismatch, bins, len(dst))
	}

	dst[0] = math.Atan2(0, packed[0])
	dst[bins-1] = math.Atan2(0, packed[bins-1])
	for k := 1; k < bins-1; k++ {
		dst[k] = math.Atan2(packed[n-k], packed[k])
	}

	return nil
}
