package conv

// multiplyAccumulate adds the complex product of the packed half-spectra a and
// b to dst. All three share the layout of spectrum.Transform: real parts at
// 0..n/2 and the imaginary part of bin k at n-k. Bins 0 and n/2 are real.
func multiplyAccumulate(dst, a, b []float64) {
	n := len(dst)
	half := n / 2

	dst[0] += a[0] * b[0]
	dst[half] += a[half] * b[half]

	for k := 1; k < half; k++ {
		ar, ai := a[k], a[n-k]
		br, bi := b[k], b[n-k]
		dst[k] += ar*br - ai*bi
		dst[n-k] += ar*bi + ai*br
	}
}

func isSilent(x []float64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}

	return true
}
