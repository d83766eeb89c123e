package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			require.FailNowf(t, "slice mismatch", "index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireRelativelyEqual fails t if any element of got deviates from want by
// more than eps times the peak magnitude of want.
func RequireRelativelyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	peak := 0.0
	for _, v := range want {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		peak = 1
	}
	RequireSliceNearlyEqual(t, got, want, eps*peak)
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			require.FailNowf(t, "non-finite value", "index %d: %v", i, v)
		}
	}
}
