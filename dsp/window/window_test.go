package window

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKnownValues(t *testing.T) {
	tests := []struct {
		typ  Type
		want []float64
	}{
		{TypeRectangular, []float64{1, 1, 1, 1}},
		{TypeHann, []float64{0, 0.75, 0.75, 0}},
		{TypeHamming, []float64{0.08, 0.77, 0.77, 0.08}},
		{TypeSine, []float64{0, math.Sin(math.Pi / 3), math.Sin(2 * math.Pi / 3), 0}},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			got := Generate(tc.typ, 4)
			require.Len(t, got, 4)
			assert.InDeltaSlice(t, tc.want, got, 1e-12)
		})
	}
}

func TestGenerateDegenerateLengths(t *testing.T) {
	assert.Nil(t, Generate(TypeHann, 0))
	assert.Nil(t, Generate(TypeHann, -3))
	assert.Equal(t, []float64{1}, Generate(TypeHann, 1))
}

func TestGenerateSymmetric(t *testing.T) {
	for _, typ := range []Type{TypeSine, TypeHann, TypeHamming} {
		w := Generate(typ, 33)
		for i := range w {
			assert.InDelta(t, w[i], w[len(w)-1-i], 1e-12, "%s[%d]", typ, i)
		}
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	buf := []float64{1, 2, 3}
	require.NoError(t, ApplyCoefficientsInPlace(buf, []float64{2, 0.5, 0}))
	assert.Equal(t, []float64{2, 1, 0}, buf)

	require.Error(t, ApplyCoefficientsInPlace(buf, []float64{1}))
}

func TestTypeValid(t *testing.T) {
	assert.True(t, TypeHamming.Valid())
	assert.False(t, Type(-1).Valid())
	assert.False(t, Type(42).Valid())
	assert.Equal(t, "unknown", Type(42).String())
}

func ExampleGenerate() {
	w := Generate(TypeHann, 4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}
