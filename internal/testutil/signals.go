package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// IrregularChunks is a chunk schedule summing to 10000 that mixes single
// samples with runs spanning several internal blocks.
var IrregularChunks = []int{1, 13, 1023, 2048, 1, 17, 5000, 1897}

// ProcessFunc writes len(in) output samples for in.
type ProcessFunc func(out, in []float64) error

// ProcessInChunks feeds input through process using the given chunk sizes and
// returns the concatenated output. Chunks must sum to len(input).
func ProcessInChunks(process ProcessFunc, input []float64, chunks []int) ([]float64, error) {
	out := make([]float64, len(input))
	pos := 0
	for _, n := range chunks {
		if err := process(out[pos:pos+n], input[pos:pos+n]); err != nil {
			return nil, err
		}
		pos += n
	}
	return out, nil
}

// Delayed returns x shifted right by delay samples, truncated to length.
func Delayed(x []float64, delay, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		j := i - delay
		if j >= 0 && j < len(x) {
			out[i] = x[j]
		}
	}
	return out
}
