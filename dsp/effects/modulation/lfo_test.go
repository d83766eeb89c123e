package modulation

import (
	"math"
	"testing"
)

func TestLFOQuarterRateHitsPeaks(t *testing.T) {
	l, err := NewLFO(4000, WithLFOFrequency(1000), WithLFOAmplitude(2))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	want := []float64{0, 2, 0, -2, 0, 2, 0, -2}
	for i, w := range want {
		if got := l.Process(); math.Abs(got-w) > 1e-12 {
			t.Fatalf("sample %d: got=%g want=%g", i, got, w)
		}
	}
}

func TestLFOMatchesSine(t *testing.T) {
	const (
		sampleRate = 48000.0
		freq       = 3.7
	)

	l, err := NewLFO(sampleRate, WithLFOFrequency(freq))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	for i := range 20000 {
		want := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		if got := l.Process(); math.Abs(got-want) > 1e-6 {
			t.Fatalf("sample %d: got=%g want=%g", i, got, want)
		}
	}
}

func TestLFOReset(t *testing.T) {
	l, err := NewLFO(1000, WithLFOFrequency(7))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	first := make([]float64, 50)
	for i := range first {
		first[i] = l.Process()
	}

	l.Reset()

	for i := range first {
		if got := l.Process(); got != first[i] {
			t.Fatalf("sample %d after reset: got=%g want=%g", i, got, first[i])
		}
	}
}

func TestLFOZeroFrequencyHoldsPhase(t *testing.T) {
	l, err := NewLFO(1000, WithLFOFrequency(0))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	for i := range 10 {
		if got := l.Process(); got != 0 {
			t.Fatalf("sample %d: got=%g want=0", i, got)
		}
	}
}

func TestLFOValidation(t *testing.T) {
	if _, err := NewLFO(0); err == nil {
		t.Fatal("NewLFO() expected error for zero sample rate")
	}

	if _, err := NewLFO(1000, WithLFOResolution(1)); err == nil {
		t.Fatal("NewLFO() expected error for resolution 1")
	}

	if _, err := NewLFO(1000, WithLFOFrequency(-1)); err == nil {
		t.Fatal("NewLFO() expected error for negative frequency")
	}

	if _, err := NewLFO(1000, WithLFOFrequency(600)); err == nil {
		t.Fatal("NewLFO() expected error for frequency above Nyquist")
	}

	if _, err := NewLFO(1000, WithLFOAmplitude(math.Inf(1))); err == nil {
		t.Fatal("NewLFO() expected error for infinite amplitude")
	}

	l, err := NewLFO(1000, WithLFOResolution(64))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	if l.Resolution() != 64 || l.SampleRate() != 1000 {
		t.Fatalf("unexpected LFO: resolution=%d sampleRate=%g", l.Resolution(), l.SampleRate())
	}

	if l.Frequency() != defaultLFOFrequency || l.Amplitude() != defaultLFOAmplitude {
		t.Fatalf("unexpected defaults: frequency=%g amplitude=%g", l.Frequency(), l.Amplitude())
	}

	if err := l.SetFrequency(501); err == nil {
		t.Fatal("SetFrequency() expected error above Nyquist")
	}

	if err := l.SetAmplitude(math.NaN()); err == nil {
		t.Fatal("SetAmplitude() expected error for NaN")
	}

	if err := l.SetFrequency(20); err != nil || l.Frequency() != 20 {
		t.Fatalf("SetFrequency() = %v, frequency=%g", err, l.Frequency())
	}
}
