package main

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-fastconv/dsp/conv"
	"github.com/sirupsen/logrus"
	resampler "github.com/tphakala/go-audio-resampler"
	"gonum.org/v1/gonum/floats"
)

// prepareIR returns the first channel of ir, resampled to targetRate when
// the rates differ.
func prepareIR(ir *signal, targetRate int) ([]float64, error) {
	mono := ir.channels[0]
	if ir.sampleRate == targetRate {
		return mono, nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "prepareIR",
		"from":     ir.sampleRate,
		"to":       targetRate,
	}).Info("resampling impulse response")

	out, err := resampler.ResampleMono(mono, float64(ir.sampleRate), float64(targetRate), resampler.QualityHigh)
	if err != nil {
		return nil, fmt.Errorf("failed to resample impulse response: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("impulse response is empty after resampling")
	}

	return out, nil
}

// convolveChannels convolves every channel with ir on its own engine and
// returns the full linear convolution per channel. Channels run concurrently.
func convolveChannels(channels [][]float64, ir []float64, opts ...conv.Option) ([][]float64, error) {
	out := make([][]float64, len(channels))
	errs := make([]error, len(channels))

	var wg sync.WaitGroup
	for ch, x := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[ch], errs[ch] = conv.Convolve(x, ir, opts...)
		}()
	}
	wg.Wait()

	for ch, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
	}

	return out, nil
}

// normalize scales all channels by a common factor so the peak magnitude
// equals target. Silent input is left unchanged.
func normalize(channels [][]float64, target float64) float64 {
	peak := 0.0
	for _, x := range channels {
		peak = math.Max(peak, floats.Norm(x, math.Inf(1)))
	}
	if peak == 0 {
		return 1
	}

	gain := target / peak
	for _, x := range channels {
		floats.Scale(gain, x)
	}

	return gain
}
