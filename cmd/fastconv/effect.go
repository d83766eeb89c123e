package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-fastconv/dsp/effects/modulation"
	"github.com/sirupsen/logrus"
)

const defaultVibratoDepthSeconds = 0.002

var errUnknownEffect = errors.New("unknown effect")

// effectConfig selects an optional modulation pass run after convolution.
// Negative rate or depth keeps the effect's own default.
type effectConfig struct {
	name         string
	rateHz       float64
	depthSeconds float64
}

func (c effectConfig) enabled() bool { return c.name != "" && c.name != "none" }

// channelEffect returns the processed channel, same length as its input.
type channelEffect func(x []float64) ([]float64, error)

func newChannelEffect(cfg effectConfig, sampleRate float64) (channelEffect, error) {
	switch cfg.name {
	case "vibrato":
		depth := defaultVibratoDepthSeconds
		if cfg.depthSeconds >= 0 {
			depth = cfg.depthSeconds
		}

		var opts []modulation.VibratoOption
		if cfg.rateHz >= 0 {
			opts = append(opts, modulation.WithVibratoRateHz(cfg.rateHz))
		}

		v, err := modulation.NewVibrato(sampleRate, depth, opts...)
		if err != nil {
			return nil, err
		}

		return func(x []float64) ([]float64, error) {
			// Pad by the centre delay and drop it again so the output stays
			// aligned with the input.
			lat := v.Latency()
			padded := make([]float64, len(x)+lat)
			copy(padded, x)

			if err := v.Process(padded, padded); err != nil {
				return nil, err
			}

			return padded[lat:], nil
		}, nil

	case "flanger":
		var opts []modulation.FlangerOption
		if cfg.rateHz >= 0 {
			opts = append(opts, modulation.WithFlangerRateHz(cfg.rateHz))
		}
		if cfg.depthSeconds >= 0 {
			opts = append(opts, modulation.WithFlangerDepthSeconds(cfg.depthSeconds))
		}

		f, err := modulation.NewFlanger(sampleRate, opts...)
		if err != nil {
			return nil, err
		}

		return func(x []float64) ([]float64, error) {
			return x, f.ProcessInPlace(x)
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownEffect, cfg.name)
}

// applyEffect runs a fresh effect instance per channel, concurrently.
// Every channel sees the same modulation phase.
func applyEffect(channels [][]float64, sampleRate int, cfg effectConfig) ([][]float64, error) {
	if !cfg.enabled() {
		return channels, nil
	}

	effects := make([]channelEffect, len(channels))
	for ch := range channels {
		e, err := newChannelEffect(cfg, float64(sampleRate))
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", cfg.name, err)
		}
		effects[ch] = e
	}

	logrus.WithFields(logrus.Fields{
		"effect": cfg.name,
		"rate":   cfg.rateHz,
		"depth":  cfg.depthSeconds,
	}).Debug("applying effect")

	out := make([][]float64, len(channels))
	errs := make([]error, len(channels))

	var wg sync.WaitGroup
	for ch, x := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[ch], errs[ch] = effects[ch](x)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("effect %s: %w", cfg.name, err)
	}

	return out, nil
}
