// Command fastconv convolves a WAV file with an impulse response.
//
// Usage:
//
//	fastconv [flags] ir.wav input.wav output.wav
//
// The first channel of the impulse response is applied to every input
// channel. The output holds the complete convolution, len(input)+len(ir)-1
// frames, at the input sample rate. An optional -effect pass (vibrato or
// flanger) is applied per channel after convolution and before normalizing.
//
// Examples:
//
//	fastconv hall.wav dry.wav wet.wav
//	fastconv -mode time -normalize cabinet.wav guitar.wav out.wav
//	fastconv -block 1024 -bits 24 -v room.wav voice.wav out.wav
//	fastconv -effect flanger -effect-rate 0.5 plate.wav synth.wav out.wav
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-fastconv/dsp/conv"
	"github.com/sirupsen/logrus"
)

const normalizePeak = 0.989 // about -0.1 dBFS

type config struct {
	irPath      string
	inputPath   string
	outputPath  string
	mode        conv.Mode
	blockLength int
	bitDepth    int
	normalize   bool
	effect      effectConfig
}

func main() {
	mode := flag.String("mode", "freq", "convolution mode: freq or time")
	block := flag.Int("block", conv.DefaultBlockLength, "block length for freq mode (power of two)")
	bits := flag.Int("bits", 0, "output bit depth: 16, 24 or 32 (0 keeps the input depth)")
	norm := flag.Bool("normalize", false, "scale output to a peak just below full scale")
	effect := flag.String("effect", "none", "post-convolution effect: none, vibrato or flanger")
	effectRate := flag.Float64("effect-rate", -1, "effect modulation rate in Hz (negative keeps the default)")
	effectDepth := flag.Float64("effect-depth", -1, "effect modulation depth in seconds (negative keeps the default)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastconv [flags] ir.wav input.wav output.wav\n\n")
		fmt.Fprintf(os.Stderr, "Convolves input.wav with the impulse response in ir.wav.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := conv.ParseMode(*mode)
	if err != nil {
		logrus.WithError(err).Error("invalid -mode")
		os.Exit(2)
	}

	cfg := config{
		irPath:      flag.Arg(0),
		inputPath:   flag.Arg(1),
		outputPath:  flag.Arg(2),
		mode:        m,
		blockLength: *block,
		bitDepth:    *bits,
		normalize:   *norm,
		effect: effectConfig{
			name:         *effect,
			rateHz:       *effectRate,
			depthSeconds: *effectDepth,
		},
	}

	if err := run(cfg); err != nil {
		logrus.WithError(err).Error("fastconv failed")
		os.Exit(1)
	}
}

func run(cfg config) error {
	start := time.Now()

	ir, err := readWAV(cfg.irPath)
	if err != nil {
		return fmt.Errorf("impulse response: %w", err)
	}

	input, err := readWAV(cfg.inputPath)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"ir_frames":    ir.frames(),
		"ir_rate":      ir.sampleRate,
		"input_frames": input.frames(),
		"input_rate":   input.sampleRate,
		"channels":     len(input.channels),
		"mode":         cfg.mode.String(),
	}).Info("loaded audio")

	kernel, err := prepareIR(ir, input.sampleRate)
	if err != nil {
		return err
	}

	out, err := convolveChannels(input.channels, kernel,
		conv.WithMode(cfg.mode), conv.WithBlockLength(cfg.blockLength))
	if err != nil {
		return err
	}

	out, err = applyEffect(out, input.sampleRate, cfg.effect)
	if err != nil {
		return err
	}

	if cfg.normalize {
		gain := normalize(out, normalizePeak)
		logrus.WithField("gain", gain).Debug("normalized output")
	}

	bitDepth := input.bitDepth
	if cfg.bitDepth != 0 {
		bitDepth = cfg.bitDepth
	}

	result := &signal{
		sampleRate: input.sampleRate,
		bitDepth:   bitDepth,
		channels:   out,
	}
	if err := writeWAV(cfg.outputPath, result); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"output":  cfg.outputPath,
		"frames":  result.frames(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("done")

	return nil
}
