package conv

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine is the streaming convolution facade. It owns at most one strategy,
// selected by Mode at Init, and forwards processing to it.
//
// The zero value is an uninitialized engine: Process and Flush return
// ErrNotInitialized and TailLength returns -1 until Init succeeds.
//
// Engine is not safe for concurrent use; run one engine per channel.
type Engine struct {
	conv  Convolver
	mode  Mode
	zeros []float64 // flush input, sized to the tail
}

// NewEngine returns an engine initialized with ir and opts.
func NewEngine(ir []float64, opts ...Option) (*Engine, error) {
	e := &Engine{}
	if err := e.Init(ir, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Init validates the configuration, builds the selected strategy for ir and
// installs it. Any previous strategy is replaced. On error the engine keeps
// its previous state.
//
// Defaults: ModeFreqDomain with DefaultBlockLength. The block length is only
// checked for ModeFreqDomain.
func (e *Engine) Init(ir []float64, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(&cfg)
	}

	var (
		c   Convolver
		err error
	)

	switch cfg.mode {
	case ModeTimeDomain:
		c, err = NewDirectConvolution(ir)
	case ModeFreqDomain:
		c, err = NewBlockConvolution(ir, cfg.blockLength)
	default:
		err = fmt.Errorf("%w: %v", ErrInvalidMode, cfg.mode)
	}

	if err != nil {
		return err
	}

	e.conv = c
	e.mode = cfg.mode
	e.zeros = make([]float64, c.TailLength())

	fields := logrus.Fields{
		"function":   "Init",
		"mode":       cfg.mode.String(),
		"kernel_len": len(ir),
		"tail":       c.TailLength(),
	}
	if bc, ok := c.(*BlockConvolution); ok {
		fields["block_length"] = bc.BlockLength()
		fields["partitions"] = bc.NumBlocks()
	}
	logrus.WithFields(fields).Debug("convolution engine initialized")

	return nil
}

// Process convolves input into output through the active strategy.
// len(output) must be at least len(input); only the first len(input)
// samples of output are written.
func (e *Engine) Process(output, input []float64) error {
	if e.conv == nil {
		return ErrNotInitialized
	}
	if len(output) < len(input) {
		return fmt.Errorf("%w: output %d < input %d", ErrLengthMismatch, len(output), len(input))
	}

	return e.conv.Process(output[:len(input)], input)
}

// Flush feeds TailLength zeros through the engine and writes the resulting
// tail into output, which must hold at least TailLength samples. Calling
// Process afterwards continues the stream as if the zeros were real input.
func (e *Engine) Flush(output []float64) error {
	if e.conv == nil {
		return ErrNotInitialized
	}

	tail := len(e.zeros)
	if len(output) < tail {
		return fmt.Errorf("%w: output %d < tail %d", ErrLengthMismatch, len(output), tail)
	}

	return e.conv.Process(output[:tail], e.zeros)
}

// TailLength returns the number of samples Flush produces, or -1 if the
// engine is not initialized.
func (e *Engine) TailLength() int {
	if e.conv == nil {
		return -1
	}

	return e.conv.TailLength()
}

// Latency returns the strategy latency in samples, or 0 if the engine is not
// initialized.
func (e *Engine) Latency() int {
	if e.conv == nil {
		return 0
	}

	return e.conv.Latency()
}

// Mode returns the mode of the active strategy.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Initialized reports whether a strategy is installed.
func (e *Engine) Initialized() bool {
	return e.conv != nil
}

// Clear resets the signal history of the active strategy, keeping the
// impulse response. It is a no-op on an uninitialized engine.
func (e *Engine) Clear() {
	if e.conv != nil {
		e.conv.Reset()
	}
}

// Reset discards the active strategy and returns the engine to the
// uninitialized state.
func (e *Engine) Reset() {
	if e.conv != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Reset",
			"mode":     e.mode.String(),
		}).Debug("convolution engine reset")
	}

	e.conv = nil
	e.mode = 0
	e.zeros = nil
}
