package conv

import (
	"github.com/cwbudde/algo-fastconv/dsp/buffer"
	"github.com/tphakala/simd/f64"
)

// DirectConvolution is a streaming time-domain convolver. Each output sample
// is the dot product of the impulse response with the most recent len(ir)
// input samples. It adds no latency.
type DirectConvolution struct {
	kernel  []float64 // impulse response reversed, aligned with chronological history
	history *buffer.Ring[float64]
}

// NewDirectConvolution creates a time-domain convolver for ir. The impulse
// response is copied.
func NewDirectConvolution(ir []float64) (*DirectConvolution, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulseResponse
	}

	history, err := buffer.NewRing[float64](len(ir))
	if err != nil {
		return nil, err
	}

	kernel := make([]float64, len(ir))
	for i, v := range ir {
		kernel[len(ir)-1-i] = v
	}

	return &DirectConvolution{
		kernel:  kernel,
		history: history,
	}, nil
}

// Process convolves input into output. len(output) must be at least len(input).
func (d *DirectConvolution) Process(output, input []float64) error {
	if len(output) < len(input) {
		return ErrLengthMismatch
	}

	for i, x := range input {
		d.history.PutPostInc(x)

		older, newer := d.history.Window(0)
		split := len(older)

		acc := f64.DotProduct(d.kernel[split:], newer)
		if split > 0 {
			acc += f64.DotProduct(d.kernel[:split], older)
		}
		output[i] = acc

		d.history.GetPostInc()
	}

	return nil
}

// TailLength returns len(ir) - 1.
func (d *DirectConvolution) TailLength() int {
	return len(d.kernel) - 1
}

// Latency returns 0.
func (d *DirectConvolution) Latency() int {
	return 0
}

// KernelLen returns the impulse response length.
func (d *DirectConvolution) KernelLen() int {
	return len(d.kernel)
}

// Reset clears the input history.
func (d *DirectConvolution) Reset() {
	d.history.Reset()
}
