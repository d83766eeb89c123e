package conv

import (
	"fmt"

	"github.com/cwbudde/algo-fastconv/dsp/spectrum"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// BlockConvolution is a streaming frequency-domain convolver using uniformly
// partitioned overlap-add.
//
// The impulse response is split into ceil(len(ir)/L) blocks of L samples,
// each zero-padded to 2L and transformed once. Input is collected into blocks
// of L samples; every completed block is transformed and multiplied against
// all impulse response partitions, pairing partition j with the input block
// received j blocks earlier. The first half of the inverse transform is
// emitted over the next L samples while the second half carries over into the
// following block.
//
// Output is delayed by exactly L samples.
type BlockConvolution struct {
	blockLength int
	numBlocks   int
	kernelLen   int

	fft *spectrum.Transform

	// irSpectra and history hold numBlocks spectra of 2L values each.
	// irSpectra is scaled by the transform gain so the product needs no
	// further correction.
	irSpectra []float64
	history   []float64
	silent    []bool

	current      int // history slot being filled
	indexInBlock int

	// quiet counts trailing zero input samples, saturating at the tail length.
	// Once it reaches the tail every pending output is zero by construction.
	quiet int

	acc   []float64 // 2L, first half is the pending output block
	saved []float64 // L, second half carried from the previous block
}

// NewBlockConvolution creates a frequency-domain convolver for ir with the
// given block length, which must be a positive power of two.
func NewBlockConvolution(ir []float64, blockLength int) (*BlockConvolution, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulseResponse
	}
	if !isPowerOf2(blockLength) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockLength, blockLength)
	}

	fftSize := 2 * blockLength

	fft, err := spectrum.NewTransform(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create transform: %w", err)
	}

	numBlocks := (len(ir) + blockLength - 1) / blockLength

	b := &BlockConvolution{
		blockLength: blockLength,
		numBlocks:   numBlocks,
		kernelLen:   len(ir),
		fft:         fft,
		irSpectra:   make([]float64, numBlocks*fftSize),
		history:     make([]float64, numBlocks*fftSize),
		silent:      make([]bool, numBlocks),
		acc:         make([]float64, fftSize),
		saved:       make([]float64, blockLength),
	}

	scale := fft.Scale()
	for j := range numBlocks {
		part := b.irBlock(j)
		start := j * blockLength
		end := min(start+blockLength, len(ir))
		copy(part, ir[start:end])

		if err := fft.Forward(part); err != nil {
			return nil, fmt.Errorf("conv: failed to transform impulse response: %w", err)
		}
		f64.Scale(part, part, scale)
	}

	b.Reset()

	return b, nil
}

// Process convolves input into output. len(output) must be at least len(input).
// Input may be of any length; blocks are completed across calls.
func (b *BlockConvolution) Process(output, input []float64) error {
	if len(output) < len(input) {
		return ErrLengthMismatch
	}

	tail := b.TailLength()

	for i, x := range input {
		if b.quiet >= tail {
			output[i] = 0
		} else {
			output[i] = b.acc[b.indexInBlock]
		}

		if x != 0 {
			b.quiet = 0
		} else if b.quiet < tail {
			b.quiet++
		}

		b.slot(b.current)[b.indexInBlock] = x
		b.indexInBlock++

		if b.indexInBlock == b.blockLength {
			if err := b.processBlock(); err != nil {
				return err
			}
		}
	}

	return nil
}

// processBlock transforms the completed input block and computes the next
// output block.
func (b *BlockConvolution) processBlock() error {
	cur := b.slot(b.current)
	clear(cur[b.blockLength:])

	b.silent[b.current] = isSilent(cur[:b.blockLength])
	if !b.silent[b.current] {
		if err := b.fft.Forward(cur); err != nil {
			return fmt.Errorf("conv: forward transform failed: %w", err)
		}
	}

	copy(b.saved, b.acc[b.blockLength:])
	clear(b.acc)

	active := false
	for j := range b.numBlocks {
		idx := (b.current - j + b.numBlocks) % b.numBlocks
		if b.silent[idx] {
			continue
		}

		multiplyAccumulate(b.acc, b.irBlock(j), b.slot(idx))
		active = true
	}

	if active {
		if err := b.fft.Inverse(b.acc); err != nil {
			return fmt.Errorf("conv: inverse transform failed: %w", err)
		}
	}

	floats.Add(b.acc[:b.blockLength], b.saved)

	b.current = (b.current + 1) % b.numBlocks
	b.indexInBlock = 0

	return nil
}

// TailLength returns len(ir) - 1 + L.
func (b *BlockConvolution) TailLength() int {
	return b.kernelLen - 1 + b.blockLength
}

// Latency returns the block length.
func (b *BlockConvolution) Latency() int {
	return b.blockLength
}

// KernelLen returns the impulse response length.
func (b *BlockConvolution) KernelLen() int {
	return b.kernelLen
}

// BlockLength returns L.
func (b *BlockConvolution) BlockLength() int {
	return b.blockLength
}

// NumBlocks returns the number of impulse response partitions.
func (b *BlockConvolution) NumBlocks() int {
	return b.numBlocks
}

// Reset clears the input history and the overlap state, keeping the
// impulse response spectra.
func (b *BlockConvolution) Reset() {
	clear(b.history)
	clear(b.acc)
	clear(b.saved)

	for i := range b.silent {
		b.silent[i] = true
	}

	b.current = 0
	b.indexInBlock = 0
	b.quiet = b.TailLength()
}

func (b *BlockConvolution) slot(i int) []float64 {
	n := 2 * b.blockLength
	return b.history[i*n : (i+1)*n]
}

func (b *BlockConvolution) irBlock(j int) []float64 {
	n := 2 * b.blockLength
	return b.irSpectra[j*n : (j+1)*n]
}
