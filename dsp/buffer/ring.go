package buffer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLength is returned when a ring is constructed with a non-positive length.
var ErrInvalidLength = errors.New("buffer: invalid ring length")

// Ring is a fixed-capacity circular buffer with independent write (head) and
// read (tail) cursors. Both cursors wrap modulo Len().
//
// Ring performs no occupancy checks: writing past unread data overwrites it,
// and reading past written data returns stale values. Callers track their own
// fill level.
type Ring[T any] struct {
	buf  []T
	head int
	tail int
}

// NewRing returns a zero-filled ring of the given length.
func NewRing[T any](length int) (*Ring[T], error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	return &Ring[T]{buf: make([]T, length)}, nil
}

// Len returns the capacity of the ring.
func (r *Ring[T]) Len() int {
	return len(r.buf)
}

// PutPostInc stores v at the write index and advances it.
func (r *Ring[T]) PutPostInc(v T) {
	r.buf[r.head] = v
	r.head = r.inc(r.head)
}

// Put stores v at the write index without advancing it.
func (r *Ring[T]) Put(v T) {
	r.buf[r.head] = v
}

// GetPostInc returns the value at the read index and advances it.
func (r *Ring[T]) GetPostInc() T {
	v := r.buf[r.tail]
	r.tail = r.inc(r.tail)

	return v
}

// Get returns the value at tail+offset. Negative offsets reach back into
// history written before the read index.
func (r *Ring[T]) Get(offset int) T {
	return r.buf[r.wrap(r.tail+offset)]
}

// Window returns the full storage as two contiguous runs in chronological
// order. The last element of newer (or of older, when newer is empty) is the
// element at tail+offset.
func (r *Ring[T]) Window(offset int) (older, newer []T) {
	end := r.wrap(r.tail+offset) + 1

	return r.buf[end:], r.buf[:end]
}

// Reset zero-fills the storage and rewinds both cursors.
func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.head = 0
	r.tail = 0
}

// WriteIdx returns the write cursor.
func (r *Ring[T]) WriteIdx() int {
	return r.head
}

// ReadIdx returns the read cursor.
func (r *Ring[T]) ReadIdx() int {
	return r.tail
}

// SetWriteIdx moves the write cursor. idx is normalized modulo Len().
func (r *Ring[T]) SetWriteIdx(idx int) {
	r.head = r.wrap(idx)
}

// SetReadIdx moves the read cursor. idx is normalized modulo Len().
func (r *Ring[T]) SetReadIdx(idx int) {
	r.tail = r.wrap(idx)
}

// NumValuesInBuffer returns the number of unread values. A full ring and an
// empty ring both report 0.
func (r *Ring[T]) NumValuesInBuffer() int {
	if r.head >= r.tail {
		return r.head - r.tail
	}

	return r.head + len(r.buf) - r.tail
}

func (r *Ring[T]) inc(idx int) int {
	idx++
	if idx == len(r.buf) {
		return 0
	}

	return idx
}

func (r *Ring[T]) wrap(idx int) int {
	n := len(r.buf)
	idx %= n
	if idx < 0 {
		idx += n
	}

	return idx
}

// Interpolated reads r at the fractional position tail+offset using linear
// interpolation between the two neighbouring samples.
func Interpolated[F ~float32 | ~float64](r *Ring[F], offset float64) F {
	pos := float64(r.tail) + offset
	n := float64(len(r.buf))

	pos = math.Mod(pos, n)
	if pos < 0 {
		pos += n
	}

	i0 := int(pos)
	frac := F(pos - float64(i0))
	x0 := r.buf[r.wrap(i0)]
	x1 := r.buf[r.wrap(i0+1)]

	return x0 + frac*(x1-x0)
}
