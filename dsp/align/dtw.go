package align

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotInitialized is returned by Process before Init or after Reset.
	ErrNotInitialized = errors.New("align: not initialized")

	// ErrInvalidArgument reports bad dimensions or a missing distance matrix.
	ErrInvalidArgument = errors.New("align: invalid argument")
)

// step is the move that reached a cell, pointing back to its predecessor.
type step uint8

const (
	stepDiag step = iota // from (row-1, col-1)
	stepUp               // from (row-1, col)
	stepLeft             // from (row, col-1)
)

var stepOffsets = [...][2]int{
	stepDiag: {-1, -1},
	stepUp:   {-1, 0},
	stepLeft: {0, -1},
}

// DTW accumulates a distance matrix into a cost matrix and backtracks the
// cheapest monotonic path from (0, 0) to (rows-1, cols-1). The zero value
// is uninitialized.
type DTW struct {
	rows, cols int
	cost       *mat.Dense
	parent     []step
	path       [][2]int
}

// New returns a DTW initialized for rows×cols distance matrices.
func New(rows, cols int) (*DTW, error) {
	d := &DTW{}
	if err := d.Init(rows, cols); err != nil {
		return nil, err
	}

	return d, nil
}

// Init allocates the cost and parent matrices. A failed Init leaves the
// previous state untouched.
func (d *DTW) Init(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: dimensions %d×%d", ErrInvalidArgument, rows, cols)
	}

	parent := make([]step, rows*cols)
	for c := range cols {
		parent[c] = stepLeft
	}
	for r := range rows {
		parent[r*cols] = stepUp
	}
	parent[0] = stepDiag

	d.rows, d.cols = rows, cols
	d.cost = mat.NewDense(rows, cols, nil)
	d.parent = parent
	d.path = nil

	return nil
}

// Reset releases the matrices and returns d to the uninitialized state.
func (d *DTW) Reset() {
	*d = DTW{}
}

// Initialized reports whether Init has succeeded since the last Reset.
func (d *DTW) Initialized() bool { return d.cost != nil }

// Dims returns the expected distance matrix shape, 0×0 when uninitialized.
func (d *DTW) Dims() (rows, cols int) { return d.rows, d.cols }

// Process computes the optimal path through distance, which must match
// the initialized shape. Among equal predecessor costs the diagonal wins,
// then up, then left.
func (d *DTW) Process(distance mat.Matrix) error {
	if !d.Initialized() {
		return ErrNotInitialized
	}
	if distance == nil {
		return fmt.Errorf("%w: nil distance matrix", ErrInvalidArgument)
	}
	if r, c := distance.Dims(); r != d.rows || c != d.cols {
		return fmt.Errorf("%w: distance is %d×%d, want %d×%d", ErrInvalidArgument, r, c, d.rows, d.cols)
	}

	acc := 0.0
	for c := range d.cols {
		acc += distance.At(0, c)
		d.cost.Set(0, c, acc)
	}

	acc = 0
	for r := range d.rows {
		acc += distance.At(r, 0)
		d.cost.Set(r, 0, acc)
	}

	for r := 1; r < d.rows; r++ {
		for c := 1; c < d.cols; c++ {
			best, bestCost := stepDiag, math.Inf(1)
			for s, off := range stepOffsets {
				if v := d.cost.At(r+off[0], c+off[1]); v < bestCost {
					best, bestCost = step(s), v
				}
			}

			d.parent[r*d.cols+c] = best
			d.cost.Set(r, c, distance.At(r, c)+bestCost)
		}
	}

	d.backtrack()

	return nil
}

func (d *DTW) backtrack() {
	path := make([][2]int, 0, d.rows+d.cols-1)

	r, c := d.rows-1, d.cols-1
	for r >= 0 && c >= 0 {
		path = append(path, [2]int{r, c})
		off := stepOffsets[d.parent[r*d.cols+c]]
		r += off[0]
		c += off[1]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	d.path = path
}

// PathLength returns the number of cells on the last computed path.
func (d *DTW) PathLength() int { return len(d.path) }

// PathCost returns the accumulated cost at (rows-1, cols-1) of the last
// Process, or 0 when nothing has been processed.
func (d *DTW) PathCost() float64 {
	if d.path == nil {
		return 0
	}

	return d.cost.At(d.rows-1, d.cols-1)
}

// Path returns a copy of the last computed path as (row, col) pairs,
// starting at (0, 0).
func (d *DTW) Path() [][2]int {
	if d.path == nil {
		return nil
	}

	out := make([][2]int, len(d.path))
	copy(out, d.path)

	return out
}

// AbsDistance returns the len(x)×len(y) matrix of |x[i]-y[j]|.
func AbsDistance(x, y []float64) (*mat.Dense, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidArgument)
	}

	m := mat.NewDense(len(x), len(y), nil)
	for i, a := range x {
		for j, b := range y {
			m.Set(i, j, math.Abs(a-b))
		}
	}

	return m, nil
}
