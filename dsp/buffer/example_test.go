package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-fastconv/dsp/buffer"
)

func ExampleRing() {
	r, err := buffer.NewRing[float64](4)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.PutPostInc(v)
	}

	// Point the read cursor at the newest sample.
	r.SetReadIdx(r.WriteIdx() - 1)

	older, newer := r.Window(0)
	fmt.Println(older, newer)
	fmt.Println(r.Get(0), r.Get(-3), buffer.Interpolated(r, -0.5))

	// Output:
	// [2 3 4] [5]
	// 5 2 4.5
}
