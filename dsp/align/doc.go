// Package align finds the minimum-cost alignment between two sequences
// with dynamic time warping.
//
// A DTW is sized once with Init and can then process any number of
// rows×cols distance matrices of that shape:
//
//	var d align.DTW
//	if err := d.Init(len(x), len(y)); err != nil { ... }
//	dist, _ := align.AbsDistance(x, y)
//	if err := d.Process(dist); err != nil { ... }
//	for _, p := range d.Path() { ... } // p[0] indexes x, p[1] indexes y
package align
