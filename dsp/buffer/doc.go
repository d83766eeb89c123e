// Package buffer provides a generic fixed-capacity ring buffer with
// independent read and write cursors, used as history storage by the
// convolution, comb and modulation packages.
package buffer
