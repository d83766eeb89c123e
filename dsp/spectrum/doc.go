// Package spectrum provides the real-valued spectral transform used by block
// convolution and helpers for its packed spectrum layout.
//
// A packed spectrum of length n stores
//
//	re(0), re(1), ..., re(n/2), im(n/2-1), ..., im(1)
//
// so the imaginary part of bin k (0 < k < n/2) lives at index n-k.
//
// Forward carries the 1/n normalization and Inverse does not, so the
// product of two forward spectra must be scaled by Transform.Scale before
// Inverse to yield their circular convolution.
package spectrum
