// Package conv provides streaming FIR convolution of a single channel against
// a fixed impulse response.
//
// Two strategies are available:
//
//   - DirectConvolution: time-domain dot product per sample. No latency,
//     O(len(ir)) work per sample.
//   - BlockConvolution: uniformly partitioned overlap-add in the frequency
//     domain. Latency equals the block length L, roughly O(log L) work per
//     sample per partition.
//
// Engine wraps either strategy behind a single Init/Process/Flush/Reset
// lifecycle. After the last input sample, Flush emits TailLength further
// samples so the output contains the complete linear convolution:
// len(ir)-1 samples for the time domain, len(ir)-1+L for the frequency
// domain including its latency.
//
// Both strategies accept input in chunks of any size and produce the same
// output regardless of how the stream is split.
//
// Direct and Convolve provide one-shot convolution of complete signals.
package conv
