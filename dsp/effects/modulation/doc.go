// Package modulation provides delay-line modulation effects driven by a
// wavetable LFO.
//
// Included processors:
//   - LFO: Wavetable sine oscillator with fractional-phase readout.
//   - Vibrato: Pitch modulation via a swept delay around a fixed centre.
//   - Flanger: Short modulated delay with feedback and wet/dry mix.
package modulation
