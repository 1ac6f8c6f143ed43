// Package quant implements the engine's scalar quantizer (component C):
// a dead-zone forward quantizer specified in reciprocal-multiply form,
// its exact inverse, an optional demo-only companding table, and
// optional run-length packing of quantized highpass rows.
package quant

import "github.com/gopro/cineform-wavelet/coeff"

// reciprocalShift is the fixed-point shift the reciprocal-multiply form
// uses: reciprocal(q) = (1<<reciprocalShift)/q, result = (m' * reciprocal(q)) >> reciprocalShift.
const reciprocalShift = 16

// reciprocal returns the (1<<16)/q fixed-point reciprocal of a positive
// quantization divisor, used by Forward in place of a runtime integer
// divide.
func reciprocal(q int) uint32 {
	return uint32(1<<reciprocalShift) / uint32(q)
}

// Forward quantizes one highpass coefficient with divisor q (q > 0),
// applying dead-zone rounding toward zero via the normative
// reciprocal-multiply form from the engine's quantizer design: rather
// than dividing, the magnitude is biased by (q>>1)-1 and multiplied by
// the precomputed reciprocal of q, then shifted back down.
func Forward(c coeff.Sample, q int) coeff.Sample {
	if q <= 1 {
		return c
	}
	if c == 0 {
		return 0
	}
	sign := int32(1)
	m := int32(c)
	if m < 0 {
		sign = -1
		m = -m
	}
	biased := uint32(m) + uint32(q>>1) - 1
	mPrime := int32((biased * reciprocal(q)) >> reciprocalShift)
	return coeff.Saturate(sign * mPrime)
}

// ForwardRow quantizes every coefficient in row in place.
func ForwardRow(row []coeff.Sample, q int) {
	if q <= 1 {
		return
	}
	for i, c := range row {
		row[i] = Forward(c, q)
	}
}

// Inverse reconstructs one coefficient from its quantized value: exact
// multiply, no rounding (spec's inverse is lossless given the forward
// already discarded the remainder).
func Inverse(c coeff.Sample, q int) coeff.Sample {
	if q <= 1 {
		return c
	}
	return coeff.Saturate(int32(c) * int32(q))
}

// InverseRow reconstructs every coefficient in row in place.
func InverseRow(row []coeff.Sample, q int) {
	if q <= 1 {
		return
	}
	for i, c := range row {
		row[i] = Inverse(c, q)
	}
}
