// Package lift implements the engine's 1-D and 2-D lifting filter
// kernels (component B): a single biorthogonal wavelet pair applied
// throughout the codec, with explicit inner/top-border/bottom-border
// variants and a conformance-tested SIMD accelerator for the interior
// path (see filter_simd.go).
package lift

import "github.com/gopro/cineform-wavelet/coeff"

// Sample is an alias for the engine's coefficient type, so callers of
// this package rarely need to import coeff directly for row/column
// buffers.
type Sample = coeff.Sample

// minWidthForBorders is the shortest row the 6-tap highpass border
// formulas can evaluate without reading past either end (three pairs:
// §4.2's top-border formula reaches s[0..5], the bottom-border formula
// reaches s[n-6..n-1]).
const minWidthForBorders = 6

// Forward1D applies the forward lowpass/highpass lifting pair to one
// row (or column) of samples. len(s) must be even; odd-length input is
// a caller precondition violation that this package does not check (the
// transform engine rejects odd frame dimensions and pads nothing).
func Forward1D(s []Sample) (low, high []Sample) {
	m := len(s) / 2
	low = make([]Sample, m)
	high = make([]Sample, m)
	ForwardInto(s, low, high)
	return low, high
}

// ForwardInto writes the forward transform of s into low and high,
// which must each have length len(s)/2.
func ForwardInto(s []Sample, low, high []Sample) {
	m := len(s) / 2
	for i := 0; i < m; i++ {
		low[i] = coeff.Saturate(int32(s[2*i]) + int32(s[2*i+1]))
	}
	forwardHighInterior(s, low, high, 0, m)
}

// forwardHighInterior fills high[lo:hi) from s and the already-computed
// low array. It is factored out so the SIMD accelerator in
// filter_simd.go can replace the bulk of the range (the true interior,
// excluding the first and last pair) while this scalar form remains the
// reference implementation and the border/tail fallback.
func forwardHighInterior(s, low, high []Sample, lo, hi int) {
	m := len(low)
	for i := lo; i < hi; i++ {
		c := correction(low, i, m)
		d := int32(s[2*i]) - int32(s[2*i+1])
		high[i] = coeff.Saturate(c + d)
	}
}

// Inverse1D reconstructs a row from its lowpass/highpass pair.
func Inverse1D(low, high []Sample) []Sample {
	s := make([]Sample, 2*len(low))
	InverseInto(low, high, s)
	return s
}

// InverseInto writes the inverse transform of low/high into s, which
// must have length 2*len(low).
func InverseInto(low, high []Sample, s []Sample) {
	inverseInterior(low, high, s, 0, len(low))
}

func inverseInterior(low, high, s []Sample, lo, hi int) {
	m := len(low)
	for i := lo; i < hi; i++ {
		c := correction(low, i, m)
		d := int32(high[i]) - c // s[2i] - s[2i+1], exact
		sum := int32(low[i])    // s[2i] + s[2i+1], exact
		s[2*i] = coeff.Saturate((sum + d) >> 1)
		s[2*i+1] = coeff.Saturate((sum - d) >> 1)
	}
}

// correction computes the rounded, shifted neighbor term that the
// forward highpass formula folds into H(i). Algebraically expanding the
// spec's literal 6-tap formulas (§4.2) shows each one decomposes into
// s[2i]-s[2i+1] plus a term depending only on the lowpass sums L of the
// current pair's neighbors:
//
//	interior: C(i) = (L(i+1) - L(i-1) + 4) >> 3
//	top      (i=0):   C(0)   = (-3*L(0) + 4*L(1) - L(2)   + 4) >> 3
//	bottom (i=m-1):   C(m-1) = ( 3*L(m-1) - 4*L(m-2) + L(m-3) + 4) >> 3
//
// Deriving the correction purely from L (rather than from raw samples)
// is what makes the inverse exactly invertible: L is the transmitted
// lowpass band, already available to the decoder without needing the
// original samples back.
func correction(low []Sample, i, m int) int32 {
	if m < 3 {
		return 0
	}
	switch {
	case i == 0:
		return (-3*int32(low[0]) + 4*int32(low[1]) - int32(low[2]) + 4) >> 3
	case i == m-1:
		return (3*int32(low[m-1]) - 4*int32(low[m-2]) + int32(low[m-3]) + 4) >> 3
	default:
		return (int32(low[i+1]) - int32(low[i-1]) + 4) >> 3
	}
}
