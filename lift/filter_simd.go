package lift

import (
	"github.com/ajroetker/go-highway/hwy"
	"github.com/gopro/cineform-wavelet/coeff"
)

// ForwardHighSIMD fills high[1:m-1] (the true interior, excluding the
// first and last pair which use the asymmetric border correction) using
// go-highway's portable vector API, hwy.MaxLanes[int16]() lanes per
// iteration (8 on a 128-bit target, more on wider ones; the lane count
// is not fixed at 8), falling back to the scalar kernel for the
// width-mod-lanes tail
// and for the border pairs themselves — the same split lifting_base.go
// uses for its own 5/3 lifting steps (hwy.Vec bulk path, scalar
// boundary/tail).
//
// hwy's portable surface exposes Load/Store/Set/Add/Sub but not a
// shift-right or saturating-add primitive, so the rounding shift and
// the final saturate are still done on the scalar buffer the vector
// lanes are staged through — mirroring BaseScaleSlice's load/compute/
// store shape in lifting_base.go.
func ForwardHighSIMD(s, low, high []Sample) {
	m := len(low)
	if m <= 2 {
		forwardHighInterior(s, low, high, 0, m)
		return
	}

	lanes := hwy.MaxLanes[int16]()
	lo, hi := 1, m-1 // interior range; 0 and m-1 stay scalar (border formula)

	i := lo
	for ; i+lanes <= hi; i += lanes {
		lowPrev := loadSamples(low, i-1, lanes)
		lowNext := loadSamples(low, i+1, lanes)
		diffVec := hwy.Sub(lowNext, lowPrev)
		cVec := hwy.Add(diffVec, hwy.Set(int16(4)))

		var cBuf [128]int16
		hwy.Store(cVec, cBuf[:lanes])

		for k := 0; k < lanes; k++ {
			c := int32(cBuf[k]) >> 3
			d := int32(s[2*(i+k)]) - int32(s[2*(i+k)+1])
			high[i+k] = coeff.Saturate(c + d)
		}
	}

	// Scalar: the top border pair, whatever remainder the vector loop
	// didn't cover (width mod lanes), and the bottom border pair.
	forwardHighInterior(s, low, high, 0, lo)
	forwardHighInterior(s, low, high, i, hi)
	forwardHighInterior(s, low, high, hi, m)
}

// InverseSIMD mirrors ForwardHighSIMD for the inverse direction.
func InverseSIMD(low, high, s []Sample) {
	m := len(low)
	if m <= 2 {
		inverseInterior(low, high, s, 0, m)
		return
	}

	lanes := hwy.MaxLanes[int16]()
	lo, hi := 1, m-1

	i := lo
	for ; i+lanes <= hi; i += lanes {
		lowPrev := loadSamples(low, i-1, lanes)
		lowNext := loadSamples(low, i+1, lanes)
		diffVec := hwy.Sub(lowNext, lowPrev)
		cVec := hwy.Add(diffVec, hwy.Set(int16(4)))

		var cBuf [128]int16
		hwy.Store(cVec, cBuf[:lanes])

		for k := 0; k < lanes; k++ {
			c := int32(cBuf[k]) >> 3
			d := int32(high[i+k]) - c
			sum := int32(low[i+k])
			s[2*(i+k)] = coeff.Saturate((sum + d) >> 1)
			s[2*(i+k)+1] = coeff.Saturate((sum - d) >> 1)
		}
	}

	inverseInterior(low, high, s, 0, lo)
	inverseInterior(low, high, s, i, hi)
	inverseInterior(low, high, s, hi, m)
}

// simdThreshold is the smallest interior width worth paying vector
// setup cost for; narrower rows (most bottom-of-pyramid levels) run the
// scalar path directly.
const simdThreshold = 32

// ForwardFast runs the forward 1-D kernel, choosing the SIMD interior
// path when the row is wide enough to amortize it and falling back to
// the scalar reference otherwise. Both paths are conformance tested
// against each other in filter_simd_test.go.
func ForwardFast(s, low, high []Sample) {
	for i := range low {
		low[i] = coeff.Saturate(int32(s[2*i]) + int32(s[2*i+1]))
	}
	if len(low) >= simdThreshold {
		ForwardHighSIMD(s, low, high)
		return
	}
	forwardHighInterior(s, low, high, 0, len(low))
}

// InverseFast mirrors ForwardFast for the inverse direction.
func InverseFast(low, high, s []Sample) {
	if len(low) >= simdThreshold {
		InverseSIMD(low, high, s)
		return
	}
	inverseInterior(low, high, s, 0, len(low))
}

// loadSamples builds a lanes-wide int16 vector from
// coeff.Sample values starting at low[start]. coeff.Sample is defined as
// int16 (coeff.Sample = int16 conversions are exact, no truncation).
func loadSamples(low []Sample, start, lanes int) hwy.Vec[int16] {
	var buf [128]int16
	for k := 0; k < lanes; k++ {
		buf[k] = int16(low[start+k])
	}
	return hwy.Load(buf[:lanes])
}
