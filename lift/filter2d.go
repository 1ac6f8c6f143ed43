package lift

import "github.com/gopro/cineform-wavelet/coeff"

// Forward2D applies the separable 2-D wavelet transform to a plane: the
// 1-D horizontal kernel across every row, producing two half-width
// intermediate planes (lowpass strip, highpass strip), then the 1-D
// vertical kernel down those, producing the four output bands LL, LH,
// HL, HH. Every row in rows must have the given width, and width/height
// must be even.
func Forward2D(rows [][]Sample, width, height int) (ll, lh, hl, hh [][]Sample) {
	lowH := make([][]Sample, height)
	highH := make([][]Sample, height)
	for y := 0; y < height; y++ {
		lowH[y] = make([]Sample, width/2)
		highH[y] = make([]Sample, width/2)
		ForwardFast(rows[y], lowH[y], highH[y])
	}

	ll, lh = verticalForward(lowH, width/2)
	hl, hh = verticalForward(highH, width/2)
	return ll, lh, hl, hh
}

// Inverse2D is the exact inverse of Forward2D.
func Inverse2D(ll, lh, hl, hh [][]Sample, width, height int) [][]Sample {
	lowH := verticalInverse(ll, lh, width/2)
	highH := verticalInverse(hl, hh, width/2)

	rows := make([][]Sample, height)
	for y := 0; y < height; y++ {
		rows[y] = make([]Sample, width)
		InverseFast(lowH[y], highH[y], rows[y])
	}
	return rows
}

// ScratchBytesFor2D returns the number of scratch bytes
// Forward2DScratch/Inverse2DScratch need to stage a width x height
// plane: two half-width planes (the horizontally-filtered low/high
// strips), height rows each.
func ScratchBytesFor2D(width, height int) int {
	return 2 * height * (width / 2) * coeff.SampleSize
}

// Forward2DScratch behaves exactly like Forward2D, except the
// half-width lowpass/highpass staging planes it would otherwise
// allocate fresh are carved out of scratch instead, so a caller that
// owns a reusable scratch buffer (the transform engine, across frames
// and levels) never grows garbage for them. The four output bands
// (ll, lh, hl, hh) are always freshly allocated: they become permanent
// band storage, which per the engine's aliasing rule must never share
// memory with scratch. scratch must hold at least
// ScratchBytesFor2D(width, height) bytes; ok is false, with no other
// output produced, if it does not.
func Forward2DScratch(rows [][]Sample, width, height int, scratch []byte) (ll, lh, hl, hh [][]Sample, ok bool) {
	w2 := width / 2
	need := ScratchBytesFor2D(width, height)
	if len(scratch) < need {
		return nil, nil, nil, nil, false
	}
	flat := coeff.SamplesFromBytes(scratch[:need])
	lowH := planeView(flat[:height*w2], w2, height)
	highH := planeView(flat[height*w2:2*height*w2], w2, height)

	for y := 0; y < height; y++ {
		ForwardFast(rows[y], lowH[y], highH[y])
	}

	ll, lh = verticalForward(lowH, w2)
	hl, hh = verticalForward(highH, w2)
	return ll, lh, hl, hh, true
}

// Inverse2DScratch mirrors Forward2DScratch for the inverse direction.
// The reconstructed full-width rows are always freshly allocated (they
// are the caller's actual output plane); only the intermediate
// half-width staging planes come from scratch.
func Inverse2DScratch(ll, lh, hl, hh [][]Sample, width, height int, scratch []byte) (rows [][]Sample, ok bool) {
	w2 := width / 2
	need := ScratchBytesFor2D(width, height)
	if len(scratch) < need {
		return nil, false
	}
	flat := coeff.SamplesFromBytes(scratch[:need])
	lowH := planeView(flat[:height*w2], w2, height)
	highH := planeView(flat[height*w2:2*height*w2], w2, height)

	verticalInverseInto(ll, lh, w2, lowH)
	verticalInverseInto(hl, hh, w2, highH)

	rows = make([][]Sample, height)
	for y := 0; y < height; y++ {
		rows[y] = make([]Sample, width)
		InverseFast(lowH[y], highH[y], rows[y])
	}
	return rows, true
}

// planeView reinterprets a flat Sample buffer as height rows of width
// samples each, using full slice expressions so one row's append
// capacity can never spill into its neighbor.
func planeView(flat []Sample, width, height int) [][]Sample {
	rows := make([][]Sample, height)
	for y := 0; y < height; y++ {
		rows[y] = flat[y*width : (y+1)*width : (y+1)*width]
	}
	return rows
}

// PlaneView exports planeView for callers carving their own staging
// planes out of scratch memory outside of Forward2DScratch/
// Inverse2DScratch — e.g. a driver that composes the horizontal kernel
// with something other than the vertical wavelet pass.
func PlaneView(flat []Sample, width, height int) [][]Sample {
	return planeView(flat, width, height)
}

// verticalForward applies the vertical 1-D lifting step down a plane's
// rows, two rows at a time. The plane's lowpass band L is the
// elementwise sum of each row pair; L is computed for every pair up
// front (§4.2 describes this as a ring of buffered horizontal-result
// rows advancing two at a time — here the whole column of L-pairs is
// materialized at once, since a full plane, not a streaming row
// source, is what this package's callers hold) and then the same
// neighbor-difference correction filter1d.go uses per-sample is applied
// column-wise across each L row.
func verticalForward(rows [][]Sample, width int) (lowOut, highOut [][]Sample) {
	h := len(rows)
	m := h / 2
	lowOut = make([][]Sample, m)
	highOut = make([][]Sample, m)
	if m == 0 {
		return
	}

	for i := 0; i < m; i++ {
		lowOut[i] = make([]Sample, width)
		addRows(rows[2*i], rows[2*i+1], lowOut[i])
	}

	for i := 0; i < m; i++ {
		highOut[i] = make([]Sample, width)
		for x := 0; x < width; x++ {
			c := columnCorrection(lowOut, i, m, x)
			d := int32(rows[2*i][x]) - int32(rows[2*i+1][x])
			highOut[i][x] = coeff.Saturate(c + d)
		}
	}
	return lowOut, highOut
}

// verticalInverse is the exact inverse of verticalForward.
func verticalInverse(low, high [][]Sample, width int) [][]Sample {
	rows := make([][]Sample, 2*len(low))
	for i := range rows {
		rows[i] = make([]Sample, width)
	}
	verticalInverseInto(low, high, width, rows)
	return rows
}

// verticalInverseInto is verticalInverse writing into caller-supplied
// row storage (dst must hold 2*len(low) rows of width samples each)
// instead of allocating its own, so Inverse2DScratch can target
// scratch-carved rows directly.
func verticalInverseInto(low, high [][]Sample, width int, dst [][]Sample) {
	m := len(low)
	for i := 0; i < m; i++ {
		a, b := dst[2*i], dst[2*i+1]
		for x := 0; x < width; x++ {
			c := columnCorrection(low, i, m, x)
			d := int32(high[i][x]) - c
			sum := int32(low[i][x])
			a[x] = coeff.Saturate((sum + d) >> 1)
			b[x] = coeff.Saturate((sum - d) >> 1)
		}
	}
}

// columnCorrection is correction (filter1d.go) generalized to operate
// on one column x of a plane of lowpass rows rather than a single
// scalar array, so the vertical pass shares the exact same border/
// interior formula the horizontal pass uses.
func columnCorrection(low [][]Sample, i, m, x int) int32 {
	if m < 3 {
		return 0
	}
	switch {
	case i == 0:
		return (-3*int32(low[0][x]) + 4*int32(low[1][x]) - int32(low[2][x]) + 4) >> 3
	case i == m-1:
		return (3*int32(low[m-1][x]) - 4*int32(low[m-2][x]) + int32(low[m-3][x]) + 4) >> 3
	default:
		return (int32(low[i+1][x]) - int32(low[i-1][x]) + 4) >> 3
	}
}

// addRows writes a[x]+b[x] (saturated) into out for every x.
func addRows(a, b, out []Sample) {
	for x := range out {
		out[x] = coeff.Saturate(int32(a[x]) + int32(b[x]))
	}
}
