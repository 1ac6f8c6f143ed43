package transform

import (
	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/coeff"
	"github.com/gopro/cineform-wavelet/lift"
	"github.com/gopro/cineform-wavelet/quant"
)

// Sample is an alias kept local to this package for readability; it is
// always coeff.Sample.
type Sample = coeff.Sample

// Subband naming convention for every coeff.Wavelet this package
// produces: Bands[0..3] are always LL, LH, HL, HH, where the first
// letter names the horizontal (row) filter result and the second the
// vertical (column) filter result.

// ForwardSpatial runs the SPATIAL topology's forward driver over one
// frame plane. quant3 must have Levels+1 entries: quant3[0] is the
// frame-level wavelet's three highpass divisors, quant3[k] (k=1..Levels)
// the divisors for spatial level k.
func (t *Transform) ForwardSpatial(frame [][]Sample, quant3 [][3]int) error {
	if err := t.requireState("ForwardSpatial", StateEmpty); err != nil {
		return err
	}
	if t.Topology != TopologySpatial {
		return cferr.New("ForwardSpatial", cferr.BadArgument)
	}
	if len(quant3) != t.Levels+1 {
		return cferr.New("ForwardSpatial", cferr.BadArgument)
	}
	if len(frame) != t.SrcHeight {
		return cferr.New("ForwardSpatial", cferr.BadArgument)
	}

	t.state = StateForwarding
	t.Metrics.Begin("forward.spatial")
	defer t.Metrics.End("forward.spatial")

	wv, err := t.frameLevelWavelet(frame, t.SrcWidth, t.SrcHeight, quant3[0])
	if err != nil {
		return err
	}
	t.Wavelets = append(t.Wavelets, wv)
	t.level = 1

	ll := planeFromBand(wv.Bands[0])
	w, h := wv.W, wv.H
	for k := 1; k <= t.Levels; k++ {
		if shift := t.Prescale[k]; shift != 0 {
			shiftPlane(ll, shift)
		}
		next, nw, nh, err := t.spatialLevelWavelet(ll, w, h, quant3[k])
		if err != nil {
			return err
		}
		t.Wavelets = append(t.Wavelets, next)
		t.level = k + 1
		ll = planeFromBand(next.Bands[0])
		w, h = nw, nh
	}

	t.state = StateFull
	return nil
}

// newLevelWavelet allocates a 4-band wavelet for one forward level,
// picking the layout spec.md §4.1 calls for: stacked when t.RowConsumed
// says the bands will be read back one row at a time (this transform's
// own inverse drivers always do), the classic interleaved quad layout
// otherwise.
func (t *Transform) newLevelWavelet(w, h int, hpq [3]int) (*coeff.Wavelet, error) {
	if t.RowConsumed {
		return coeff.NewStackedWavelet(w, h, hpq)
	}
	return coeff.NewQuadWavelet(w, h, hpq)
}

// frameLevelWavelet computes the level-1 wavelet from a raw frame
// plane: a vertical temporal-style (sum/difference) split of even/odd
// rows composed with the horizontal 6-tap filter, per spec.md §4.4 —
// distinct from the full 2-D spatial filter used at every subsequent
// level. The horizontal pass's staging planes are carved out of the
// transform's scratch buffer rather than allocated fresh every call.
func (t *Transform) frameLevelWavelet(frame [][]Sample, width, height int, hpq [3]int) (*coeff.Wavelet, error) {
	if height%2 != 0 {
		return nil, cferr.New("frameLevelWavelet", cferr.BadArgument)
	}
	w2, h2 := width/2, height/2

	scratch, err := t.scratchBytes("frameLevelWavelet", lift.ScratchBytesFor2D(width, height))
	if err != nil {
		return nil, err
	}
	flat := coeff.SamplesFromBytes(scratch)
	lowH := lift.PlaneView(flat[:height*w2], w2, height)
	highH := lift.PlaneView(flat[height*w2:2*height*w2], w2, height)
	for y := 0; y < height; y++ {
		lift.ForwardFast(frame[y], lowH[y], highH[y])
	}

	wv, err := t.newLevelWavelet(w2, h2, hpq)
	if err != nil {
		return nil, err
	}

	for i := 0; i < h2; i++ {
		llRow := wv.Bands[0].Row(i)
		lhRow := wv.Bands[1].Row(i)
		hlRow := wv.Bands[2].Row(i)
		hhRow := wv.Bands[3].Row(i)
		lift.TemporalRow(lowH[2*i], lowH[2*i+1], llRow, lhRow)
		lift.TemporalRow(highH[2*i], highH[2*i+1], hlRow, hhRow)
	}

	quantizeHighpassBands(wv)
	return wv, nil
}

// spatialLevelWavelet applies the full 2-D lifting step to an LL plane
// and quantizes the three new highpass bands, staging the horizontal
// pass's intermediate planes in the transform's scratch buffer.
func (t *Transform) spatialLevelWavelet(ll [][]Sample, width, height int, hpq [3]int) (*coeff.Wavelet, int, int, error) {
	if width%2 != 0 || height%2 != 0 {
		return nil, 0, 0, cferr.New("spatialLevelWavelet", cferr.BadArgument)
	}
	scratch, err := t.scratchBytes("spatialLevelWavelet", lift.ScratchBytesFor2D(width, height))
	if err != nil {
		return nil, 0, 0, err
	}
	llOut, lhOut, hlOut, hhOut, ok := lift.Forward2DScratch(ll, width, height, scratch)
	if !ok {
		return nil, 0, 0, cferr.New("spatialLevelWavelet", cferr.TransformMemory)
	}
	w2, h2 := width/2, height/2

	wv, err := t.newLevelWavelet(w2, h2, hpq)
	if err != nil {
		return nil, 0, 0, err
	}
	copyPlaneIntoBand(llOut, wv.Bands[0])
	copyPlaneIntoBand(lhOut, wv.Bands[1])
	copyPlaneIntoBand(hlOut, wv.Bands[2])
	copyPlaneIntoBand(hhOut, wv.Bands[3])
	quantizeHighpassBands(wv)
	return wv, w2, h2, nil
}

func quantizeHighpassBands(wv *coeff.Wavelet) {
	for i := 1; i <= 3; i++ {
		b := wv.Bands[i]
		for y := 0; y < b.H; y++ {
			quant.ForwardRow(b.Row(y), b.Quant)
		}
	}
}

func shiftPlane(plane [][]Sample, shift int) {
	for _, row := range plane {
		for x, v := range row {
			row[x] = coeff.Saturate(int32(v) >> uint(shift))
		}
	}
}

func planeFromBand(b *coeff.Band) [][]Sample {
	rows := make([][]Sample, b.H)
	for y := 0; y < b.H; y++ {
		row := make([]Sample, b.W)
		copy(row, b.Row(y))
		rows[y] = row
	}
	return rows
}

func copyPlaneIntoBand(plane [][]Sample, b *coeff.Band) {
	for y := 0; y < b.H; y++ {
		copy(b.Row(y), plane[y])
	}
}
