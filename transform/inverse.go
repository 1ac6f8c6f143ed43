package transform

import (
	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/coeff"
	"github.com/gopro/cineform-wavelet/lift"
	"github.com/gopro/cineform-wavelet/quant"
)

// InverseSpatial reconstructs a frame plane from a SPATIAL-topology
// pyramid, walking from the deepest wavelet toward level 1 per
// spec.md §4.4. dst must already be allocated to SrcHeight rows of
// SrcWidth samples.
func (t *Transform) InverseSpatial(dst [][]Sample) error {
	if err := t.requireState("InverseSpatial", StateFull); err != nil {
		return err
	}
	if t.Topology != TopologySpatial {
		return cferr.New("InverseSpatial", cferr.BadArgument)
	}
	if len(t.Wavelets) != 1+t.Levels {
		return cferr.New("InverseSpatial", cferr.Unexpected)
	}

	t.state = StateInverting
	t.Metrics.Begin("inverse.spatial")
	defer t.Metrics.End("inverse.spatial")

	// Each wavelet's highpass bands are dequantized exactly once: the
	// deepest wavelet here, every other wavelet[idx-1] the one time the
	// loop below reaches it.
	last := len(t.Wavelets) - 1
	deepest := t.Wavelets[last]
	inverseQuantizeHighpassBands(deepest)
	ll := planeFromBand(deepest.Bands[0])
	lh := planeFromBand(deepest.Bands[1])
	hl := planeFromBand(deepest.Bands[2])
	hh := planeFromBand(deepest.Bands[3])
	w, h := deepest.W, deepest.H

	for idx := last; idx >= 1; idx-- {
		scratch, err := t.scratchBytes("InverseSpatial", lift.ScratchBytesFor2D(w*2, h*2))
		if err != nil {
			return err
		}
		next, ok := lift.Inverse2DScratch(ll, lh, hl, hh, w*2, h*2, scratch)
		if !ok {
			return cferr.New("InverseSpatial", cferr.TransformMemory)
		}
		ll = next
		w, h = w*2, h*2
		if shift := t.Prescale[idx]; shift != 0 {
			unshiftPlane(ll, shift)
		}

		prev := t.Wavelets[idx-1]
		inverseQuantizeHighpassBands(prev)
		lh = planeFromBand(prev.Bands[1])
		hl = planeFromBand(prev.Bands[2])
		hh = planeFromBand(prev.Bands[3])
	}

	reconstructFrameLevel(ll, lh, hl, hh, dst)

	t.state = StateEmpty
	return nil
}

// reconstructFrameLevel inverts the level-1 frame filter: the inverse
// temporal split reconstructs each horizontally-filtered row pair, then
// the horizontal inverse filter reconstructs the full-width row.
func reconstructFrameLevel(ll, lh, hl, hh [][]Sample, dst [][]Sample) {
	h2 := len(ll)
	for i := 0; i < h2; i++ {
		w2 := len(ll[i])
		lowRowA := make([]Sample, w2)
		lowRowB := make([]Sample, w2)
		highRowA := make([]Sample, w2)
		highRowB := make([]Sample, w2)
		lift.InverseTemporalRow(ll[i], lh[i], lowRowA, lowRowB)
		lift.InverseTemporalRow(hl[i], hh[i], highRowA, highRowB)

		lift.InverseFast(lowRowA, highRowA, dst[2*i])
		lift.InverseFast(lowRowB, highRowB, dst[2*i+1])
	}
}

func inverseQuantizeHighpassBands(wv *coeff.Wavelet) {
	for i := 1; i <= 3; i++ {
		b := wv.Bands[i]
		for y := 0; y < b.H; y++ {
			quant.InverseRow(b.Row(y), b.Quant)
		}
	}
}

func unshiftPlane(plane [][]Sample, shift int) {
	for _, row := range plane {
		for x, v := range row {
			row[x] = coeff.Saturate(int32(v) << uint(shift))
		}
	}
}
