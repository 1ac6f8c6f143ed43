package transform

import (
	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/coeff"
	"github.com/gopro/cineform-wavelet/lift"
	"github.com/gopro/cineform-wavelet/quant"
)

// ForwardField runs the FIELD topology's forward driver: each of the
// two input frames gets its own frame-level wavelet, a temporal
// wavelet is built from their two LL bands, and the spatial refinement
// levels run on the temporal wavelet's lowpass band only.
//
// quantFrame holds the two frames' highpass divisors (one [3]int per
// frame); quantTemporal is the temporal wavelet's single highpass
// divisor; quantSpatial holds one [3]int per spatial level (length
// Levels).
func (t *Transform) ForwardField(frames [2][][]Sample, quantFrame [2][3]int, quantTemporal int, quantSpatial [][3]int) error {
	if err := t.requireState("ForwardField", StateEmpty); err != nil {
		return err
	}
	if t.Topology != TopologyField {
		return cferr.New("ForwardField", cferr.BadArgument)
	}
	if len(quantSpatial) != t.Levels {
		return cferr.New("ForwardField", cferr.BadArgument)
	}

	t.state = StateForwarding
	t.Metrics.Begin("forward.field")
	defer t.Metrics.End("forward.field")

	var frameWavelets [2]*coeff.Wavelet
	for i := 0; i < 2; i++ {
		wv, err := t.frameLevelWavelet(frames[i], t.SrcWidth, t.SrcHeight, quantFrame[i])
		if err != nil {
			return err
		}
		frameWavelets[i] = wv
		t.Wavelets = append(t.Wavelets, wv)
	}
	t.level = 1

	temporalWv, err := temporalWavelet(frameWavelets[0].Bands[0], frameWavelets[1].Bands[0], quantTemporal)
	if err != nil {
		return err
	}
	t.Wavelets = append(t.Wavelets, temporalWv)
	t.level = 2

	ll := planeFromBand(temporalWv.Bands[0])
	w, h := temporalWv.W, temporalWv.H
	for k := 1; k <= t.Levels; k++ {
		if shift := t.Prescale[k]; shift != 0 {
			shiftPlane(ll, shift)
		}
		next, nw, nh, err := t.spatialLevelWavelet(ll, w, h, quantSpatial[k-1])
		if err != nil {
			return err
		}
		t.Wavelets = append(t.Wavelets, next)
		t.level = k + 2
		ll = planeFromBand(next.Bands[0])
		w, h = nw, nh
	}

	t.state = StateFull
	return nil
}

// InverseField is the exact inverse of ForwardField. dstA and dstB must
// already be allocated to SrcHeight rows of SrcWidth samples.
func (t *Transform) InverseField(dstA, dstB [][]Sample) error {
	if err := t.requireState("InverseField", StateFull); err != nil {
		return err
	}
	if t.Topology != TopologyField {
		return cferr.New("InverseField", cferr.BadArgument)
	}
	if len(t.Wavelets) != 3+t.Levels {
		return cferr.New("InverseField", cferr.Unexpected)
	}

	t.state = StateInverting
	t.Metrics.Begin("inverse.field")
	defer t.Metrics.End("inverse.field")

	last := len(t.Wavelets) - 1
	deepest := t.Wavelets[last]
	ll := planeFromBand(deepest.Bands[0])
	var lh, hl, hh [][]Sample
	if last >= 3 {
		inverseQuantizeHighpassBands(deepest)
		lh = planeFromBand(deepest.Bands[1])
		hl = planeFromBand(deepest.Bands[2])
		hh = planeFromBand(deepest.Bands[3])
	}
	w, h := deepest.W, deepest.H

	// Spatial levels sit above the temporal wavelet (index 2), so the
	// prescale index used here is offset by the two frame-level
	// wavelets: idx-2 recovers the spatial-level number 1..Levels.
	for idx := last; idx >= 3; idx-- {
		scratch, err := t.scratchBytes("InverseField", lift.ScratchBytesFor2D(w*2, h*2))
		if err != nil {
			return err
		}
		next, ok := lift.Inverse2DScratch(ll, lh, hl, hh, w*2, h*2, scratch)
		if !ok {
			return cferr.New("InverseField", cferr.TransformMemory)
		}
		ll = next
		w, h = w*2, h*2
		if shift := t.Prescale[idx-2]; shift != 0 {
			unshiftPlane(ll, shift)
		}
		if idx > 3 {
			prev := t.Wavelets[idx-1]
			inverseQuantizeHighpassBands(prev)
			lh = planeFromBand(prev.Bands[1])
			hl = planeFromBand(prev.Bands[2])
			hh = planeFromBand(prev.Bands[3])
		}
	}

	temporalWv := t.Wavelets[2]
	for y := 0; y < temporalWv.Bands[1].H; y++ {
		quant.InverseRow(temporalWv.Bands[1].Row(y), temporalWv.Bands[1].Quant)
	}
	temporalHigh := planeFromBand(temporalWv.Bands[1])

	frameA, frameB := t.Wavelets[0], t.Wavelets[1]
	inverseQuantizeHighpassBands(frameA)
	inverseQuantizeHighpassBands(frameB)

	llA, llB := inverseTemporalPlanes(ll, temporalHigh)

	reconstructFrameLevel(llA, planeFromBand(frameA.Bands[1]), planeFromBand(frameA.Bands[2]), planeFromBand(frameA.Bands[3]), dstA)
	reconstructFrameLevel(llB, planeFromBand(frameB.Bands[1]), planeFromBand(frameB.Bands[2]), planeFromBand(frameB.Bands[3]), dstB)

	t.state = StateEmpty
	return nil
}

// temporalWavelet builds a 2-band TEMPORAL wavelet from two frames'
// LL bands via the engine's inter-frame lifting step, quantizing the
// highpass band in place.
func temporalWavelet(a, b *coeff.Band, q int) (*coeff.Wavelet, error) {
	wv, err := coeff.NewPairWavelet(coeff.ShapeTemporal, a.W, a.H, q)
	if err != nil {
		return nil, err
	}
	for y := 0; y < a.H; y++ {
		lift.TemporalRow(a.Row(y), b.Row(y), wv.Bands[0].Row(y), wv.Bands[1].Row(y))
	}
	for y := 0; y < wv.Bands[1].H; y++ {
		quant.ForwardRow(wv.Bands[1].Row(y), wv.Bands[1].Quant)
	}
	return wv, nil
}

// inverseTemporalPlanes reconstructs the two original frame-level LL
// planes from a temporal wavelet's dequantized lowpass/highpass planes.
func inverseTemporalPlanes(low, high [][]Sample) (a, b [][]Sample) {
	h := len(low)
	a = make([][]Sample, h)
	b = make([][]Sample, h)
	for y := 0; y < h; y++ {
		a[y] = make([]Sample, len(low[y]))
		b[y] = make([]Sample, len(low[y]))
		lift.InverseTemporalRow(low[y], high[y], a[y], b[y])
	}
	return a, b
}
