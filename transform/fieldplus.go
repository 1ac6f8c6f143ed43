package transform

import (
	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/coeff"
	"github.com/gopro/cineform-wavelet/lift"
	"github.com/gopro/cineform-wavelet/quant"
)

// ForwardFieldPlus runs the FIELD-PLUS topology's forward driver: like
// ForwardField, but the spatial refinement levels run over both the
// temporal wavelet's lowpass band and its (still-quantized) highpass
// band, producing two parallel spatial-level chains. quantSpatialLL and
// quantSpatialHigh each hold one [3]int per spatial level (length
// Levels).
func (t *Transform) ForwardFieldPlus(frames [2][][]Sample, quantFrame [2][3]int, quantTemporal int, quantSpatialLL, quantSpatialHigh [][3]int) error {
	if err := t.requireState("ForwardFieldPlus", StateEmpty); err != nil {
		return err
	}
	if t.Topology != TopologyFieldPlus {
		return cferr.New("ForwardFieldPlus", cferr.BadArgument)
	}
	if len(quantSpatialLL) != t.Levels || len(quantSpatialHigh) != t.Levels {
		return cferr.New("ForwardFieldPlus", cferr.BadArgument)
	}

	t.state = StateForwarding
	t.Metrics.Begin("forward.fieldplus")
	defer t.Metrics.End("forward.fieldplus")

	var frameWavelets [2]*coeff.Wavelet
	for i := 0; i < 2; i++ {
		wv, err := t.frameLevelWavelet(frames[i], t.SrcWidth, t.SrcHeight, quantFrame[i])
		if err != nil {
			return err
		}
		frameWavelets[i] = wv
		t.Wavelets = append(t.Wavelets, wv)
	}

	temporalWv, err := temporalWavelet(frameWavelets[0].Bands[0], frameWavelets[1].Bands[0], quantTemporal)
	if err != nil {
		return err
	}
	t.Wavelets = append(t.Wavelets, temporalWv)
	t.level = 2

	if err := t.runSpatialChain(planeFromBand(temporalWv.Bands[0]), temporalWv.W, temporalWv.H, quantSpatialLL); err != nil {
		return err
	}
	// The highpass chain starts from the temporal band's own data as
	// stored, still in its quantized form; InverseFieldPlus's matching
	// half undoes the temporal quantization only after walking the
	// chain back to this same resolution.
	if err := t.runSpatialChain(planeFromBand(temporalWv.Bands[1]), temporalWv.W, temporalWv.H, quantSpatialHigh); err != nil {
		return err
	}
	// FIELD-PLUS runs two parallel spatial chains past the temporal
	// wavelet, so there is no single "current level" while either
	// chain is in progress; Level() only reports the final depth once
	// both have completed.
	t.level = 2 + t.Levels

	t.state = StateFull
	return nil
}

// runSpatialChain appends Levels spatial wavelets starting from plane,
// sharing the Prescale vector with every other chain in this
// transform.
func (t *Transform) runSpatialChain(plane [][]Sample, w, h int, q [][3]int) error {
	ll := plane
	for k := 1; k <= t.Levels; k++ {
		if shift := t.Prescale[k]; shift != 0 {
			shiftPlane(ll, shift)
		}
		next, nw, nh, err := t.spatialLevelWavelet(ll, w, h, q[k-1])
		if err != nil {
			return err
		}
		t.Wavelets = append(t.Wavelets, next)
		ll = planeFromBand(next.Bands[0])
		w, h = nw, nh
	}
	return nil
}

// invertSpatialChain walks a spatial-level chain (ordered level 1..N,
// shallowest first) back down to the plane that fed its first level,
// mechanically undoing Inverse2D and each level's prescale shift. It
// does not touch the quantization of the chain's base plane itself —
// callers decide whether that plane needs dequantizing.
func (t *Transform) invertSpatialChain(base *coeff.Band, chain []*coeff.Wavelet) ([][]Sample, error) {
	if len(chain) == 0 {
		return planeFromBand(base), nil
	}

	last := len(chain) - 1
	deepest := chain[last]
	inverseQuantizeHighpassBands(deepest)
	ll := planeFromBand(deepest.Bands[0])
	lh := planeFromBand(deepest.Bands[1])
	hl := planeFromBand(deepest.Bands[2])
	hh := planeFromBand(deepest.Bands[3])
	w, h := deepest.W, deepest.H

	for idx := last; idx >= 0; idx-- {
		scratch, err := t.scratchBytes("invertSpatialChain", lift.ScratchBytesFor2D(w*2, h*2))
		if err != nil {
			return nil, err
		}
		next, ok := lift.Inverse2DScratch(ll, lh, hl, hh, w*2, h*2, scratch)
		if !ok {
			return nil, cferr.New("invertSpatialChain", cferr.TransformMemory)
		}
		ll = next
		w, h = w*2, h*2
		if shift := t.Prescale[idx+1]; shift != 0 {
			unshiftPlane(ll, shift)
		}
		if idx > 0 {
			prev := chain[idx-1]
			inverseQuantizeHighpassBands(prev)
			lh = planeFromBand(prev.Bands[1])
			hl = planeFromBand(prev.Bands[2])
			hh = planeFromBand(prev.Bands[3])
		}
	}
	return ll, nil
}

// InverseFieldPlus is the exact inverse of ForwardFieldPlus.
func (t *Transform) InverseFieldPlus(dstA, dstB [][]Sample) error {
	if err := t.requireState("InverseFieldPlus", StateFull); err != nil {
		return err
	}
	if t.Topology != TopologyFieldPlus {
		return cferr.New("InverseFieldPlus", cferr.BadArgument)
	}
	if len(t.Wavelets) != 3+2*t.Levels {
		return cferr.New("InverseFieldPlus", cferr.Unexpected)
	}

	t.state = StateInverting
	t.Metrics.Begin("inverse.fieldplus")
	defer t.Metrics.End("inverse.fieldplus")

	llChainWavelets := t.Wavelets[3 : 3+t.Levels]
	highChainWavelets := t.Wavelets[3+t.Levels : 3+2*t.Levels]

	temporalWv := t.Wavelets[2]

	temporalLow, err := t.invertSpatialChain(temporalWv.Bands[0], llChainWavelets)
	if err != nil {
		return err
	}
	temporalHigh, err := t.invertSpatialChain(temporalWv.Bands[1], highChainWavelets)
	if err != nil {
		return err
	}
	for _, row := range temporalHigh {
		quant.InverseRow(row, temporalWv.Bands[1].Quant)
	}

	frameA, frameB := t.Wavelets[0], t.Wavelets[1]
	inverseQuantizeHighpassBands(frameA)
	inverseQuantizeHighpassBands(frameB)

	llA, llB := inverseTemporalPlanes(temporalLow, temporalHigh)

	reconstructFrameLevel(llA, planeFromBand(frameA.Bands[1]), planeFromBand(frameA.Bands[2]), planeFromBand(frameA.Bands[3]), dstA)
	reconstructFrameLevel(llB, planeFromBand(frameB.Bands[1]), planeFromBand(frameB.Bands[2]), planeFromBand(frameB.Bands[3]), dstB)

	t.state = StateEmpty
	return nil
}
