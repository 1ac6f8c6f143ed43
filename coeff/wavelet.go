package coeff

import "github.com/gopro/cineform-wavelet/cferr"

// CacheLineSize is the strip alignment used by the stacked allocation
// layout, distinct from the coarser Alignment every band's pitch must
// satisfy.
const CacheLineSize = 64

// Wavelet is the set of bands produced by one forward 2-D transform
// step: they share width, height, level and pitch (§3 invariant).
type Wavelet struct {
	Shape Shape
	Level int

	W, H  int
	Pitch int // bytes, shared by every band of this wavelet

	Bands [4]*Band

	owned bool // true iff this Wavelet's slab was allocated by this package
	slab  []byte
}

// BandCount reports the number of populated bands (Shape.BandCount()).
func (wv *Wavelet) BandCount() int { return wv.Shape.BandCount() }

// NewQuadWavelet allocates a 4-band wavelet image as a single block of
// 2*h*pitch bytes, 16-byte base aligned, laid out as rows of
// band0|band1 in the upper half and band2|band3 in the lower half (the
// classic interleaved quad layout). w and h are the per-band dimensions.
func NewQuadWavelet(w, h int, quant [3]int) (*Wavelet, error) {
	if w <= 0 || h <= 0 {
		return nil, cferr.New("NewQuadWavelet", cferr.BadArgument)
	}
	pitch := AlignUp(2*w*SampleSize, Alignment)
	blockSize := 2 * h * pitch
	slab, err := allocSlab(blockSize)
	if err != nil {
		return nil, err
	}

	wv := &Wavelet{Shape: ShapeSpatial, W: w, H: h, Pitch: pitch, owned: true, slab: slab}
	wv.Bands[0] = bandView(slab, 0, w, h, pitch, PixelUnsigned16, 1)
	wv.Bands[1] = bandView(slab, w*SampleSize, w, h, pitch, PixelSigned16, quant[0])
	lowerHalf := h * pitch
	wv.Bands[2] = bandView(slab, lowerHalf, w, h, pitch, PixelSigned16, quant[1])
	wv.Bands[3] = bandView(slab, lowerHalf+w*SampleSize, w, h, pitch, PixelSigned16, quant[2])
	return wv, nil
}

// NewStackedWavelet allocates a 4-band wavelet image as four vertically
// adjacent strips, each base address aligned to CacheLineSize. The
// engine selects this layout when bands will be consumed row-at-a-time
// during inverse transform.
func NewStackedWavelet(w, h int, quant [3]int) (*Wavelet, error) {
	if w <= 0 || h <= 0 {
		return nil, cferr.New("NewStackedWavelet", cferr.BadArgument)
	}
	pitch := AlignUp(w*SampleSize, Alignment)
	stripBytes := AlignUp(h*pitch, CacheLineSize)
	slab, err := allocSlab(4 * stripBytes)
	if err != nil {
		return nil, err
	}

	wv := &Wavelet{Shape: ShapeSpatial, W: w, H: h, Pitch: pitch, owned: true, slab: slab}
	wv.Bands[0] = bandView(slab, 0*stripBytes, w, h, pitch, PixelUnsigned16, 1)
	wv.Bands[1] = bandView(slab, 1*stripBytes, w, h, pitch, PixelSigned16, quant[0])
	wv.Bands[2] = bandView(slab, 2*stripBytes, w, h, pitch, PixelSigned16, quant[1])
	wv.Bands[3] = bandView(slab, 3*stripBytes, w, h, pitch, PixelSigned16, quant[2])
	return wv, nil
}

// NewPairWavelet allocates a 2-band (shape-2) wavelet image: the
// lowpass/highpass pair produced by a horizontal, vertical or temporal
// 1-D split. Bands are adjacent vertical strips, matching the stacked
// layout's alignment rule.
func NewPairWavelet(shape Shape, w, h, quant int) (*Wavelet, error) {
	if w <= 0 || h <= 0 {
		return nil, cferr.New("NewPairWavelet", cferr.BadArgument)
	}
	pitch := AlignUp(w*SampleSize, Alignment)
	stripBytes := AlignUp(h*pitch, CacheLineSize)
	slab, err := allocSlab(2 * stripBytes)
	if err != nil {
		return nil, err
	}

	wv := &Wavelet{Shape: shape, W: w, H: h, Pitch: pitch, owned: true, slab: slab}
	wv.Bands[0] = bandView(slab, 0*stripBytes, w, h, pitch, PixelUnsigned16, 1)
	wv.Bands[1] = bandView(slab, 1*stripBytes, w, h, pitch, PixelSigned16, quant)
	return wv, nil
}

// NewImageWavelet allocates a single fresh plane as a 1-band (shape-1)
// wavelet image; it does not wrap an externally supplied plane.
func NewImageWavelet(w, h int) (*Wavelet, error) {
	if w <= 0 || h <= 0 {
		return nil, cferr.New("NewImageWavelet", cferr.BadArgument)
	}
	pitch := AlignUp(w*SampleSize, Alignment)
	slab, err := allocSlab(h * pitch)
	if err != nil {
		return nil, err
	}
	wv := &Wavelet{Shape: ShapeImage, W: w, H: h, Pitch: pitch, owned: true, slab: slab}
	wv.Bands[0] = bandView(slab, 0, w, h, pitch, PixelUnsigned16, 1)
	return wv, nil
}

// Free releases wv's slab. Per the engine's lifecycle rule, a wavelet
// only frees bands it owns; wavelets wrapping externally supplied bands
// are left untouched.
func (wv *Wavelet) Free() {
	if wv == nil || !wv.owned {
		return
	}
	wv.slab = nil
	for i := range wv.Bands {
		wv.Bands[i] = nil
	}
}

func bandView(slab []byte, byteOffset, w, h, pitch int, pt PixelType, quant int) *Band {
	sub := slab[byteOffset:]
	return &Band{
		W:         w,
		H:         h,
		Pitch:     pitch,
		Quant:     quant,
		PixelType: pt,
		Data:      bytesToSamples(sub),
	}
}

func allocSlab(n int) ([]byte, error) {
	if n <= 0 {
		return nil, cferr.New("allocSlab", cferr.BadArgument)
	}
	return alignedBytes(n), nil
}
