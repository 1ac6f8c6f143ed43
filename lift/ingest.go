package lift

// FormatTag identifies which ingest kernel a caller's raw row bytes
// require; it travels alongside the input the way the engine's
// external interface expects (spec.md §6), letting a caller dispatch
// to the matching Ingest* kernel without re-deriving the format from
// raster dimensions alone.
type FormatTag int

const (
	FormatYUYV FormatTag = iota
	FormatUYVY
	FormatV210
	FormatRGBPlanar8
	FormatRGBPlanar10
	FormatRGBPlanar12
	FormatRGBPlanar16
	FormatRGB30
	FormatBayerBYR3
)

func (f FormatTag) String() string {
	switch f {
	case FormatYUYV:
		return "YUYV"
	case FormatUYVY:
		return "UYVY"
	case FormatV210:
		return "V210"
	case FormatRGBPlanar8:
		return "RGBPlanar8"
	case FormatRGBPlanar10:
		return "RGBPlanar10"
	case FormatRGBPlanar12:
		return "RGBPlanar12"
	case FormatRGBPlanar16:
		return "RGBPlanar16"
	case FormatRGB30:
		return "RGB30"
	case FormatBayerBYR3:
		return "BayerBYR3"
	default:
		return "unknown format"
	}
}

// Ingest kernels read one packed input raster format and produce the
// horizontal-pair lowpass/highpass rows the transform engine consumes,
// skipping a separate planarize-then-filter pass for formats the
// hardware commonly hands the codec in already-packed form. Every
// kernel below writes low/high for one channel of one row; callers
// needing all channels invoke one kernel per channel per row.

// IngestYUYV reads a YUYV 4:2:2 packed row (Y0 Cb Y1 Cr, repeating) and
// applies the forward horizontal filter directly to the luma plane,
// skipping the intermediate planarization other codecs require. Chroma
// channels are filtered by IngestChromaPair once both the Cb and Cr
// strides are known to the caller, since 4:2:2 halves the chroma
// sample count relative to luma.
func IngestYUYV(row []byte, low, high []Sample) {
	n := len(row) / 2 // one luma sample per 2 bytes
	y := make([]Sample, n)
	for i := 0; i < n; i++ {
		y[i] = Sample(row[2*i])
	}
	ForwardFast(y, low, high)
}

// IngestUYVY mirrors IngestYUYV for the Cb-Y0-Cr-Y1 byte ordering.
func IngestUYVY(row []byte, low, high []Sample) {
	n := len(row) / 2
	y := make([]Sample, n)
	for i := 0; i < n; i++ {
		y[i] = Sample(row[2*i+1])
	}
	ForwardFast(y, low, high)
}

// IngestChromaPair extracts one 8-bit chroma plane from a 4:2:2 packed
// row at the given byte offset/stride (4 for YUYV's Cb at offset 1 and
// Cr at offset 3; same for UYVY at offset 0 and 2) and filters it.
func IngestChromaPair(row []byte, offset, stride int, low, high []Sample) {
	n := len(row) / stride
	c := make([]Sample, n)
	for i := 0; i < n; i++ {
		c[i] = Sample(row[offset+i*stride])
	}
	ForwardFast(c, low, high)
}

// IngestV210 unpacks a V210 row (groups of four 32-bit little-endian
// words, each carrying three 10-bit samples ordered Cr-Y0-Cb / Y1-Cr-Y2
// / Cb-Y3-Cr / Y4-Cb-Y5 across a six-luma-sample group) into separate
// 16-bit luma and chroma streams, then applies the forward filter to
// each. V210's 10-bit samples are left-shifted to occupy the same
// 16-bit range the other ingest paths assume, matching the "planar
// 16-bit" internal contract.
func IngestV210(words []uint32, lumaLow, lumaHigh, cbLow, cbHigh, crLow, crHigh []Sample) {
	groups := len(words) / 4
	y := make([]Sample, groups*6)
	cb := make([]Sample, groups*3)
	cr := make([]Sample, groups*3)

	for g := 0; g < groups; g++ {
		w := words[g*4 : g*4+4]
		s := v210Unpack(w)
		copy(y[g*6:g*6+6], s.y[:])
		copy(cb[g*3:g*3+3], s.cb[:])
		copy(cr[g*3:g*3+3], s.cr[:])
	}

	ForwardFast(y, lumaLow, lumaHigh)
	ForwardFast(cb, cbLow, cbHigh)
	ForwardFast(cr, crLow, crHigh)
}

type v210Samples struct {
	y  [6]Sample
	cb [3]Sample
	cr [3]Sample
}

func v210Unpack(w []uint32) v210Samples {
	const shift = 6 // 10-bit sample -> 16-bit range
	get10 := func(word uint32, pos int) Sample {
		return Sample((word >> uint(pos*10)) & 0x3ff << shift)
	}
	var s v210Samples
	s.cr[0] = get10(w[0], 0)
	s.y[0] = get10(w[0], 1)
	s.cb[0] = get10(w[0], 2)

	s.y[1] = get10(w[1], 0)
	s.cr[1] = get10(w[1], 1)
	s.y[2] = get10(w[1], 2)

	s.cb[1] = get10(w[2], 0)
	s.y[3] = get10(w[2], 1)
	s.cr[2] = get10(w[2], 2)

	s.y[4] = get10(w[3], 0)
	s.cb[2] = get10(w[3], 1)
	s.y[5] = get10(w[3], 2)
	return s
}

// IngestRGBPlanar8 filters one already-planar 8-bit channel row,
// scaling into the codec's 16-bit working range.
func IngestRGBPlanar8(row []byte, low, high []Sample) {
	s := make([]Sample, len(row))
	for i, b := range row {
		s[i] = Sample(uint16(b) << 8)
	}
	ForwardFast(s, low, high)
}

// IngestRGBPlanar10 filters one planar 10-bit-per-sample channel row
// (each sample stored in the low 10 bits of a little-endian uint16).
func IngestRGBPlanar10(row []uint16, low, high []Sample) {
	ingestPlanarShift(row, 10, low, high)
}

// IngestRGBPlanar12 filters one planar 12-bit-per-sample channel row.
func IngestRGBPlanar12(row []uint16, low, high []Sample) {
	ingestPlanarShift(row, 12, low, high)
}

// IngestRGBPlanar16 filters one planar 16-bit-per-sample channel row;
// no rescale is needed since 16 bits is the codec's native range.
func IngestRGBPlanar16(row []uint16, low, high []Sample) {
	s := make([]Sample, len(row))
	for i, v := range row {
		s[i] = Sample(v)
	}
	ForwardFast(s, low, high)
}

func ingestPlanarShift(row []uint16, bits int, low, high []Sample) {
	shift := uint(16 - bits)
	s := make([]Sample, len(row))
	for i, v := range row {
		s[i] = Sample(v << shift)
	}
	ForwardFast(s, low, high)
}

// IngestRGB30 unpacks one row of RGB30 (three 10-bit channels packed
// into a 32-bit word per pixel: blue in bits 29:20, green in bits
// 19:10, red in bits 9:0) into separate R/G/B planes and filters each.
func IngestRGB30(row []uint32, rLow, rHigh, gLow, gHigh, bLow, bHigh []Sample) {
	n := len(row)
	r := make([]Sample, n)
	g := make([]Sample, n)
	b := make([]Sample, n)
	const shift = 6
	for i, px := range row {
		r[i] = Sample((px & 0x3ff) << shift)
		g[i] = Sample(((px >> 10) & 0x3ff) << shift)
		b[i] = Sample(((px >> 20) & 0x3ff) << shift)
	}
	ForwardFast(r, rLow, rHigh)
	ForwardFast(g, gLow, gHigh)
	ForwardFast(b, bLow, bHigh)
}

// IngestBayerBYR3 filters one row of a BYR3 Bayer macropixel stream:
// four samples per macropixel (R, Gr, Gb, B), each a little-endian
// uint16 already in the codec's working range. The demosaic step is
// explicitly out of the core's scope (§6); this kernel only lifts the
// raw per-site samples so each of the four sites can be transformed
// independently, matching how the engine treats any other 4-plane
// input.
func IngestBayerBYR3(row []uint16, rLow, rHigh, grLow, grHigh, gbLow, gbHigh, bLow, bHigh []Sample) {
	n := len(row) / 4
	r := make([]Sample, n)
	gr := make([]Sample, n)
	gb := make([]Sample, n)
	b := make([]Sample, n)
	for i := 0; i < n; i++ {
		r[i] = Sample(row[4*i+0])
		gr[i] = Sample(row[4*i+1])
		gb[i] = Sample(row[4*i+2])
		b[i] = Sample(row[4*i+3])
	}
	ForwardFast(r, rLow, rHigh)
	ForwardFast(gr, grLow, grHigh)
	ForwardFast(gb, gbLow, gbHigh)
	ForwardFast(b, bLow, bHigh)
}
