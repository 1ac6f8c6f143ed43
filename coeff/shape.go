package coeff

// Shape identifies the kind of wavelet image a forward transform step
// produced. The band count is a method on Shape rather than a
// hand-maintained lookup table (numWaveletBands[type] in the original),
// which makes an unrecognized tag a compile-time impossibility for any
// switch that enumerates every case.
type Shape int

const (
	// ShapeImage is a single raw plane, no transform applied yet.
	ShapeImage Shape = iota
	// ShapeHorizontal holds {lowpass, highpass} from a horizontal-only
	// 1-D split.
	ShapeHorizontal
	// ShapeVertical holds {lowpass, highpass} from a vertical-only 1-D
	// split.
	ShapeVertical
	// ShapeTemporal holds {lowpass, highpass} from the inter-frame
	// temporal filter.
	ShapeTemporal
	// ShapeSpatial holds the four bands {LL, LH, HL, HH} of a full 2-D
	// spatial transform.
	ShapeSpatial
	// ShapeHorizontalTemporal holds {LL, LH, HL, HH} where the first
	// axis is horizontal and the second is temporal.
	ShapeHorizontalTemporal
	// ShapeVerticalTemporal holds {LL, LH, HL, HH} where the first axis
	// is vertical and the second is temporal.
	ShapeVerticalTemporal
)

// BandCount reports how many bands a wavelet image of this shape has.
func (s Shape) BandCount() int {
	switch s {
	case ShapeImage:
		return 1
	case ShapeHorizontal, ShapeVertical, ShapeTemporal:
		return 2
	case ShapeSpatial, ShapeHorizontalTemporal, ShapeVerticalTemporal:
		return 4
	default:
		return 0
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeImage:
		return "image"
	case ShapeHorizontal:
		return "horizontal"
	case ShapeVertical:
		return "vertical"
	case ShapeTemporal:
		return "temporal"
	case ShapeSpatial:
		return "spatial"
	case ShapeHorizontalTemporal:
		return "horizontal-temporal"
	case ShapeVerticalTemporal:
		return "vertical-temporal"
	default:
		return "unknown"
	}
}
