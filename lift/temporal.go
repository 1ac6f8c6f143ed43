package lift

import "github.com/gopro/cineform-wavelet/coeff"

// Temporal applies the inter-frame lifting step (§4.3) to one
// sample position across a pair of frames A (even) and B (odd): unlike
// the spatial 6-tap filter, the temporal pair has no neighbor
// correction term, since consecutive frames carry no assumed
// within-row ordering to borrow a border formula from.
func Temporal(a, b Sample) (low, high Sample) {
	low = coeff.Saturate(int32(a) + int32(b))
	high = coeff.Saturate(int32(a) - int32(b))
	return low, high
}

// TemporalRow applies Temporal elementwise across two
// same-length frame rows.
func TemporalRow(a, b []Sample, low, high []Sample) {
	for x := range a {
		low[x], high[x] = Temporal(a[x], b[x])
	}
}

// InverseTemporal reconstructs a frame pair from its temporal
// lowpass/highpass values.
func InverseTemporal(low, high Sample) (a, b Sample) {
	a = coeff.Saturate((int32(low) + int32(high)) >> 1)
	b = coeff.Saturate((int32(low) - int32(high)) >> 1)
	return a, b
}

// InverseTemporalRow applies InverseTemporal elementwise across a row
// pair.
func InverseTemporalRow(low, high []Sample, a, b []Sample) {
	for x := range low {
		a[x], b[x] = InverseTemporal(low[x], high[x])
	}
}
