package coeff

// Band is a rectangular array of samples with width W, height H and a
// byte row stride Pitch satisfying Pitch >= W*SampleSize, Pitch aligned
// to Alignment bytes. Data is a flat view over PitchSamples*H samples;
// row y occupies Data[y*PitchSamples : y*PitchSamples+W].
type Band struct {
	W, H  int
	Pitch int // bytes

	Quant     int
	PixelType PixelType
	Scale     int

	Data []Sample
}

// PitchSamples is the row stride expressed in samples rather than bytes.
func (b *Band) PitchSamples() int {
	return b.Pitch / SampleSize
}

// Row returns the y-th row of the band as a W-length slice.
func (b *Band) Row(y int) []Sample {
	start := y * b.PitchSamples()
	return b.Data[start : start+b.W]
}

// Clear zeroes every sample in the band's logical W x H extent.
func (b *Band) Clear() {
	for y := 0; y < b.H; y++ {
		row := b.Row(y)
		for i := range row {
			row[i] = 0
		}
	}
}
