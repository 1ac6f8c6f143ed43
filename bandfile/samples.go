package bandfile

import (
	"encoding/binary"

	"github.com/gopro/cineform-wavelet/cferr"
	"github.com/gopro/cineform-wavelet/coeff"
	"github.com/gopro/cineform-wavelet/quant"
)

// WriteBandSamples writes one band's samples under the given indices,
// using pixelType to decide the wire encoding: PixelRunLength16 first
// packs each row through quant.PackRuns before framing it as a "band"
// chunk of type 17 (encoded, run-length), mirroring what the live
// transform pipeline would hand the band-file codec when dumping a
// highly-quantized highpass band for inspection. Any other PixelType is
// written as plain little-endian samples. Run-length rows compress to
// different token counts, so each row is prefixed with its own
// sample count before its tokens; plain rows skip the prefix since
// width alone recovers the row boundaries.
func (bw *Writer) WriteBandSamples(frame uint32, channel, wavelet, band uint16, pixelType coeff.PixelType, width, height int, rows [][]coeff.Sample) error {
	rle := pixelType == coeff.PixelRunLength16
	data := make([]byte, 0, width*height*2)
	for _, row := range rows {
		out := row
		if rle {
			out = quant.PackRuns(row)
			data = binary.LittleEndian.AppendUint16(data, uint16(len(out)))
		}
		for _, s := range out {
			data = binary.LittleEndian.AppendUint16(data, uint16(s))
		}
	}

	return bw.WriteBand(frame, channel, wavelet, band, BandType(pixelType.BandFileType()), uint16(width), uint16(height), data)
}

// ReadBandSamples reads the band most recently located by FindNextBand
// back into sample rows, unpacking run-length data when the header's
// BandType is BandTypeEncodedRLE. width is the logical (unpacked) row
// width; it must match what the writer recorded for this band.
func (br *Reader) ReadBandSamples(width int) ([][]coeff.Sample, error) {
	pending := br.pendingBand
	if pending == nil {
		return nil, cferr.New("bandfile.ReadBandSamples", cferr.Unexpected)
	}
	height := int(pending.Height)
	bandType := pending.BandType
	data, err := br.ReadBandData()
	if err != nil {
		return nil, err
	}

	readU16 := func(off int) coeff.Sample {
		return coeff.Sample(binary.LittleEndian.Uint16(data[off : off+2]))
	}

	rows := make([][]coeff.Sample, height)
	if bandType == BandTypeEncodedRLE {
		pos := 0
		for y := 0; y < height; y++ {
			count := int(readU16(pos))
			pos += 2
			packed := make([]coeff.Sample, count)
			for i := 0; i < count; i++ {
				packed[i] = readU16(pos)
				pos += 2
			}
			rows[y] = quant.UnpackRuns(packed, width)
		}
		return rows, nil
	}

	pos := 0
	for y := 0; y < height; y++ {
		row := make([]coeff.Sample, width)
		for x := 0; x < width; x++ {
			row[x] = readU16(pos)
			pos += 2
		}
		rows[y] = row
	}
	return rows, nil
}
