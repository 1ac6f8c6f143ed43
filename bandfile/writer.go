package bandfile

import (
	"encoding/binary"
	"io"

	"github.com/gopro/cineform-wavelet/cferr"
)

// Writer is an append-only band file encoder over an io.Writer. It
// remembers the last written (frame, channel, wavelet) index tuple and
// only re-emits the corresponding header chunk when that index actually
// changes, per the engine's header-suppression contract. The band index
// is not remembered: every band is written as its own "band" chunk.
type Writer struct {
	w   io.Writer
	buf [chunkHeaderSize]byte

	wroteFile bool
	haveState bool
	frame     uint32
	channel   uint16
	wavelet   uint16
}

// NewWriter wraps w and writes an initial "file" chunk recording the
// stream-wide band bounds.
func NewWriter(w io.Writer, header FileHeader) (*Writer, error) {
	bw := &Writer{w: w}
	if err := bw.writeChunk(FourCCFile, func(buf []byte) { putFileHeader(buf, header) }, 8); err != nil {
		return nil, cferr.Wrap("bandfile.NewWriter", cferr.BandFileWrite, err)
	}
	bw.wroteFile = true
	return bw, nil
}

// WriteBand appends one band's coefficient data under the given
// (frame, channel, wavelet, band) indices, emitting only the header
// chunks whose index differs from the previous call.
func (bw *Writer) WriteBand(frame uint32, channel, wavelet, band uint16, bandType BandType, width, height uint16, data []byte) error {
	if !bw.wroteFile {
		return cferr.New("bandfile.WriteBand", cferr.Unexpected)
	}

	if !bw.haveState || frame != bw.frame {
		if err := bw.writeChunk(FourCCFram, func(buf []byte) { putFrameHeader(buf, FrameHeader{FrameIndex: frame}) }, 4); err != nil {
			return cferr.Wrap("bandfile.WriteBand", cferr.BandFileWrite, err)
		}
	}
	if !bw.haveState || frame != bw.frame || channel != bw.channel {
		if err := bw.writeChunk(FourCCChan, func(buf []byte) { putChannelHeader(buf, ChannelHeader{ChannelIndex: channel}) }, 4); err != nil {
			return cferr.Wrap("bandfile.WriteBand", cferr.BandFileWrite, err)
		}
	}
	if !bw.haveState || frame != bw.frame || channel != bw.channel || wavelet != bw.wavelet {
		if err := bw.writeChunk(FourCCWave, func(buf []byte) { putWaveletHeader(buf, WaveletHeader{WaveletIndex: wavelet}) }, 4); err != nil {
			return cferr.Wrap("bandfile.WriteBand", cferr.BandFileWrite, err)
		}
	}

	bh := BandHeader{BandIndex: band, BandType: bandType, Width: width, Height: height, Size: uint32(len(data))}
	total := chunkHeaderSize + bandHeaderSize + len(data)
	out := make([]byte, chunkHeaderSize+bandHeaderSize)
	fb := fourCCBytes(FourCCBand)
	copy(out[0:4], fb[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(total))
	putBandHeader(out[chunkHeaderSize:], bh)
	if _, err := bw.w.Write(out); err != nil {
		return cferr.Wrap("bandfile.WriteBand", cferr.BandFileWrite, err)
	}
	if _, err := bw.w.Write(data); err != nil {
		return cferr.Wrap("bandfile.WriteBand", cferr.BandFileWrite, err)
	}

	bw.frame, bw.channel, bw.wavelet = frame, channel, wavelet
	bw.haveState = true
	return nil
}

// writeChunk emits the 8-byte common header followed by a
// payloadLen-byte fixed-size payload filled in by fill. Used for every
// chunk type except "band", whose variable-length data the caller in
// WriteBand writes separately.
func (bw *Writer) writeChunk(fc FourCC, fill func([]byte), payloadLen int) error {
	total := chunkHeaderSize + payloadLen
	out := make([]byte, total)
	fb := fourCCBytes(fc)
	copy(out[0:4], fb[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(total))
	fill(out[chunkHeaderSize:])
	_, err := bw.w.Write(out)
	return err
}
