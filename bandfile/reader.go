package bandfile

import (
	"encoding/binary"
	"io"

	"github.com/gopro/cineform-wavelet/cferr"
)

// BandLocation is the (frame, channel, wavelet, band) tuple a reader
// has advanced to, carried alongside the band's own header.
type BandLocation struct {
	Frame   uint32
	Channel uint16
	Wavelet uint16
	Header  BandHeader
}

// Reader replays a band file written by Writer. Per the engine's
// read-side contract, only the FindNextBand iterator and ReadBandData
// are exposed; typed per-chunk readers are deliberately not provided
// (see the package doc comment on that decision).
type Reader struct {
	r      io.Reader
	header FileHeader

	frame   uint32
	channel uint16
	wavelet uint16

	pendingBand *BandHeader
}

// NewReader wraps r and consumes its leading "file" chunk.
func NewReader(r io.Reader) (*Reader, error) {
	br := &Reader{r: r}
	fc, payload, err := br.readChunk()
	if err != nil {
		return nil, cferr.Wrap("bandfile.NewReader", cferr.BandFileRead, err)
	}
	if fc != FourCCFile || len(payload) < 8 {
		return nil, cferr.New("bandfile.NewReader", cferr.BandFileRead)
	}
	br.header = getFileHeader(payload)
	return br, nil
}

// FileHeader returns the stream-wide band bounds read from the
// leading "file" chunk.
func (br *Reader) FileHeader() FileHeader { return br.header }

// FindNextBand advances through chunks, updating the reader's current
// (frame, channel, wavelet) state as fram/chan/wave chunks are seen,
// and stops at the next "band" chunk without consuming its payload.
// The caller then calls ReadBandData to pull the raw coefficient
// bytes. FindNextBand returns io.EOF once the stream is exhausted.
func (br *Reader) FindNextBand() (BandLocation, error) {
	if br.pendingBand != nil {
		// A previous band's data was never read; skip over it so the
		// stream stays aligned.
		if err := br.skipBandData(*br.pendingBand); err != nil {
			return BandLocation{}, cferr.Wrap("bandfile.FindNextBand", cferr.BandFileRead, err)
		}
		br.pendingBand = nil
	}

	for {
		fc, payload, err := br.readChunk()
		if err == io.EOF {
			return BandLocation{}, io.EOF
		}
		if err != nil {
			return BandLocation{}, cferr.Wrap("bandfile.FindNextBand", cferr.BandFileRead, err)
		}
		switch fc {
		case FourCCFram:
			if len(payload) < 4 {
				return BandLocation{}, cferr.New("bandfile.FindNextBand", cferr.BandFileRead)
			}
			br.frame = getFrameHeader(payload).FrameIndex
		case FourCCChan:
			if len(payload) < 4 {
				return BandLocation{}, cferr.New("bandfile.FindNextBand", cferr.BandFileRead)
			}
			br.channel = getChannelHeader(payload).ChannelIndex
		case FourCCWave:
			if len(payload) < 4 {
				return BandLocation{}, cferr.New("bandfile.FindNextBand", cferr.BandFileRead)
			}
			br.wavelet = getWaveletHeader(payload).WaveletIndex
		case FourCCBand:
			if len(payload) < bandHeaderSize {
				return BandLocation{}, cferr.New("bandfile.FindNextBand", cferr.BandFileRead)
			}
			bh := getBandHeader(payload)
			br.pendingBand = &bh
			return BandLocation{Frame: br.frame, Channel: br.channel, Wavelet: br.wavelet, Header: bh}, nil
		default:
			return BandLocation{}, cferr.New("bandfile.FindNextBand", cferr.BandFileRead)
		}
	}
}

// ReadBandData reads the coefficient bytes for the band most recently
// returned by FindNextBand. It must be called at most once per
// FindNextBand result.
func (br *Reader) ReadBandData() ([]byte, error) {
	if br.pendingBand == nil {
		return nil, cferr.New("bandfile.ReadBandData", cferr.Unexpected)
	}
	data := make([]byte, br.pendingBand.Size)
	if _, err := io.ReadFull(br.r, data); err != nil {
		return nil, cferr.Wrap("bandfile.ReadBandData", cferr.BandFileRead, err)
	}
	br.pendingBand = nil
	return data, nil
}

func (br *Reader) skipBandData(bh BandHeader) error {
	_, err := io.CopyN(io.Discard, br.r, int64(bh.Size))
	return err
}

// readChunk reads one chunk's common header and fixed/variable
// payload for non-band chunks; for a "band" chunk it returns only the
// bandHeaderSize-byte fixed prefix, leaving the coefficient bytes in
// the stream for ReadBandData.
func (br *Reader) readChunk() (FourCC, []byte, error) {
	var hdr [chunkHeaderSize]byte
	if _, err := io.ReadFull(br.r, hdr[:]); err != nil {
		return 0, nil, err
	}
	fc := parseFourCC([4]byte{hdr[0], hdr[1], hdr[2], hdr[3]})
	total := binary.LittleEndian.Uint32(hdr[4:8])
	if total < chunkHeaderSize {
		return 0, nil, cferr.New("bandfile.readChunk", cferr.BandFileRead)
	}
	payloadLen := int(total) - chunkHeaderSize

	if fc == FourCCBand {
		if payloadLen < bandHeaderSize {
			return 0, nil, cferr.New("bandfile.readChunk", cferr.BandFileRead)
		}
		buf := make([]byte, bandHeaderSize)
		if _, err := io.ReadFull(br.r, buf); err != nil {
			return 0, nil, err
		}
		return fc, buf, nil
	}

	buf := make([]byte, payloadLen)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return 0, nil, err
	}
	return fc, buf, nil
}
