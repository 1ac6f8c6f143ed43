// Package bandfile implements the engine's debugging-only band file
// container (component E): a FourCC-framed, chunk-oriented format for
// dumping and replaying individual coefficient bands outside of any
// real bitstream container. It is append-only on the write side and
// iterator-driven on the read side; there is no random access.
//
// The read side exposes only FindNextBand and ReadBandData. Typed
// per-chunk readers (ReadFrameHeader, ReadChannelHeader, ...) are not
// provided: those would need an assertion comparing the chunk just
// read against the caller's expected type, and following that pattern
// through on fram/chan/wave chunks invites the same copy-paste
// assertion bug it would be modeled on. FindNextBand already folds
// fram/chan/wave consumption into its own loop, so no caller needs
// them.
package bandfile

import "encoding/binary"

// FourCC identifies a chunk's payload shape. The on-disk bytes are the
// four ASCII characters in reading order (big-endian). The in-memory
// constants below pack the first character into the most significant
// byte; fourCCBytes/parseFourCC split and join them in that order.
type FourCC uint32

// Known chunk types, named for their disk bytes ("file", "fram", ...).
const (
	FourCCFile FourCC = 0x66696c65 // "file"
	FourCCFram FourCC = 0x6672616d // "fram"
	FourCCChan FourCC = 0x6368616e // "chan"
	FourCCWave FourCC = 0x77617665 // "wave"
	FourCCBand FourCC = 0x62616e64 // "band"
)

func (f FourCC) String() string {
	b := fourCCBytes(f)
	return string(b[:])
}

func fourCCBytes(f FourCC) [4]byte {
	return [4]byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)}
}

func parseFourCC(b [4]byte) FourCC {
	return FourCC(b[0])<<24 | FourCC(b[1])<<16 | FourCC(b[2])<<8 | FourCC(b[3])
}

// chunkHeaderSize is the 8-byte common header every chunk carries: a
// 4-byte FourCC followed by a 4-byte little-endian total size,
// including this header.
const chunkHeaderSize = 8

// BandType is the band-file's own coefficient tag, distinct from
// coeff.PixelType: it additionally distinguishes a raw (unencoded)
// band from one that has been through the quantizer and optionally
// run-length packed.
type BandType uint16

const (
	BandTypeUnsigned16 BandType = 0
	BandTypeSigned16   BandType = 1
	BandTypeEncoded    BandType = 16
	BandTypeEncodedRLE BandType = 17
)

// FileHeader is the payload of a "file" chunk: the bounds every band
// chunk in the stream is guaranteed to fit within.
type FileHeader struct {
	MaxBandWidth  uint16
	MaxBandHeight uint16
	MaxBandSize   uint32
}

// FrameHeader is the payload of a "fram" chunk.
type FrameHeader struct {
	FrameIndex uint32
}

// ChannelHeader is the payload of a "chan" chunk.
type ChannelHeader struct {
	ChannelIndex uint16
	Reserved     uint16
}

// WaveletHeader is the payload of a "wave" chunk.
type WaveletHeader struct {
	WaveletIndex uint16
	Reserved     uint16
}

// BandHeader is the fixed-size prefix of a "band" chunk's payload; it
// is followed by exactly Size bytes of coefficient data.
type BandHeader struct {
	BandIndex uint16
	BandType  BandType
	Width     uint16
	Height    uint16
	Size      uint32
}

const bandHeaderSize = 2 + 2 + 2 + 2 + 4

func putFileHeader(buf []byte, h FileHeader) {
	binary.LittleEndian.PutUint16(buf[0:2], h.MaxBandWidth)
	binary.LittleEndian.PutUint16(buf[2:4], h.MaxBandHeight)
	binary.LittleEndian.PutUint32(buf[4:8], h.MaxBandSize)
}

func getFileHeader(buf []byte) FileHeader {
	return FileHeader{
		MaxBandWidth:  binary.LittleEndian.Uint16(buf[0:2]),
		MaxBandHeight: binary.LittleEndian.Uint16(buf[2:4]),
		MaxBandSize:   binary.LittleEndian.Uint32(buf[4:8]),
	}
}

func putFrameHeader(buf []byte, h FrameHeader) {
	binary.LittleEndian.PutUint32(buf[0:4], h.FrameIndex)
}

func getFrameHeader(buf []byte) FrameHeader {
	return FrameHeader{FrameIndex: binary.LittleEndian.Uint32(buf[0:4])}
}

func putChannelHeader(buf []byte, h ChannelHeader) {
	binary.LittleEndian.PutUint16(buf[0:2], h.ChannelIndex)
	binary.LittleEndian.PutUint16(buf[2:4], h.Reserved)
}

func getChannelHeader(buf []byte) ChannelHeader {
	return ChannelHeader{
		ChannelIndex: binary.LittleEndian.Uint16(buf[0:2]),
		Reserved:     binary.LittleEndian.Uint16(buf[2:4]),
	}
}

func putWaveletHeader(buf []byte, h WaveletHeader) {
	binary.LittleEndian.PutUint16(buf[0:2], h.WaveletIndex)
	binary.LittleEndian.PutUint16(buf[2:4], h.Reserved)
}

func getWaveletHeader(buf []byte) WaveletHeader {
	return WaveletHeader{
		WaveletIndex: binary.LittleEndian.Uint16(buf[0:2]),
		Reserved:     binary.LittleEndian.Uint16(buf[2:4]),
	}
}

func putBandHeader(buf []byte, h BandHeader) {
	binary.LittleEndian.PutUint16(buf[0:2], h.BandIndex)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(h.BandType))
	binary.LittleEndian.PutUint16(buf[4:6], h.Width)
	binary.LittleEndian.PutUint16(buf[6:8], h.Height)
	binary.LittleEndian.PutUint32(buf[8:12], h.Size)
}

func getBandHeader(buf []byte) BandHeader {
	return BandHeader{
		BandIndex: binary.LittleEndian.Uint16(buf[0:2]),
		BandType:  BandType(binary.LittleEndian.Uint16(buf[2:4])),
		Width:     binary.LittleEndian.Uint16(buf[4:6]),
		Height:    binary.LittleEndian.Uint16(buf[6:8]),
		Size:      binary.LittleEndian.Uint32(buf[8:12]),
	}
}
