package coeff

import "unsafe"

// alignedBytes returns a []byte of at least n bytes whose backing array
// starts at an address that is a multiple of Alignment. No third-party
// allocator library in the retrieval pack exposes aligned allocation
// (the pack's domain dependency, go-highway, manages vector register
// alignment internally and does not expose a raw aligned-slab
// primitive) and this is a fundamental memory-layout contract of this
// component (§3: "pitch aligned to 16 bytes"), so it is implemented
// directly against the standard library's unsafe.Pointer arithmetic.
func alignedBytes(n int) []byte {
	buf := make([]byte, n+Alignment-1)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	offset := int(AlignUp(int(addr), Alignment) - int(addr))
	return buf[offset : offset+n]
}

func bytesToSamples(b []byte) []Sample {
	if len(b) == 0 {
		return nil
	}
	n := len(b) / SampleSize
	return unsafe.Slice((*Sample)(unsafe.Pointer(&b[0])), n)
}

// SamplesFromBytes reinterprets a byte slice as a Sample slice without
// copying. It is exported for callers outside this package that carve
// their own working buffers out of pre-sized byte memory (the
// transform engine's scratch buffer) instead of allocating a fresh
// []Sample per call.
func SamplesFromBytes(b []byte) []Sample {
	return bytesToSamples(b)
}
