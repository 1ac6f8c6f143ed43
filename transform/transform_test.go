package transform

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gopro/cineform-wavelet/cferr"
)

func randPlane(w, h int, r *rand.Rand, magnitude int32) [][]Sample {
	rows := make([][]Sample, h)
	for y := range rows {
		row := make([]Sample, w)
		for x := range row {
			row[x] = Sample(r.Int31n(2*magnitude+1) - magnitude)
		}
		rows[y] = row
	}
	return rows
}

func zeroPlane(w, h int) [][]Sample {
	rows := make([][]Sample, h)
	for y := range rows {
		rows[y] = make([]Sample, w)
	}
	return rows
}

func dcPlane(w, h int, v Sample) [][]Sample {
	rows := make([][]Sample, h)
	for y := range rows {
		row := make([]Sample, w)
		for x := range row {
			row[x] = v
		}
		rows[y] = row
	}
	return rows
}

func allocDst(w, h int) [][]Sample {
	return zeroPlane(w, h)
}

func planesEqual(t *testing.T, label string, got, want [][]Sample) {
	t.Helper()
	for y := range want {
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Fatalf("%s: mismatch at (%d,%d): got %d want %d", label, x, y, got[y][x], want[y][x])
			}
		}
	}
}

func unitQuants(n int) [][3]int {
	q := make([][3]int, n)
	for i := range q {
		q[i] = [3]int{1, 1, 1}
	}
	return q
}

func TestForwardSpatialInverseSpatialLosslessRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		w, h, levels int
	}{
		{32, 16, 0},
		{32, 16, 1},
		{64, 32, 2},
	} {
		tr, err := New(TopologySpatial, Precision8, tc.w, tc.h, tc.levels)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		frame := randPlane(tc.w, tc.h, r, 2000)
		if err := tr.ForwardSpatial(frame, unitQuants(tc.levels+1)); err != nil {
			t.Fatalf("ForwardSpatial levels=%d: %v", tc.levels, err)
		}
		if tr.State() != StateFull {
			t.Fatalf("levels=%d: state after forward = %v, want Full", tc.levels, tr.State())
		}

		dst := allocDst(tc.w, tc.h)
		if err := tr.InverseSpatial(dst); err != nil {
			t.Fatalf("InverseSpatial levels=%d: %v", tc.levels, err)
		}
		if tr.State() != StateEmpty {
			t.Fatalf("levels=%d: state after inverse = %v, want Empty", tc.levels, tr.State())
		}
		planesEqual(t, "spatial round trip", dst, frame)
		tr.Free()
	}
}

func TestForwardSpatialZeroFrame(t *testing.T) {
	w, h, levels := 32, 16, 2
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	for li, wv := range tr.Wavelets {
		for i := 1; i <= 3; i++ {
			b := wv.Bands[i]
			for y := 0; y < b.H; y++ {
				for _, v := range b.Row(y) {
					if v != 0 {
						t.Fatalf("level %d band %d: expected all-zero highpass for a zero frame, got %d", li, i, v)
					}
				}
			}
		}
	}
	dst := allocDst(w, h)
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
	planesEqual(t, "zero frame", dst, frame)
}

func TestForwardSpatialDCFrame(t *testing.T) {
	w, h, levels := 32, 16, 2
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := dcPlane(w, h, 100)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	dst := allocDst(w, h)
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
	planesEqual(t, "DC frame", dst, frame)
}

func TestForwardSpatialImpulse(t *testing.T) {
	w, h, levels := 32, 16, 2
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := zeroPlane(w, h)
	frame[h/2][w/2] = 1000
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	dst := allocDst(w, h)
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
	planesEqual(t, "impulse", dst, frame)
}

// TestForwardSpatialQuantizedReconstructionBounded exercises lossy
// quantization (q=4 on every highpass band): exact round trip is not
// expected; the check only rejects gross divergence (any sample off by
// more than 4096), not a tight quantizer rounding bound.
func TestForwardSpatialQuantizedReconstructionBounded(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	w, h, levels := 32, 16, 1
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := randPlane(w, h, r, 500)
	q := [][3]int{{4, 4, 4}, {4, 4, 4}}
	if err := tr.ForwardSpatial(frame, q); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	dst := allocDst(w, h)
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
	// No precise bound is asserted on pixel error (the lifting
	// structure propagates quantization error across levels); this
	// just guards against gross divergence (e.g. a missed dequantize).
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			diff := int32(dst[y][x]) - int32(frame[y][x])
			if diff < -4096 || diff > 4096 {
				t.Fatalf("quantized round trip diverged wildly at (%d,%d): got %d want %d", x, y, dst[y][x], frame[y][x])
			}
		}
	}
}

func TestTransformStateMachineViolations(t *testing.T) {
	w, h, levels := 16, 8, 1
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dst := allocDst(w, h)
	if err := tr.InverseSpatial(dst); err == nil {
		t.Fatalf("InverseSpatial before any Forward should fail")
	}

	frame := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err == nil {
		t.Fatalf("second ForwardSpatial before Free/Inverse should fail")
	}
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
	if err := tr.InverseSpatial(dst); err == nil {
		t.Fatalf("second InverseSpatial after Empty should fail")
	}
}

func TestTransformWrongTopologyRejected(t *testing.T) {
	w, h, levels := 16, 8, 0
	tr, err := New(TopologyField, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err == nil {
		t.Fatalf("ForwardSpatial on a FIELD transform should fail")
	}
}

func TestForwardFieldInverseFieldRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, tc := range []struct {
		w, h, levels int
	}{
		{32, 16, 0},
		{32, 16, 1},
	} {
		tr, err := New(TopologyField, Precision8, tc.w, tc.h, tc.levels)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		frames := [2][][]Sample{randPlane(tc.w, tc.h, r, 1500), randPlane(tc.w, tc.h, r, 1500)}
		qFrame := [2][3]int{{1, 1, 1}, {1, 1, 1}}
		qSpatial := unitQuants(tc.levels)

		if err := tr.ForwardField(frames, qFrame, 1, qSpatial); err != nil {
			t.Fatalf("ForwardField levels=%d: %v", tc.levels, err)
		}
		dstA, dstB := allocDst(tc.w, tc.h), allocDst(tc.w, tc.h)
		if err := tr.InverseField(dstA, dstB); err != nil {
			t.Fatalf("InverseField levels=%d: %v", tc.levels, err)
		}
		planesEqual(t, "field frame A", dstA, frames[0])
		planesEqual(t, "field frame B", dstB, frames[1])
		tr.Free()
	}
}

func TestForwardFieldIdenticalFramesZeroTemporalHighpass(t *testing.T) {
	w, h := 32, 16
	tr, err := New(TopologyField, Precision8, w, h, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(3))
	frame := randPlane(w, h, r, 1000)
	frames := [2][][]Sample{frame, frame}
	qFrame := [2][3]int{{1, 1, 1}, {1, 1, 1}}
	if err := tr.ForwardField(frames, qFrame, 1, nil); err != nil {
		t.Fatalf("ForwardField: %v", err)
	}
	temporalWv := tr.Wavelets[2]
	for y := 0; y < temporalWv.Bands[1].H; y++ {
		for _, v := range temporalWv.Bands[1].Row(y) {
			if v != 0 {
				t.Fatalf("identical frames should produce zero temporal highpass, got %d", v)
			}
		}
	}
	dstA, dstB := allocDst(w, h), allocDst(w, h)
	if err := tr.InverseField(dstA, dstB); err != nil {
		t.Fatalf("InverseField: %v", err)
	}
	planesEqual(t, "field identical A", dstA, frame)
	planesEqual(t, "field identical B", dstB, frame)
}

func TestForwardFieldPlusInverseFieldPlusRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for _, tc := range []struct {
		w, h, levels int
	}{
		{32, 16, 0},
		{32, 16, 1},
	} {
		tr, err := New(TopologyFieldPlus, Precision8, tc.w, tc.h, tc.levels)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		frames := [2][][]Sample{randPlane(tc.w, tc.h, r, 1500), randPlane(tc.w, tc.h, r, 1500)}
		qFrame := [2][3]int{{1, 1, 1}, {1, 1, 1}}
		qLL := unitQuants(tc.levels)
		qHigh := unitQuants(tc.levels)

		if err := tr.ForwardFieldPlus(frames, qFrame, 1, qLL, qHigh); err != nil {
			t.Fatalf("ForwardFieldPlus levels=%d: %v", tc.levels, err)
		}
		if got, want := len(tr.Wavelets), 3+2*tc.levels; got != want {
			t.Fatalf("levels=%d: len(Wavelets) = %d, want %d", tc.levels, got, want)
		}
		dstA, dstB := allocDst(tc.w, tc.h), allocDst(tc.w, tc.h)
		if err := tr.InverseFieldPlus(dstA, dstB); err != nil {
			t.Fatalf("InverseFieldPlus levels=%d: %v", tc.levels, err)
		}
		planesEqual(t, "field-plus frame A", dstA, frames[0])
		planesEqual(t, "field-plus frame B", dstB, frames[1])
		tr.Free()
	}
}

func TestForwardFieldPlusZeroFrames(t *testing.T) {
	w, h, levels := 32, 16, 1
	tr, err := New(TopologyFieldPlus, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frames := [2][][]Sample{zeroPlane(w, h), zeroPlane(w, h)}
	qFrame := [2][3]int{{1, 1, 1}, {1, 1, 1}}
	qLL := unitQuants(levels)
	qHigh := unitQuants(levels)
	if err := tr.ForwardFieldPlus(frames, qFrame, 1, qLL, qHigh); err != nil {
		t.Fatalf("ForwardFieldPlus: %v", err)
	}
	dstA, dstB := allocDst(w, h), allocDst(w, h)
	if err := tr.InverseFieldPlus(dstA, dstB); err != nil {
		t.Fatalf("InverseFieldPlus: %v", err)
	}
	planesEqual(t, "field-plus zero A", dstA, frames[0])
	planesEqual(t, "field-plus zero B", dstB, frames[1])
}

func TestTransformLevelTracksDeepestForwardStep(t *testing.T) {
	w, h, levels := 32, 16, 2
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Level() != 0 {
		t.Fatalf("Level() before any Forward call = %d, want 0", tr.Level())
	}
	frame := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	if tr.Level() != levels+1 {
		t.Fatalf("Level() after ForwardSpatial = %d, want %d", tr.Level(), levels+1)
	}
	tr.Free()
	if tr.Level() != 0 {
		t.Fatalf("Level() after Free = %d, want 0", tr.Level())
	}
}

func TestTransformScratchGrowsAndIsReused(t *testing.T) {
	w, h, levels := 32, 16, 1
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	initial := len(tr.Scratch)
	frame := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial: %v", err)
	}
	grown := len(tr.Scratch)
	if grown <= initial {
		t.Fatalf("Scratch len = %d after forward, want > initial %d (frame level needs more than the ring allocation)", grown, initial)
	}
	tr.Free()

	dst := allocDst(w, h)
	frame2 := zeroPlane(w, h)
	if err := tr.ForwardSpatial(frame2, unitQuants(levels+1)); err != nil {
		t.Fatalf("second ForwardSpatial: %v", err)
	}
	if len(tr.Scratch) != grown {
		t.Fatalf("Scratch len = %d on a second frame of the same size, want %d (no reallocation)", len(tr.Scratch), grown)
	}
	if err := tr.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial: %v", err)
	}
}

func TestTransformMaxScratchBytesRejectsGrowth(t *testing.T) {
	w, h, levels := 32, 16, 0
	tr, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr.MaxScratchBytes = len(tr.Scratch) // forbid any growth past the initial ring allocation
	frame := zeroPlane(w, h)
	err = tr.ForwardSpatial(frame, unitQuants(levels+1))
	if err == nil {
		t.Fatalf("ForwardSpatial should fail once the frame level's staging need exceeds MaxScratchBytes")
	}
	var cfErr *cferr.Error
	if !errors.As(err, &cfErr) || cfErr.Code != cferr.TransformMemory {
		t.Fatalf("ForwardSpatial error = %v, want cferr.TransformMemory", err)
	}
}

func TestTransformRowConsumedSelectsStackedLayout(t *testing.T) {
	w, h, levels := 32, 16, 0
	quad, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frame := zeroPlane(w, h)
	if err := quad.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial (quad): %v", err)
	}

	stacked, err := New(TopologySpatial, Precision8, w, h, levels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stacked.RowConsumed = true
	if err := stacked.ForwardSpatial(frame, unitQuants(levels+1)); err != nil {
		t.Fatalf("ForwardSpatial (stacked): %v", err)
	}

	quadPitch := quad.Wavelets[0].Pitch
	stackedPitch := stacked.Wavelets[0].Pitch
	if quadPitch == stackedPitch {
		t.Fatalf("RowConsumed had no effect on allocation: quad pitch %d == stacked pitch %d", quadPitch, stackedPitch)
	}

	dst := allocDst(w, h)
	if err := stacked.InverseSpatial(dst); err != nil {
		t.Fatalf("InverseSpatial on a RowConsumed (stacked) transform: %v", err)
	}
	planesEqual(t, "stacked layout round trip", dst, frame)
}

func TestPrescaleForFieldSharesFieldPlusTable(t *testing.T) {
	for _, p := range []Precision{Precision8, Precision10, Precision12} {
		field := prescaleFor(TopologyField, p)
		fieldPlus := prescaleFor(TopologyFieldPlus, p)
		if field != fieldPlus {
			t.Fatalf("precision %v: FIELD prescale %v != FIELD-PLUS prescale %v", p, field, fieldPlus)
		}
	}
}
