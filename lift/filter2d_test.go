package lift

import (
	"math/rand"
	"testing"
)

func randPlane(w, h int, r *rand.Rand) [][]Sample {
	rows := make([][]Sample, h)
	for y := range rows {
		rows[y] = randBoundedRow(w, r)
	}
	return rows
}

func TestForward2DInverse2DRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, dims := range [][2]int{{8, 8}, {16, 6}, {34, 18}, {64, 64}} {
		w, h := dims[0], dims[1]
		rows := randPlane(w, h, r)

		ll, lh, hl, hh := Forward2D(rows, w, h)
		back := Inverse2D(ll, lh, hl, hh, w, h)

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if back[y][x] != rows[y][x] {
					t.Fatalf("%dx%d: mismatch at (%d,%d): got %d want %d", w, h, x, y, back[y][x], rows[y][x])
				}
			}
		}
	}
}

func TestForward2DZeroPlane(t *testing.T) {
	w, h := 16, 8
	rows := make([][]Sample, h)
	for y := range rows {
		rows[y] = make([]Sample, w)
	}
	ll, lh, hl, hh := Forward2D(rows, w, h)
	for _, band := range [][][]Sample{ll, lh, hl, hh} {
		for _, row := range band {
			for _, v := range row {
				if v != 0 {
					t.Fatalf("zero plane produced nonzero coefficient %d", v)
				}
			}
		}
	}
}

func TestForward2DDCPlane(t *testing.T) {
	w, h := 16, 8
	rows := make([][]Sample, h)
	for y := range rows {
		rows[y] = make([]Sample, w)
		for x := range rows[y] {
			rows[y][x] = 500
		}
	}
	ll, lh, hl, hh := Forward2D(rows, w, h)
	for _, band := range [][][]Sample{lh, hl, hh} {
		for _, row := range band {
			for _, v := range row {
				if v != 0 {
					t.Fatalf("constant plane leaked energy into a highpass band: %d", v)
				}
			}
		}
	}
	for _, row := range ll {
		for _, v := range row {
			if v != 2000 { // 500 summed across both horizontal and vertical pairs
				t.Fatalf("LL coefficient = %d, want 2000", v)
			}
		}
	}
}

func TestForward2DScratchMatchesForward2D(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, dims := range [][2]int{{8, 8}, {16, 6}, {34, 18}} {
		w, h := dims[0], dims[1]
		rows := randPlane(w, h, r)

		wantLL, wantLH, wantHL, wantHH := Forward2D(rows, w, h)

		scratch := make([]byte, ScratchBytesFor2D(w, h))
		gotLL, gotLH, gotHL, gotHH, ok := Forward2DScratch(rows, w, h, scratch)
		if !ok {
			t.Fatalf("%dx%d: Forward2DScratch reported insufficient scratch with an exactly-sized buffer", w, h)
		}
		for _, pair := range []struct {
			name      string
			want, got [][]Sample
		}{
			{"LL", wantLL, gotLL}, {"LH", wantLH, gotLH}, {"HL", wantHL, gotHL}, {"HH", wantHH, gotHH},
		} {
			for y := range pair.want {
				for x := range pair.want[y] {
					if pair.want[y][x] != pair.got[y][x] {
						t.Fatalf("%dx%d band %s: mismatch at (%d,%d): got %d want %d", w, h, pair.name, x, y, pair.got[y][x], pair.want[y][x])
					}
				}
			}
		}

		back, ok := Inverse2DScratch(gotLL, gotLH, gotHL, gotHH, w, h, scratch)
		if !ok {
			t.Fatalf("%dx%d: Inverse2DScratch reported insufficient scratch with an exactly-sized buffer", w, h)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if back[y][x] != rows[y][x] {
					t.Fatalf("%dx%d: scratch round trip mismatch at (%d,%d): got %d want %d", w, h, x, y, back[y][x], rows[y][x])
				}
			}
		}
	}
}

func TestForward2DScratchTooSmall(t *testing.T) {
	w, h := 16, 8
	rows := randPlane(w, h, rand.New(rand.NewSource(9)))
	scratch := make([]byte, ScratchBytesFor2D(w, h)-1)
	if _, _, _, _, ok := Forward2DScratch(rows, w, h, scratch); ok {
		t.Fatalf("Forward2DScratch reported success with an undersized scratch buffer")
	}
}

func TestForward2DMinimumDims(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	w, h := minWidthForBorders, minWidthForBorders
	rows := randPlane(w, h, r)
	ll, lh, hl, hh := Forward2D(rows, w, h)
	back := Inverse2D(ll, lh, hl, hh, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if back[y][x] != rows[y][x] {
				t.Fatalf("minimum-dims mismatch at (%d,%d): got %d want %d", x, y, back[y][x], rows[y][x])
			}
		}
	}
}
