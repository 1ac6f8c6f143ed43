package lift

import (
	"math/rand"
	"testing"
)

func TestTemporalRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for i := 0; i < 200; i++ {
		a := Sample(r.Intn(8193) - 4096)
		b := Sample(r.Intn(8193) - 4096)
		low, high := Temporal(a, b)
		gotA, gotB := InverseTemporal(low, high)
		if gotA != a || gotB != b {
			t.Fatalf("temporal round trip: a=%d b=%d -> low=%d high=%d -> %d,%d", a, b, low, high, gotA, gotB)
		}
	}
}

func TestTemporalIdenticalFramesHaveZeroHighpass(t *testing.T) {
	a := Sample(1234)
	_, high := Temporal(a, a)
	if high != 0 {
		t.Fatalf("identical frame pair produced nonzero temporal highpass: %d", high)
	}
}

func TestTemporalRowRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(14))
	n := 128
	a := randBoundedRow(n, r)
	b := randBoundedRow(n, r)
	low := make([]Sample, n)
	high := make([]Sample, n)
	TemporalRow(a, b, low, high)

	gotA := make([]Sample, n)
	gotB := make([]Sample, n)
	InverseTemporalRow(low, high, gotA, gotB)

	for i := range a {
		if gotA[i] != a[i] || gotB[i] != b[i] {
			t.Fatalf("row %d: got a=%d b=%d want a=%d b=%d", i, gotA[i], gotB[i], a[i], b[i])
		}
	}
}

func TestTemporalSaturatingExtremes(t *testing.T) {
	// Sums and differences of extreme pairs saturate, so the round trip is
	// lossy; the results must be the saturated values, never wrapped ones.
	cases := []struct{ in, want [2]Sample }{
		{[2]Sample{32767, -32768}, [2]Sample{16383, -16384}},
		{[2]Sample{-32768, 32767}, [2]Sample{-16385, 16383}},
		{[2]Sample{32767, 32767}, [2]Sample{16383, 16383}},
		{[2]Sample{-32768, -32768}, [2]Sample{-16384, -16384}},
	}
	for _, c := range cases {
		low, high := Temporal(c.in[0], c.in[1])
		a, b := InverseTemporal(low, high)
		if a != c.want[0] || b != c.want[1] {
			t.Fatalf("extreme pair %v: got (%d,%d) want %v", c.in, a, b, c.want)
		}
	}
}
