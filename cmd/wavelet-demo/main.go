// Command wavelet-demo round-trips a synthetic gradient frame through
// the transform engine and reports reconstruction PSNR. It exists for
// manual verification only, the way the original project's PGM-driven
// demo does; it is not part of the engine's public contract.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/gopro/cineform-wavelet/transform"
)

func main() {
	width := flag.Int("width", 64, "frame width (must be even)")
	height := flag.Int("height", 64, "frame height (must be even)")
	levels := flag.Int("levels", 3, "spatial refinement levels beyond the frame-level wavelet")
	quantDivisor := flag.Int("q", 1, "highpass quantization divisor applied at every level")
	flag.Parse()

	fmt.Println("Wavelet transform round-trip demo")
	fmt.Println("==================================")
	fmt.Printf("Frame: %dx%d, SPATIAL topology, %d levels, q=%d\n", *width, *height, *levels, *quantDivisor)

	frame := gradientFrame(*width, *height)

	tr, err := transform.New(transform.TopologySpatial, transform.Precision8, *width, *height, *levels)
	if err != nil {
		log.Fatalf("transform.New: %v", err)
	}

	quants := make([][3]int, *levels+1)
	for i := range quants {
		quants[i] = [3]int{*quantDivisor, *quantDivisor, *quantDivisor}
	}

	if err := tr.ForwardSpatial(frame, quants); err != nil {
		log.Fatalf("ForwardSpatial: %v", err)
	}
	fmt.Printf("Forward pass complete: %d wavelet levels produced\n", len(tr.Wavelets))

	recon := make([][]transform.Sample, *height)
	for y := range recon {
		recon[y] = make([]transform.Sample, *width)
	}
	if err := tr.InverseSpatial(recon); err != nil {
		log.Fatalf("InverseSpatial: %v", err)
	}
	tr.Free()

	p := psnr(frame, recon)
	fmt.Printf("\nReconstruction PSNR: %.2f dB\n", p)
	if *quantDivisor == 1 {
		fmt.Println("(q=1 should reproduce the original exactly: expect +Inf dB)")
	}
}

func gradientFrame(w, h int) [][]transform.Sample {
	rows := make([][]transform.Sample, h)
	for y := 0; y < h; y++ {
		row := make([]transform.Sample, w)
		for x := 0; x < w; x++ {
			row[x] = transform.Sample((x + y) % 256)
		}
		rows[y] = row
	}
	return rows
}

func psnr(a, b [][]transform.Sample) float64 {
	var sumSq float64
	var n int
	for y := range a {
		for x := range a[y] {
			d := float64(a[y][x]) - float64(b[y][x])
			sumSq += d * d
			n++
		}
	}
	if sumSq == 0 {
		return math.Inf(1)
	}
	mse := sumSq / float64(n)
	return 10 * math.Log10(255*255/mse)
}
