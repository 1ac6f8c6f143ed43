package quant

import "github.com/gopro/cineform-wavelet/coeff"

// maxRunLength is the longest zero-run one packed token can carry:
// chunk<<1 must stay within int16's positive range.
const maxRunLength = 16383

// PackRuns rewrites a quantized highpass row as an interleaved
// {zero-run, value} token stream, per the engine's optional highpass
// run-packing format. A run token has its low bit 0 and carries the
// run length in the remaining bits; a value token has its low bit 1
// and carries the original coefficient shifted left by one. A run
// token of zero length terminates the stream early whenever the row
// ends in a run of zeros, so the whole trailing zero run costs a single
// token (a row like [5, 0] packs to two tokens, no shorter than itself).
//
// PackRuns does not modify row; UnpackRuns is its exact inverse except
// where the doubled value overflows int16, which only the dead-zone
// quantizer's largest possible outputs can trigger.
func PackRuns(row []coeff.Sample) []coeff.Sample {
	out := make([]coeff.Sample, 0, len(row))
	n := len(row)
	i := 0
	for i < n {
		if row[i] == 0 {
			j := i
			for j < n && row[j] == 0 {
				j++
			}
			if j == n {
				out = append(out, 0)
				i = j
				break
			}
			runLen := j - i
			for runLen > 0 {
				chunk := runLen
				if chunk > maxRunLength {
					chunk = maxRunLength
				}
				out = append(out, coeff.Sample(chunk<<1))
				runLen -= chunk
			}
			i = j
		} else {
			v := row[i]
			out = append(out, v<<1|1)
			i++
		}
	}
	return out
}

// UnpackRuns expands a PackRuns stream back into a row of the original
// width. width must match the row length PackRuns was given.
func UnpackRuns(packed []coeff.Sample, width int) []coeff.Sample {
	row := make([]coeff.Sample, width)
	pos := 0
	for _, tok := range packed {
		if pos >= width {
			break
		}
		if tok&1 == 1 {
			row[pos] = tok >> 1
			pos++
			continue
		}
		runLen := int(tok >> 1)
		if runLen == 0 {
			// Terminator: the rest of the row is zero, already the
			// zero value of a freshly allocated slice.
			break
		}
		pos += runLen
	}
	return row
}
