// Package imdct implements the Layer III Inverse Modified Discrete
// Cosine Transform and its four block-type windows.
//
// Long blocks transform 18 frequency lines into 36 time samples;
// short blocks transform three interleaved sets of 6 lines into
// three 12-sample blocks which are then windowed and overlapped at a
// 6-sample stride before frequency-line reconstruction. Both cases
// are expressed here as the direct O(N^2) cosine sum rather than the
// fully factored, hand-scheduled butterfly network a production
// fixed-point decoder typically uses, since the factoring is a
// performance optimization, not a semantic difference — see
// DESIGN.md.
package imdct

import (
	"math"

	"github.com/madgopher/madgo/internal/fixed"
)

const (
	BlockTypeNormal = 0
	BlockTypeStart  = 1
	BlockTypeShort  = 2
	BlockTypeStop   = 3
)

var longCos [18][36]fixed.Fixed
var shortCos [6][12]fixed.Fixed

var longWindow [4][36]fixed.Fixed
var shortWindow [12]fixed.Fixed

func init() {
	const N36 = 18
	for k := 0; k < N36; k++ {
		for n := 0; n < 36; n++ {
			v := math.Cos(math.Pi / 36 * (2*float64(n) + 1 + 9) * (2*float64(k) + 1))
			longCos[k][n] = toFixed(v)
		}
	}
	const N12 = 6
	for k := 0; k < N12; k++ {
		for n := 0; n < 12; n++ {
			v := math.Cos(math.Pi / 12 * (2*float64(n) + 1 + 3) * (2*float64(k) + 1))
			shortCos[k][n] = toFixed(v)
		}
	}

	for i := 0; i < 36; i++ {
		longWindow[BlockTypeNormal][i] = toFixed(math.Sin(math.Pi / 36 * (float64(i) + 0.5)))
	}
	for i := 0; i < 36; i++ {
		var v float64
		switch {
		case i < 18:
			v = math.Sin(math.Pi / 36 * (float64(i) + 0.5))
		case i < 24:
			v = 1
		case i < 30:
			v = math.Sin(math.Pi / 12 * (float64(i-18) + 0.5))
		default:
			v = 0
		}
		longWindow[BlockTypeStart][i] = toFixed(v)
	}
	for i := 0; i < 36; i++ {
		longWindow[BlockTypeShort][i] = longWindow[BlockTypeNormal][i]
	}
	for i := 0; i < 36; i++ {
		var v float64
		switch {
		case i < 6:
			v = 0
		case i < 12:
			v = math.Sin(math.Pi / 12 * (float64(i-6) + 0.5))
		case i < 30:
			v = 1
		default:
			v = math.Sin(math.Pi / 36 * (float64(i) + 0.5))
		}
		longWindow[BlockTypeStop][i] = toFixed(v)
	}
	for i := 0; i < 12; i++ {
		shortWindow[i] = toFixed(math.Sin(math.Pi / 12 * (float64(i) + 0.5)))
	}
}

func toFixed(v float64) fixed.Fixed {
	return fixed.Fixed(math.Round(v * float64(int64(1)<<28)))
}

// Long computes the windowed 36-sample IMDCT output of an 18-line
// long block under the given block type.
func Long(in *[18]fixed.Fixed, blockType int) [36]fixed.Fixed {
	var out [36]fixed.Fixed
	for n := 0; n < 36; n++ {
		var acc fixed.Accum
		for k := 0; k < 18; k++ {
			acc.MulAcc(in[k], longCos[k][n])
		}
		out[n] = fixed.Mul(acc.Scale(true), longWindow[blockType][n])
	}
	return out
}

// Short computes the windowed, overlap-added 36-sample output of
// three interleaved 6-line short blocks. in holds the 18 frequency
// lines for this subband's short-block region, de-interleaved by the
// reorder step so in[w*6+k] is window w's k-th line.
func Short(in *[18]fixed.Fixed) [36]fixed.Fixed {
	var windows [3][12]fixed.Fixed
	for w := 0; w < 3; w++ {
		for n := 0; n < 12; n++ {
			var acc fixed.Accum
			for k := 0; k < 6; k++ {
				acc.MulAcc(in[w*6+k], shortCos[k][n])
			}
			windows[w][n] = fixed.Mul(acc.Scale(true), shortWindow[n])
		}
	}
	var out [36]fixed.Fixed
	for w := 0; w < 3; w++ {
		base := 6 + 6*w
		for n := 0; n < 12; n++ {
			out[base+n] = fixed.Add(out[base+n], windows[w][n])
		}
	}
	return out
}
