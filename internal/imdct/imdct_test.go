package imdct_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/imdct"
)

func TestLongZeroInputYieldsZeroOutput(t *testing.T) {
	var in [18]fixed.Fixed
	out := imdct.Long(&in, imdct.BlockTypeNormal)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %d, want 0", i, v)
		}
	}
}

func TestShortZeroInputYieldsZeroOutput(t *testing.T) {
	var in [18]fixed.Fixed
	out := imdct.Short(&in)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %d, want 0", i, v)
		}
	}
}

func TestLongOutputBounded(t *testing.T) {
	var in [18]fixed.Fixed
	for i := range in {
		in[i] = fixed.One / 4
	}
	out := imdct.Long(&in, imdct.BlockTypeNormal)
	// Each output is a windowed sum of 18 terms of magnitude at most
	// 0.25, so it cannot exceed 4.5.
	bound := fixed.FromInt(4) + fixed.One/2
	for i, v := range out {
		if v > bound || v < -bound {
			t.Fatalf("out[%d] = %d exceeds the 18*0.25 bound", i, v)
		}
	}
}
