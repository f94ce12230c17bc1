package synth_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/synth"
)

func TestFrameSilenceYieldsSilence(t *testing.T) {
	s := synth.New()
	var sb [36][32]fixed.Fixed
	out := make([]fixed.Fixed, 36*32)
	s.Frame(0, &sb, 36, out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %d, want 0", i, v)
		}
	}
}

func TestFrameLSFRowCount(t *testing.T) {
	s := synth.New()
	var sb [36][32]fixed.Fixed
	sb[0][0] = fixed.One / 2
	out := make([]fixed.Fixed, 18*32)
	s.Frame(0, &sb, 18, out)
	found := false
	for _, v := range out {
		if v != 0 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected nonzero output from nonzero subband input")
	}
}

func TestMuteClearsHistory(t *testing.T) {
	s := synth.New()
	var sb [36][32]fixed.Fixed
	sb[0][0] = fixed.One
	out := make([]fixed.Fixed, 36*32)
	s.Frame(0, &sb, 36, out)
	s.Mute()

	var zero [36][32]fixed.Fixed
	out2 := make([]fixed.Fixed, 36*32)
	s.Frame(0, &zero, 36, out2)
	for i, v := range out2 {
		if v != 0 {
			t.Fatalf("out2[%d] = %d, want 0 after Mute", i, v)
		}
	}
}
