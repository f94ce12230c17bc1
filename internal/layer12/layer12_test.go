package layer12_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/layer12"
)

func header(mode consts.Mode, modeExt int) frameheader.FrameHeader {
	v := uint32(0x7ff) << 21
	v |= uint32(consts.Version1) << 19
	v |= uint32(consts.Layer1) << 17
	v |= 1 << 16 // no CRC
	v |= 5 << 12
	v |= uint32(mode) << 6
	v |= uint32(modeExt) << 4
	return frameheader.FrameHeader(v)
}

// A zero-filled buffer makes every 4-bit allocation code zero, so
// Layer I should decode to complete silence without consuming any
// sample bits.
func TestDecodeLayerISilentSubbands(t *testing.T) {
	h := header(consts.ModeStereo, 0)
	buf := make([]byte, 64)
	p := bits.New(buf)
	var sb [2][36][32]fixed.Fixed
	if err := layer12.DecodeLayerI(&p, h, &sb, layer12.CRC{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for ch := 0; ch < 2; ch++ {
		for s := 0; s < 12; s++ {
			for i := 0; i < 32; i++ {
				if sb[ch][s][i] != 0 {
					t.Fatalf("sb[%d][%d][%d] = %d, want 0", ch, s, i, sb[ch][s][i])
				}
			}
		}
	}
}

func TestDecodeLayerIRejectsReservedAllocation(t *testing.T) {
	h := header(consts.ModeStereo, 0)
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = 0xff // every 4-bit allocation code reads as 15 (reserved)
	}
	p := bits.New(buf)
	var sb [2][36][32]fixed.Fixed
	err := layer12.DecodeLayerI(&p, h, &sb, layer12.CRC{})
	if _, ok := err.(layer12.BadBitAlloc); !ok {
		t.Fatalf("got %v, want BadBitAlloc", err)
	}
}

func TestDecodeLayerIIJointStereoBound(t *testing.T) {
	h := header(consts.ModeJointStereo, 1) // mode_ext=1 -> bound = 8
	buf := make([]byte, 256)
	p := bits.New(buf)
	var sb [2][36][32]fixed.Fixed
	if err := layer12.DecodeLayerII(&p, h, &sb, layer12.CRC{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
