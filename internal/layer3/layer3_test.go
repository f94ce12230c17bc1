package layer3_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/layer3"
	"github.com/madgopher/madgo/internal/maindata"
	"github.com/madgopher/madgo/internal/sideinfo"
)

func header(mode consts.Mode, modeExt int) frameheader.FrameHeader {
	v := uint32(0x7ff) << 21
	v |= uint32(consts.Version1) << 19
	v |= uint32(consts.Layer3) << 17
	v |= 1 << 16 // no CRC
	v |= 5 << 12
	v |= uint32(mode) << 6
	v |= uint32(modeExt) << 4
	return frameheader.FrameHeader(v)
}

func TestDecodeAllZeroGranuleSilence(t *testing.T) {
	h := header(consts.ModeSingleChannel, 0)
	var md maindata.MainData
	var si sideinfo.SideInfo
	var overlap [2][32][18]fixed.Fixed
	var sbsample [2][36][32]fixed.Fixed

	if err := layer3.Decode(&md, si, h, &overlap, &sbsample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for row := 0; row < 36; row++ {
		for sb := 0; sb < 32; sb++ {
			if sbsample[0][row][sb] != 0 {
				t.Fatalf("sbsample[0][%d][%d] = %d, want 0", row, sb, sbsample[0][row][sb])
			}
		}
	}
}

func TestDecodeStereoMSNoPanic(t *testing.T) {
	h := header(consts.ModeJointStereo, 2) // mode_ext bit 0x2 -> MS stereo only
	var md maindata.MainData
	var si sideinfo.SideInfo
	var overlap [2][32][18]fixed.Fixed
	var sbsample [2][36][32]fixed.Fixed

	if err := layer3.Decode(&md, si, h, &overlap, &sbsample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeRejectsMismatchedBlockTypesUnderBothStereoModes(t *testing.T) {
	h := header(consts.ModeJointStereo, 3) // both MS and intensity stereo
	var md maindata.MainData
	var si sideinfo.SideInfo
	si.BlockType[0][0] = 0
	si.BlockType[0][1] = 2
	var overlap [2][32][18]fixed.Fixed
	var sbsample [2][36][32]fixed.Fixed

	err := layer3.Decode(&md, si, h, &overlap, &sbsample)
	if _, ok := err.(layer3.BadStereo); !ok {
		t.Fatalf("got %v, want BadStereo", err)
	}
}

func TestDecodeOverlapCarriesAcrossGranules(t *testing.T) {
	h := header(consts.ModeSingleChannel, 0)
	var md maindata.MainData
	// Give granule 0 a nonzero line so its IMDCT tail feeds granule 1's
	// overlap-add; this should not panic and should leave granule 1
	// nonzero in the first rows even though its own Is data is zero.
	md.Is[0][0][0] = 4
	md.ScalefacL[0][0][0] = 0
	var si sideinfo.SideInfo
	si.GlobalGain[0][0] = 210
	si.GlobalGain[1][0] = 210
	var overlap [2][32][18]fixed.Fixed
	var sbsample [2][36][32]fixed.Fixed

	if err := layer3.Decode(&md, si, h, &overlap, &sbsample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nonzero := false
	for row := 18; row < 36; row++ {
		if sbsample[0][row][0] != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Fatal("granule 1 rows of subband 0 are all zero; want granule 0's overlap tail")
	}
}
