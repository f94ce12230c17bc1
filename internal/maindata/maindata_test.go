package maindata_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/maindata"
	"github.com/madgopher/madgo/internal/sideinfo"
)

func header(id consts.Version, mode consts.Mode) frameheader.FrameHeader {
	v := uint32(0x7ff) << 21
	v |= uint32(id) << 19
	v |= uint32(consts.Layer3) << 17
	v |= 1 << 16
	v |= 5 << 12
	v |= uint32(mode) << 6
	return frameheader.FrameHeader(v)
}

func TestReadAllZeroGranule(t *testing.T) {
	h := header(consts.Version1, consts.ModeSingleChannel)
	var si sideinfo.SideInfo
	// part2_3_length = 0 means no scalefactor or huffman bits at all
	// for this granule/channel; every frequency line stays zero.
	buf := make([]byte, 256)
	p := bits.New(buf)
	md, err := maindata.Read(&p, h, si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 576; i++ {
		if md.Is[0][0][i] != 0 {
			t.Fatalf("Is[0][0][%d] = %d, want 0", i, md.Is[0][0][i])
		}
	}
}

func TestReadLSFSingleGranule(t *testing.T) {
	h := header(consts.Version2, consts.ModeSingleChannel)
	var si sideinfo.SideInfo
	buf := make([]byte, 256)
	p := bits.New(buf)
	if _, err := maindata.Read(&p, h, si); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
