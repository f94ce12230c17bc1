package sideinfo_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/frameheader"
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

func TestReadMPEG1StereoSize(t *testing.T) {
	h := header(consts.Version1, consts.ModeStereo)
	buf := make([]byte, 32)
	begin := bits.New(buf)
	p := begin
	if _, err := sideinfo.Read(&p, h); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := bits.Length(begin, p); got != 32*8 {
		t.Fatalf("consumed %d bits, want %d", got, 32*8)
	}
}

func TestReadLSFMonoSize(t *testing.T) {
	h := header(consts.Version2, consts.ModeSingleChannel)
	buf := make([]byte, 9)
	begin := bits.New(buf)
	p := begin
	if _, err := sideinfo.Read(&p, h); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := bits.Length(begin, p); got != 9*8 {
		t.Fatalf("consumed %d bits, want %d", got, 9*8)
	}
}
