// Copyright 2017 Hajime Hoshi
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package frameheader decodes the 32-bit frame header shared by every
// MPEG-1/2/2.5 Layer I/II/III frame.
package frameheader

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
)

// FrameHeader is a raw 32-bit MPEG audio frame header.
type FrameHeader uint32

// ID returns this header's ID stored in position 20,19.
func (h FrameHeader) ID() consts.Version {
	return consts.Version((h & 0x00180000) >> 19)
}

// Layer returns the MPEG layer of this frame, stored in position 18,17.
func (h FrameHeader) Layer() consts.Layer {
	return consts.Layer((h & 0x00060000) >> 17)
}

// ProtectionBit returns the protection bit stored in position 16. It
// is inverted on the wire: 0 means a CRC follows the header, 1 means
// no CRC.
func (h FrameHeader) ProtectionBit() int {
	return int(h&0x00010000) >> 16
}

// HasCRC reports whether a 16-bit CRC word follows this header.
func (h FrameHeader) HasCRC() bool {
	return h.ProtectionBit() == 0
}

// BitrateIndex returns the bitrate index stored in position 15,12.
func (h FrameHeader) BitrateIndex() int {
	return int(h&0x0000f000) >> 12
}

// SamplingFrequency returns the sampling_frequency field stored in
// position 11,10.
func (h FrameHeader) SamplingFrequency() consts.SamplingFrequency {
	return consts.SamplingFrequency(int(h&0x00000c00) >> 10)
}

// PaddingBit returns the padding bit stored in position 9.
func (h FrameHeader) PaddingBit() int {
	return int(h&0x00000200) >> 9
}

// PrivateBit returns the private bit stored in position 8.
func (h FrameHeader) PrivateBit() int {
	return int(h&0x00000100) >> 8
}

// Mode returns the channel mode stored in position 7,6.
func (h FrameHeader) Mode() consts.Mode {
	return consts.Mode((h & 0x000000c0) >> 6)
}

// ModeExtension returns the mode_extension field (joint stereo band
// split / MS-intensity flags) stored in position 5,4.
func (h FrameHeader) ModeExtension() int {
	return int(h&0x00000030) >> 4
}

// Copyright returns the copyright bit stored in position 3.
func (h FrameHeader) Copyright() int {
	return int(h&0x00000008) >> 3
}

// OriginalOrCopy returns the original/copy bit stored in position 2.
func (h FrameHeader) OriginalOrCopy() int {
	return int(h&0x00000004) >> 2
}

// Emphasis returns the emphasis field stored in position 1,0.
func (h FrameHeader) Emphasis() int {
	return int(h&0x00000003) >> 0
}

// IsValid reports whether the header's fixed bits and reserved-value
// fields form a legal combination. It does not confirm the sync word
// against a following frame, which the free-format and speculative
// resync paths do separately.
func (h FrameHeader) IsValid() bool {
	const sync = 0xffe00000
	if (h & sync) != sync {
		return false
	}
	if h.ID() == consts.VersionReserved {
		return false
	}
	if h.Layer() == consts.LayerReserved {
		return false
	}
	if h.BitrateIndex() == 15 {
		return false
	}
	if h.SamplingFrequency() == 3 {
		return false
	}
	if h.Emphasis() == 2 {
		return false
	}
	return true
}

// IsLSF reports whether this header uses the MPEG-2/2.5 Lower
// Sampling Frequency side info and scalefactor layout.
func (h FrameHeader) IsLSF() bool {
	return h.ID().IsLSF()
}

// LowSamplingFrequency is an alias for IsLSF matching the name used
// by callers that read it as a boolean flag on the header rather than
// a derived property of the version.
func (h FrameHeader) LowSamplingFrequency() bool {
	return h.IsLSF()
}

// Bitrate returns the nominal bitrate in bits/s, or 0 for free format.
func (h FrameHeader) Bitrate() int {
	return consts.Bitrate(h.ID(), h.Layer(), h.BitrateIndex())
}

// IsFreeFormat reports whether this frame's bitrate must be
// discovered by scanning forward to the next header, rather than read
// directly from BitrateIndex.
func (h FrameHeader) IsFreeFormat() bool {
	return h.BitrateIndex() == 0
}

// SamplingFrequencyValue returns the sampling frequency in Hz.
func (h FrameHeader) SamplingFrequencyValue() int {
	return h.SamplingFrequency().Int(h.ID())
}

// NumberOfChannels returns 1 for single channel mode, 2 otherwise.
func (h FrameHeader) NumberOfChannels() int {
	if h.Mode() == consts.ModeSingleChannel {
		return 1
	}
	return 2
}

// Granules returns the number of Layer III granules per frame: 1 for
// LSF, 2 otherwise. Layer I and II frames have no granule structure
// and this method is meaningless for them.
func (h FrameHeader) Granules() int {
	if h.IsLSF() {
		return 1
	}
	return 2
}

// UseMSStereo reports whether this joint stereo frame carries a
// mid/side-coded signal, per the Layer III mode_extension bit 1.
func (h FrameHeader) UseMSStereo() bool {
	return h.Layer() == consts.Layer3 && h.Mode() == consts.ModeJointStereo && h.ModeExtension()&0x2 != 0
}

// UseIntensityStereo reports whether this joint stereo frame carries
// intensity-coded bands, per the Layer III mode_extension bit 0.
func (h FrameHeader) UseIntensityStereo() bool {
	return h.Layer() == consts.Layer3 && h.Mode() == consts.ModeJointStereo && h.ModeExtension()&0x1 != 0
}

// SideInfoSize returns the size in bytes of the Layer III side
// information that immediately follows the header (and CRC, if
// present).
func (h FrameHeader) SideInfoSize() int {
	nch := h.NumberOfChannels()
	switch {
	case h.IsLSF() && nch == 1:
		return 9
	case h.IsLSF():
		return 17
	case nch == 1:
		return 17
	default:
		return 32
	}
}

// BytesPerFrame returns this frame's total size in bytes, header
// included, given an explicit bitrate in bits/s (so free-format
// frames, whose bitrate cannot be read from BitrateIndex, can still
// compute a size once the bitrate has been discovered).
func (h FrameHeader) BytesPerFrame(bitrate int) int {
	sf := h.SamplingFrequencyValue()
	if sf == 0 || bitrate == 0 {
		return 0
	}
	switch h.Layer() {
	case consts.Layer1:
		return (12*bitrate/sf + h.PaddingBit()) * 4
	default:
		slots := consts.SamplesPerGranule * h.Granules() / 8
		if h.Layer() == consts.Layer2 {
			slots = 144
		}
		return slots*bitrate/sf + h.PaddingBit()
	}
}

// FrameSize returns this frame's total size in bytes using the
// bitrate encoded directly in the header. It is 0 for free-format
// frames; callers must discover the bitrate separately and call
// BytesPerFrame instead.
func (h FrameHeader) FrameSize() int {
	return h.BytesPerFrame(h.Bitrate())
}

// ParseAt reads the 32-bit header at byte offset pos in buf. It
// returns false if fewer than 4 bytes remain.
func ParseAt(buf []byte, pos int) (FrameHeader, bool) {
	if pos+4 > len(buf) {
		return 0, false
	}
	p := bits.NewAt(buf, pos)
	return FrameHeader(p.Bits(32)), true
}

// ConfirmNextSync reports whether a second, structurally valid header
// begins at the expected start of the next frame, the two-frame sync
// confirmation the header parser performs before trusting a
// newly-acquired lock (see Stream.header in package madgo).
func ConfirmNextSync(buf []byte, h FrameHeader, framePos, frameSize int) bool {
	if frameSize == 0 {
		return false
	}
	next, ok := ParseAt(buf, framePos+frameSize)
	if !ok {
		return false
	}
	return next.IsValid() && next.Layer() == h.Layer() && next.ID() == h.ID()
}

// DiscoverFreeBitrate scans forward from framePos for the next header
// sharing this frame's layer and sample rate, and derives the
// constant bitrate a free-format stream must be using from the byte
// distance between the two frames. A candidate whose derived rate
// would be below the 8 kbps floor the format allows is skipped and the
// scan continues; it returns 0 if no qualifying header is found before
// the end of buf.
func DiscoverFreeBitrate(buf []byte, h FrameHeader, framePos int) int {
	sf := h.SamplingFrequencyValue()
	if sf == 0 {
		return 0
	}
	pad := h.PaddingBit()
	for pos := framePos + 1; pos+4 <= len(buf); pos++ {
		cand, ok := ParseAt(buf, pos)
		if !ok || !cand.IsValid() {
			continue
		}
		if cand.Layer() != h.Layer() || cand.ID() != h.ID() || cand.SamplingFrequency() != h.SamplingFrequency() {
			continue
		}
		n := pos - framePos
		var rate int
		if h.Layer() == consts.Layer1 {
			rate = sf * (n - 4*pad + 4) / 48 / 1000
		} else {
			slots := consts.SamplesPerGranule * h.Granules() / 8
			if h.Layer() == consts.Layer2 {
				slots = 144
			}
			rate = sf * (n - pad + 1) / slots / 1000
		}
		if rate < 8 {
			continue
		}
		return rate * 1000
	}
	return 0
}
