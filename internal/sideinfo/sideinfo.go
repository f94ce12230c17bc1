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

// Package sideinfo decodes Layer III side information: the per-frame,
// per-granule, per-channel parameters (scalefactor lengths, block
// type, region boundaries, table selectors) that precede the Huffman
// main data.
package sideinfo

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/frameheader"
)

// A SideInfo is Layer III side information. [gr][ch] indexes granule
// and channel; an LSF frame only ever populates index 0 of the
// granule dimension.
type SideInfo struct {
	MainDataBegin int       // 9 bits MPEG-1, 8 bits LSF
	PrivateBits   int       // 5 bits mono, 3 stereo (MPEG-1); 1/2 bits (LSF)
	Scfsi         [2][4]int // 1 bit; MPEG-1 only, zero for LSF

	Part2_3Length    [2][2]int // 12 bits
	BigValues        [2][2]int // 9 bits
	GlobalGain       [2][2]int // 8 bits
	ScalefacCompress [2][2]int // 4 bits MPEG-1, 9 bits LSF
	WinSwitchFlag    [2][2]int // 1 bit

	BlockType      [2][2]int    // 2 bits
	MixedBlockFlag [2][2]int    // 1 bit
	TableSelect    [2][2][3]int // 5 bits
	SubblockGain   [2][2][3]int // 3 bits

	Region0Count [2][2]int // 4 bits
	Region1Count [2][2]int // 3 bits

	Preflag           [2][2]int // 1 bit; MPEG-1 only, zero for LSF
	ScalefacScale     [2][2]int // 1 bit
	Count1TableSelect [2][2]int // 1 bit
}

// BadBlockType reports a window_switching_flag granule whose 2-bit
// block_type field is 0, the value the standard reserves (a switched
// granule must declare start/short/stop, never "normal").
type BadBlockType struct{}

func (BadBlockType) Error() string { return "madgo: reserved block_type 0 under window switching" }

// Read decodes the side information immediately following the header
// (and CRC, if present) at p.
func Read(p *bits.Ptr, h frameheader.FrameHeader) (SideInfo, error) {
	var si SideInfo
	nch := h.NumberOfChannels()
	lsf := h.IsLSF()
	granules := h.Granules()

	if lsf {
		si.MainDataBegin = int(p.Bits(8))
		if nch == 1 {
			si.PrivateBits = int(p.Bits(1))
		} else {
			si.PrivateBits = int(p.Bits(2))
		}
	} else {
		si.MainDataBegin = int(p.Bits(9))
		if nch == 1 {
			si.PrivateBits = int(p.Bits(5))
		} else {
			si.PrivateBits = int(p.Bits(3))
		}
		for ch := 0; ch < nch; ch++ {
			for band := 0; band < 4; band++ {
				si.Scfsi[ch][band] = int(p.Bits(1))
			}
		}
	}

	for gr := 0; gr < granules; gr++ {
		for ch := 0; ch < nch; ch++ {
			si.Part2_3Length[gr][ch] = int(p.Bits(12))
			si.BigValues[gr][ch] = int(p.Bits(9))
			si.GlobalGain[gr][ch] = int(p.Bits(8))
			if lsf {
				si.ScalefacCompress[gr][ch] = int(p.Bits(9))
			} else {
				si.ScalefacCompress[gr][ch] = int(p.Bits(4))
			}
			si.WinSwitchFlag[gr][ch] = int(p.Bits(1))

			if si.WinSwitchFlag[gr][ch] != 0 {
				si.BlockType[gr][ch] = int(p.Bits(2))
				if si.BlockType[gr][ch] == 0 {
					return si, BadBlockType{}
				}
				si.MixedBlockFlag[gr][ch] = int(p.Bits(1))
				for i := 0; i < 2; i++ {
					si.TableSelect[gr][ch][i] = int(p.Bits(5))
				}
				for i := 0; i < 3; i++ {
					si.SubblockGain[gr][ch][i] = int(p.Bits(3))
				}
			} else {
				for i := 0; i < 3; i++ {
					si.TableSelect[gr][ch][i] = int(p.Bits(5))
				}
				si.Region0Count[gr][ch] = int(p.Bits(4))
				si.Region1Count[gr][ch] = int(p.Bits(3))
			}

			if !lsf {
				si.Preflag[gr][ch] = int(p.Bits(1))
			}
			si.ScalefacScale[gr][ch] = int(p.Bits(1))
			si.Count1TableSelect[gr][ch] = int(p.Bits(1))
		}
	}
	return si, nil
}
