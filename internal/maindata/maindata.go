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

// Package maindata decodes Layer III main data: scalefactors (MPEG-1
// and LSF layouts) and the Huffman-coded frequency lines. It operates
// on a bit pointer that the caller has already positioned at the
// correct main_data_begin back-reference; the reservoir bookkeeping
// itself lives in the stream layer, which is the only component that
// spans frame boundaries.
package maindata

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/huffman"
	"github.com/madgopher/madgo/internal/sideinfo"
)

// MainData is the decoded main data for one frame.
type MainData struct {
	ScalefacL [2][2][22]int    // [gr][ch][sfb], long-block scalefactors
	ScalefacS [2][2][13][3]int // [gr][ch][sfb][window], short-block scalefactors
	Is        [2][2][576]int   // Huffman-decoded, pre-requantization frequency lines
}

// Read decodes scalefactors and Huffman data for every granule and
// channel, using si for the field widths, block types and Huffman
// table selectors already parsed from side info.
func Read(p *bits.Ptr, h frameheader.FrameHeader, si sideinfo.SideInfo) (*MainData, error) {
	md := &MainData{}
	nch := h.NumberOfChannels()
	granules := h.Granules()
	sfreqIdx := int(h.SamplingFrequency())

	for gr := 0; gr < granules; gr++ {
		for ch := 0; ch < nch; ch++ {
			part2Start := p.Pos()
			if h.IsLSF() {
				intensityRight := h.UseIntensityStereo() && ch == 1
				readScalefactorsLSF(p, si, md, gr, ch, intensityRight)
			} else {
				readScalefactorsMpeg1(p, si, md, gr, ch, gr > 0)
			}
			part2Bits := p.Pos() - part2Start
			part3Bits := si.Part2_3Length[gr][ch] - part2Bits

			if err := readHuffman(p, si, md, gr, ch, part3Bits, sfreqIdx); err != nil {
				return nil, err
			}
		}
	}
	return md, nil
}

func readScalefactorsMpeg1(p *bits.Ptr, si sideinfo.SideInfo, md *MainData, gr, ch int, canInherit bool) {
	sizes := consts.ScalefacSizesMpeg1[si.ScalefacCompress[gr][ch]]
	slen1, slen2 := sizes[0], sizes[1]

	short := si.WinSwitchFlag[gr][ch] != 0 && si.BlockType[gr][ch] == 2
	mixed := short && si.MixedBlockFlag[gr][ch] != 0

	if short {
		longBands := 0
		if mixed {
			longBands = 8
		}
		for sfb := 0; sfb < longBands; sfb++ {
			md.ScalefacL[gr][ch][sfb] = int(p.Bits(slenFor(sfb, slen1, slen2)))
		}
		startSfb := 3 // mixed blocks skip the short bands the 8 long bands cover
		if !mixed {
			startSfb = 0
		}
		for sfb := startSfb; sfb < 12; sfb++ {
			for w := 0; w < 3; w++ {
				n := slen1
				if sfb >= 6 {
					n = slen2
				}
				md.ScalefacS[gr][ch][sfb][w] = int(p.Bits(n))
			}
		}
		return
	}

	// scfsi groups {0..5},{6..10},{11..15},{16..20} may be inherited
	// from granule 0's decoded values rather than re-read.
	groupStart := [4]int{0, 6, 11, 16}
	groupEnd := [4]int{6, 11, 16, 21}
	for g := 0; g < 4; g++ {
		inherited := canInherit && si.Scfsi[ch][g] != 0
		for sfb := groupStart[g]; sfb < groupEnd[g]; sfb++ {
			if inherited {
				md.ScalefacL[gr][ch][sfb] = md.ScalefacL[gr-1][ch][sfb]
				continue
			}
			md.ScalefacL[gr][ch][sfb] = int(p.Bits(slenFor(sfb, slen1, slen2)))
		}
	}
}

func slenFor(sfb, slen1, slen2 int) int {
	if sfb < 11 {
		return slen1
	}
	return slen2
}

// readScalefactorsLSF reads one channel's LSF (MPEG-2/2.5) scalefactors.
// Unlike the MPEG-1 layout, the field widths aren't a per-compress-value
// lookup: scalefac_compress packs up to four slen widths directly, with
// the packing rule (and the resulting scalefactor band-count partition,
// nsfb) depending on which of three numeric ranges it falls in — and,
// for the channel intensity stereo treats as the right channel, on a
// second, halved set of ranges entirely (see lsfSlenAndRow).
func readScalefactorsLSF(p *bits.Ptr, si sideinfo.SideInfo, md *MainData, gr, ch int, intensityRight bool) {
	short := si.WinSwitchFlag[gr][ch] != 0 && si.BlockType[gr][ch] == 2
	mixed := short && si.MixedBlockFlag[gr][ch] != 0

	partition := 0
	switch {
	case short && !mixed:
		partition = 1
	case mixed:
		partition = 2
	}

	slen, row := lsfSlenAndRow(si.ScalefacCompress[gr][ch], intensityRight)
	nsfb := consts.NsfbTableLSF[row][partition]

	if !short {
		sfb := 0
		for grp := 0; grp < 4; grp++ {
			for i := 0; i < nsfb[grp] && sfb < 22; i++ {
				md.ScalefacL[gr][ch][sfb] = int(p.Bits(slen[grp]))
				sfb++
			}
		}
		return
	}

	longBands := 0
	if mixed {
		longBands = 8
	}
	lsfb, grp, i := 0, 0, 0
	for lsfb < longBands {
		if i >= nsfb[grp] {
			grp++
			i = 0
			continue
		}
		md.ScalefacL[gr][ch][lsfb] = int(p.Bits(slen[grp]))
		lsfb++
		i++
	}
	sfb := 0
	for sfb < 12 {
		if i >= nsfb[grp] {
			grp++
			i = 0
			continue
		}
		for w := 0; w < 3; w++ {
			md.ScalefacS[gr][ch][sfb][w] = int(p.Bits(slen[grp]))
		}
		sfb++
		i++
	}
}

// lsfSlenAndRow derives the four scalefactor field widths packed into
// scalefac_compress and the NsfbTableLSF row they pair with. A normal
// channel uses three ranges over the raw value (<400, <500, else); the
// channel intensity stereo treats as the right channel instead halves
// scalefac_compress first and uses three ranges over that (<180, <244,
// else), per the standard's separate packing for that case.
func lsfSlenAndRow(compress int, intensityRight bool) (slen [4]int, row int) {
	if !intensityRight {
		switch {
		case compress < 400:
			slen[0] = (compress >> 4) / 5
			slen[1] = (compress >> 4) % 5
			slen[2] = (compress & 0xf) >> 2
			slen[3] = compress & 3
			row = 0
		case compress < 500:
			c := compress - 400
			slen[0] = (c >> 2) / 5
			slen[1] = (c >> 2) % 5
			slen[2] = c & 3
			row = 1
		default:
			c := compress - 500
			slen[0] = c / 3
			slen[1] = c % 3
			row = 2
		}
		return slen, row
	}

	c := compress >> 1
	switch {
	case c < 180:
		slen[0] = c / 36
		slen[1] = (c % 36) / 6
		slen[2] = (c % 36) % 6
		row = 3
	case c < 244:
		c -= 180
		slen[0] = (c % 80) >> 4
		slen[1] = (c % 16) >> 2
		slen[2] = c & 3
		row = 4
	default:
		c -= 244
		slen[0] = c / 3
		slen[1] = c % 3
		row = 5
	}
	return slen, row
}

// readHuffman decodes the big_values, count1 and implicit-zero
// regions for one granule/channel into md.Is[gr][ch], consuming
// exactly budgetBits bits of part3 data (padding with zero pairs on
// underrun, as the standard allows for a corrupted tail).
func readHuffman(p *bits.Ptr, si sideinfo.SideInfo, md *MainData, gr, ch, budgetBits, sfreqIdx int) error {
	start := p.Pos()
	end := start + budgetBits
	bigValues := si.BigValues[gr][ch]
	if bigValues > 288 {
		return BadBigValues{}
	}

	region1Start, region2Start := regionBoundaries(si, gr, ch, bigValues, sfreqIdx)

	line := 0
	for pair := 0; pair < bigValues && p.Pos() < end; pair++ {
		var sel int
		switch {
		case line < region1Start:
			sel = si.TableSelect[gr][ch][0]
		case line < region2Start:
			sel = si.TableSelect[gr][ch][1]
		default:
			sel = si.TableSelect[gr][ch][2]
		}
		tbl, err := huffman.Table(sel)
		if err != nil {
			return err
		}
		var x, y int
		if tbl != nil {
			x, y, err = tbl.Decode(p)
			if err != nil {
				return err
			}
		}
		md.Is[gr][ch][line] = x
		md.Is[gr][ch][line+1] = y
		line += 2
	}
	for ; line < 2*bigValues; line++ {
		md.Is[gr][ch][line] = 0
	}

	count1Table := si.Count1TableSelect[gr][ch]
	for line < consts.SamplesPerGranule && p.Pos() < end {
		v, w, x, y := huffman.DecodeQuad(p, count1Table)
		if line < consts.SamplesPerGranule {
			md.Is[gr][ch][line] = v
		}
		if line+1 < consts.SamplesPerGranule {
			md.Is[gr][ch][line+1] = w
		}
		if line+2 < consts.SamplesPerGranule {
			md.Is[gr][ch][line+2] = x
		}
		if line+3 < consts.SamplesPerGranule {
			md.Is[gr][ch][line+3] = y
		}
		line += 4
	}
	for ; line < consts.SamplesPerGranule; line++ {
		md.Is[gr][ch][line] = 0
	}

	if p.Pos() < end {
		p.Skip(end - p.Pos())
	} else if p.Pos() > end {
		p.SetPos(end)
	}
	return nil
}

// regionBoundaries returns the frequency-line index where region 1
// and region 2 of the big_values area begin, per the side info's
// region0_count/region1_count (long blocks) or the fixed 36-line
// first region (short blocks, which use only one region).
func regionBoundaries(si sideinfo.SideInfo, gr, ch, bigValues, sfreqIdx int) (region1Start, region2Start int) {
	maxLine := 2 * bigValues
	if si.WinSwitchFlag[gr][ch] != 0 && si.BlockType[gr][ch] == 2 {
		return 36, maxLine
	}
	bands := consts.SfBandIndexLong[sfreqIdx]
	r0 := si.Region0Count[gr][ch] + 1
	r1 := si.Region1Count[gr][ch] + 1
	if r0 >= len(bands) {
		r0 = len(bands) - 1
	}
	region1Start = bands[r0]
	idx := r0 + r1
	if idx >= len(bands) {
		idx = len(bands) - 1
	}
	region2Start = bands[idx]
	if region1Start > maxLine {
		region1Start = maxLine
	}
	if region2Start > maxLine {
		region2Start = maxLine
	}
	return
}

// BadBigValues reports a big_values field exceeding the legal 288
// pairs (576 lines) per granule.
type BadBigValues struct{}

func (BadBigValues) Error() string { return "madgo: big_values exceeds 288" }
