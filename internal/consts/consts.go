// Package consts holds the tables and small enumerations shared by the
// frame header, Layer I/II and Layer III decoders: bitrate and sample
// rate tables, channel mode, the Layer I/II bit allocation and
// quantization class tables, and the scalefactor multiplier table.
//
// Tables whose literal values are not reproduced in any reference
// source at hand are computed at init time from their defining
// formula, the same way the upstream decoder this package is modeled
// on computes its cube-root requantization table: a short comment
// above each gives the formula.
package consts

import "math"

import "github.com/madgopher/madgo/internal/fixed"

// Version is the MPEG version bits (ID field) of the frame header.
type Version int

const (
	Version2_5 Version = iota
	VersionReserved
	Version2
	Version1
)

// IsLSF reports whether this version uses the MPEG-2 Lower Sampling
// Frequency frame layout (single granule, no scfsi, 8-bit
// main_data_begin).
func (v Version) IsLSF() bool {
	return v == Version2 || v == Version2_5
}

type Layer int

const (
	LayerReserved Layer = iota
	Layer3
	Layer2
	Layer1
)

type Mode int

const (
	ModeStereo Mode = iota
	ModeJointStereo
	ModeDualChannel
	ModeSingleChannel
)

// SamplingFrequency is the 2-bit sampling_frequency field; its meaning
// depends on Version (the same code selects a different table row for
// MPEG-1 vs MPEG-2 vs MPEG-2.5).
type SamplingFrequency int

// sampleRateTable holds, per index, the MPEG-1 rate; MPEG-2 halves it
// and MPEG-2.5 quarters it.
var sampleRateTable = [3]int{44100, 48000, 32000}

// Int returns the sampling frequency in Hz for the given MPEG version.
func (s SamplingFrequency) Int(v Version) int {
	rate := sampleRateTable[s]
	switch v {
	case Version2:
		return rate / 2
	case Version2_5:
		return rate / 4
	default:
		return rate
	}
}

// bitrateTable mirrors the classic 5-row layout: MPEG-1 Layer I,
// MPEG-1 Layer II, MPEG-1 Layer III, MPEG-2/2.5 Layer I, MPEG-2/2.5
// Layer II & III. Index 0 is "free format", 15 is reserved.
var bitrateTable = [5][16]int{
	{0, 32000, 64000, 96000, 128000, 160000, 192000, 224000,
		256000, 288000, 320000, 352000, 384000, 416000, 448000, 0},
	{0, 32000, 48000, 56000, 64000, 80000, 96000, 112000,
		128000, 160000, 192000, 224000, 256000, 320000, 384000, 0},
	{0, 32000, 40000, 48000, 56000, 64000, 80000, 96000,
		112000, 128000, 160000, 192000, 224000, 256000, 320000, 0},
	{0, 32000, 48000, 56000, 64000, 80000, 96000, 112000,
		128000, 144000, 160000, 176000, 192000, 224000, 256000, 0},
	{0, 8000, 16000, 24000, 32000, 40000, 48000, 56000,
		64000, 80000, 96000, 112000, 128000, 144000, 160000, 0},
}

// Bitrate returns the nominal bitrate in bits/s for the given version,
// layer and 4-bit bitrate_index. A result of 0 means free format;
// BitrateIndex 15 is reserved and must be rejected before calling this.
func Bitrate(v Version, l Layer, index int) int {
	row := 0
	switch {
	case l == Layer1:
		row = 0
	case l == Layer2:
		row = 1
	case l == Layer3:
		row = 2
	}
	if v != Version1 {
		if l == Layer1 {
			row = 3
		} else {
			row = 4
		}
	}
	return bitrateTable[row][index]
}

// SfTable holds the 63 Layer I/II scalefactor multipliers, sf[i] =
// 2^(2 - i/3) in real arithmetic, converted to Q4.28.
var SfTable [63]fixed.Fixed

// LinearTable holds the Layer I/II "C" requantization multipliers
// indexed by nb-2 for nb in [2,15]: C(nb) = 2^nb / (2^nb - 1).
var LinearTable [14]fixed.Fixed

// QuantClass describes one Layer II quantization class: the number of
// quantization levels, whether three consecutive samples are packed
// ("grouped") into a single code, the bit width of that code (or of
// one sample when ungrouped), and the requantization constants C, D
// such that requantized = C * (raw + D).
type QuantClass struct {
	Nlevels int
	Grouped bool
	Bits    int
	C       fixed.Fixed
	D       fixed.Fixed
}

// QCTable holds the 17 Layer II quantization classes, indexed the same
// way the bit allocation table's per-subband rows index into it.
var QCTable [17]QuantClass

var qcNlevels = [17]int{3, 5, 7, 9, 15, 31, 63, 127, 255, 511, 1023, 2047, 4095, 8191, 16383, 32767, 65535}
var qcGrouped = map[int]int{3: 5, 5: 7, 9: 10} // nlevels -> packed code bit width

func init() {
	for i := 0; i < 63; i++ {
		SfTable[i] = floatToFixed(math.Pow(2, 2-float64(i)/3))
	}
	for nb := 2; nb <= 15; nb++ {
		c := float64(uint64(1)<<uint(nb)) / float64(uint64(1)<<uint(nb)-1)
		LinearTable[nb-2] = floatToFixed(c)
	}
	for i, nlevels := range qcNlevels {
		nb := 0
		for (1 << uint(nb)) <= nlevels {
			nb++
		}
		c := float64(uint64(1)<<uint(nb)) / float64(uint64(1)<<uint(nb)-1)
		d := math.Pow(2, float64(1-nb))
		bits, grouped := qcGrouped[nlevels]
		if !grouped {
			bits = nb
		}
		QCTable[i] = QuantClass{
			Nlevels: nlevels,
			Grouped: qcGrouped[nlevels] != 0,
			Bits:    bits,
			C:       floatToFixed(c),
			D:       floatToFixed(d),
		}
	}
}

func floatToFixed(f float64) fixed.Fixed {
	return fixed.Fixed(math.Round(f * float64(int64(1)<<28)))
}

// BitallocTable holds the four Layer II bit allocation tables selected
// by sample rate and per-channel bitrate. Row [table][subband][0] is
// the number of bits used to transmit that subband's allocation code;
// entries [table][subband][1:] map a nonzero allocation code to a
// QCTable index. A row of only the sentinel {0} marks subbands at or
// beyond that table's sblimit, which carry no allocation at all.
var BitallocTable = [4][32][17]int{
	table0(), table1(), table2(), table3(),
}

func table0() [32][17]int {
	var t [32][17]int
	wide := [17]int{4, 0, 2, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	mid := [17]int{4, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 16}
	narrow := [17]int{3, 0, 1, 2, 3, 4, 5, 16}
	narrowest := [17]int{2, 0, 1, 16}
	for sb := 0; sb < 3; sb++ {
		t[sb] = wide
	}
	for sb := 3; sb < 11; sb++ {
		t[sb] = mid
	}
	for sb := 11; sb < 23; sb++ {
		t[sb] = narrow
	}
	for sb := 23; sb < 27; sb++ {
		t[sb] = narrowest
	}
	return t
}

func table1() [32][17]int {
	t := table0()
	narrowest := [17]int{2, 0, 1, 16}
	for sb := 23; sb < 30; sb++ {
		t[sb] = narrowest
	}
	return t
}

func table2() [32][17]int {
	var t [32][17]int
	a := [17]int{4, 0, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	b := [17]int{3, 0, 1, 3, 4, 5, 6, 7}
	t[0], t[1] = a, a
	for sb := 2; sb < 8; sb++ {
		t[sb] = b
	}
	return t
}

func table3() [32][17]int {
	var t [32][17]int
	a := [17]int{4, 0, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	b := [17]int{3, 0, 1, 3, 4, 5, 6, 7}
	t[0], t[1] = a, a
	for sb := 2; sb < 12; sb++ {
		t[sb] = b
	}
	return t
}

// LayerIITableSelect returns the bit allocation table index and
// sblimit (the first subband beyond which no further subbands are
// allocated) for a Layer II frame, given the per-channel bitrate and
// sample rate.
func LayerIITableSelect(bitratePerChannel, sampleRate int) (table, sblimit int) {
	switch bitratePerChannel {
	case 32000, 48000:
		if sampleRate == 32000 {
			return 3, 12
		}
		return 2, 8
	case 56000, 64000, 80000:
		return 0, 27
	default:
		if sampleRate == 48000 {
			return 0, 27
		}
		return 1, 30
	}
}

// Pretab is the Layer III preemphasis scalefactor bias applied to the
// last 22 bands of the long-block scalefactor set when the side info
// preflag bit is set.
var Pretab = [22]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 3, 3, 3, 2, 0, 0}

// ScalefacSizesMpeg1 holds, per scalefac_compress value 0..15, the bit
// widths {slen1, slen2} of the two scalefactor partitions.
var ScalefacSizesMpeg1 = [16][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3}, {3, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 1}, {2, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}, {4, 2}, {4, 3},
}

// SamplesPerGranule is the number of frequency-line samples carried
// in one Layer III granule.
const SamplesPerGranule = 576

// SfBandIndexLong gives, per sampling frequency index (0=44100,
// 1=48000, 2=32000), the cumulative frequency-line boundaries of the
// 22 long-block scalefactor bands plus a trailing 576 sentinel.
var SfBandIndexLong = [3][23]int{
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 44, 52, 62, 74, 90, 110, 134, 162, 196, 238, 288, 342, 418, 576},
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 42, 50, 60, 72, 88, 106, 128, 156, 190, 230, 276, 330, 384, 576},
	{0, 4, 8, 12, 16, 20, 24, 30, 36, 44, 54, 66, 82, 102, 126, 156, 194, 240, 296, 364, 448, 550, 576},
}

// SfBandIndexShort gives, per sampling frequency index, the
// cumulative boundaries of the 13 short-block scalefactor bands
// within one 192-line window plus a trailing sentinel.
var SfBandIndexShort = [3][14]int{
	{0, 4, 8, 12, 16, 22, 30, 40, 52, 66, 84, 106, 136, 192},
	{0, 4, 8, 12, 16, 22, 28, 38, 50, 64, 80, 100, 126, 192},
	{0, 4, 8, 12, 16, 22, 30, 42, 58, 78, 104, 138, 180, 192},
}

// NsfbTableLSF holds, per scalefac_compress range row (0..2 for a
// normal channel's three increasing compress ranges, 3..5 for the
// intensity-stereo right channel's three ranges over the halved
// compress value) and block-type partition (0=long, 1=short,
// 2=mixed), the number of scalefactor bands assigned to each of up to
// four slen groups. The bit width of each group isn't a lookup table
// at all — it's derived arithmetically from scalefac_compress itself;
// see maindata.lsfSlenAndRow.
var NsfbTableLSF = [6][3][4]int{
	{{6, 5, 5, 5}, {9, 9, 9, 9}, {6, 9, 9, 9}},
	{{6, 5, 7, 3}, {9, 9, 12, 6}, {6, 9, 12, 6}},
	{{11, 10, 0, 0}, {18, 18, 0, 0}, {15, 18, 0, 0}},
	{{7, 7, 7, 0}, {12, 12, 12, 0}, {6, 15, 12, 0}},
	{{6, 6, 6, 3}, {12, 9, 9, 6}, {6, 12, 9, 6}},
	{{8, 8, 5, 0}, {15, 12, 9, 0}, {6, 18, 9, 0}},
}

// BitsPerSlot is the number of bits in one frame-size "slot" (a byte,
// for all three layers).
const BitsPerSlot = 8

// UnexpectedEOF is returned by the internal decoders when the
// bitstream runs out mid-field. At names the field being read, so the
// public Error wrapper can report where decoding broke down.
type UnexpectedEOF struct {
	At string
}

func (e UnexpectedEOF) Error() string {
	return "madgo: unexpected EOF reading " + e.At
}
