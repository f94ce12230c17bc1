// Package layer3 turns decoded Layer III main data into the subband
// sample matrix the synthesis filter consumes: requantization,
// stereo recombination, alias reduction, the hybrid IMDCT/window
// stage, overlap-add and frequency inversion.
package layer3

import (
	"math"

	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/imdct"
	"github.com/madgopher/madgo/internal/maindata"
	"github.com/madgopher/madgo/internal/sideinfo"
)

// BadStereo reports an MS-stereo region spanning a granule where the
// two channels declared incompatible block types.
type BadStereo struct{}

func (BadStereo) Error() string { return "madgo: incompatible block types under MS stereo" }

// pow43 holds v^(4/3)/4 for v in [0, 8206], the magnitude table Layer
// III requantization scales by global_gain and scalefactor. Computed
// at init time the same way a cube-root lookup is conventionally
// built: rather than hand the literal table, derive it once from its
// defining formula.
var pow43 [8207]fixed.Fixed

// rootTable holds 2^(r/4) for r in [0,3], the fractional part of the
// global_gain exponent once the integer part has been applied as a
// shift.
var rootTable [4]fixed.Fixed

func init() {
	for i := range pow43 {
		pow43[i] = toFixed(math.Pow(float64(i), 4.0/3.0) / 4)
	}
	for r := 0; r < 4; r++ {
		rootTable[r] = toFixed(math.Pow(2, float64(r)/4))
	}
}

func toFixed(v float64) fixed.Fixed {
	return fixed.Fixed(math.Round(v * float64(int64(1)<<28)))
}

// aliasC holds the 8 alias-reduction prototype coefficients; cs, ca
// are derived as 1/sqrt(1+c^2) and c*cs.
var aliasC = [8]float64{-0.6, -0.535, -0.33, -0.185, -0.080, -0.0418, -0.0142, -0.0037}

var aliasCs, aliasCa [8]fixed.Fixed

func init() {
	for i, c := range aliasC {
		cs := 1 / math.Sqrt(1+c*c)
		aliasCs[i] = toFixed(cs)
		aliasCa[i] = toFixed(c * cs)
	}
}

// isTable holds MPEG-1 intensity stereo position values 0..6:
// is_ratio[i]/(1+is_ratio[i]) where is_ratio[i] = tan(i*pi/12), the
// bounded scale the standard actually applies (the raw tangent is
// unbounded at i=6 and is never used directly). Position 7 means
// "intensity stereo not applied here". Literal Q4.28 constants, since
// i=6 would overflow Fixed if computed from the defining tan
// expression at this scale.
var isTable = [7]fixed.Fixed{
	0x00000000, 0x0361962f, 0x05db3d74, 0x08000000,
	0x0a24c28c, 0x0c9e69d1, 0x10000000,
}

// lsfIsTable holds the two LSF intensity-stereo scale tables selected
// by scalefac_compress&1: lsfIsTable[0][i] = (2^-1/4)^(i+1),
// lsfIsTable[1][i] = (2^-1/2)^(i+1). Literal Q4.28 constants.
var lsfIsTable = [2][3]fixed.Fixed{
	{0x0d744fcd, 0x0b504f33, 0x09837f05},
	{0x0b504f33, 0x08000000, 0x05a8279a},
}

var invSqrt2 = toFixed(1 / math.Sqrt2)

// granuleInput holds everything layer3.Decode needs for one granule/channel:
// the decoded Huffman lines and the side info fields that govern
// their interpretation.
type granuleInput struct {
	is          *[576]int
	scalefacL   *[22]int
	scalefacS   *[13][3]int
	globalGain  int
	scaleScale  int
	preflag     int
	blockType   int
	windowSwitch int
	mixedBlock  int
	subblockGain [3]int
}

// Decode fills sbsample with this frame's subband samples, reading
// and updating overlap in place.
func Decode(md *maindata.MainData, si sideinfo.SideInfo, h frameheader.FrameHeader,
	overlap *[2][32][18]fixed.Fixed, sbsample *[2][36][32]fixed.Fixed) error {

	nch := h.NumberOfChannels()
	granules := h.Granules()
	sfreqIdx := int(h.SamplingFrequency())

	for gr := 0; gr < granules; gr++ {
		var xr [2][576]fixed.Fixed
		for ch := 0; ch < nch; ch++ {
			g := granuleOf(md, si, gr, ch)
			requantize(&g, sfreqIdx, &xr[ch])
		}

		if nch == 2 {
			if err := processStereo(md, si, gr, h, sfreqIdx, &xr); err != nil {
				return err
			}
		}

		for ch := 0; ch < nch; ch++ {
			g := granuleOf(md, si, gr, ch)
			xrR := reorder(&xr[ch], g.blockType, g.windowSwitch, g.mixedBlock)
			aliasReduce(&xrR, g.blockType, g.windowSwitch, g.mixedBlock)
			hybrid(&xrR, g.blockType, g.windowSwitch, g.mixedBlock, &overlap[ch], sbsample, ch, gr)
		}
	}
	return nil
}

func granuleOf(md *maindata.MainData, si sideinfo.SideInfo, gr, ch int) granuleInput {
	return granuleInput{
		is:           &md.Is[gr][ch],
		scalefacL:    &md.ScalefacL[gr][ch],
		scalefacS:    &md.ScalefacS[gr][ch],
		globalGain:   si.GlobalGain[gr][ch],
		scaleScale:   si.ScalefacScale[gr][ch],
		preflag:      si.Preflag[gr][ch],
		blockType:    si.BlockType[gr][ch],
		windowSwitch: si.WinSwitchFlag[gr][ch],
		mixedBlock:   si.MixedBlockFlag[gr][ch],
		subblockGain: si.SubblockGain[gr][ch],
	}
}

func requantize(g *granuleInput, sfreqIdx int, out *[576]fixed.Fixed) {
	short := g.windowSwitch != 0 && g.blockType == 2
	mixed := short && g.mixedBlock != 0
	scaleMul := 2
	if g.scaleScale != 0 {
		scaleMul = 4
	}

	longBands := consts.SfBandIndexLong[sfreqIdx]
	shortBands := consts.SfBandIndexShort[sfreqIdx]

	line := 0
	if !short {
		for sfb := 0; sfb < 22 && line < 576; sfb++ {
			scf := g.scalefacL[sfb]
			if g.preflag != 0 && sfb < len(consts.Pretab) {
				scf += consts.Pretab[sfb]
			}
			end := 576
			if sfb+1 < len(longBands) {
				end = longBands[sfb+1]
			}
			requantizeRange(g.is, line, end, g.globalGain, scf, scaleMul, 0, out)
			line = end
		}
		return
	}

	longEnd := 0
	if mixed {
		longEnd = 36
		for sfb := 0; sfb < 8 && line < longEnd; sfb++ {
			scf := g.scalefacL[sfb]
			end := longEnd
			if sfb+1 < len(longBands) && longBands[sfb+1] < longEnd {
				end = longBands[sfb+1]
			}
			requantizeRange(g.is, line, end, g.globalGain, scf, scaleMul, 0, out)
			line = end
		}
	}
	for sfb := 0; sfb < 12 && line < 576; sfb++ {
		width := 0
		if sfb+1 < len(shortBands) {
			width = shortBands[sfb+1] - shortBands[sfb]
		}
		for w := 0; w < 3 && line < 576; w++ {
			scf := g.scalefacS[sfb][w]
			end := line + width
			if end > 576 {
				end = 576
			}
			requantizeRange(g.is, line, end, g.globalGain, scf, scaleMul, g.subblockGain[w], out)
			line = end
		}
	}
}

func requantizeRange(is *[576]int, start, end, globalGain, scf, scaleMul, subblockGain8 int, out *[576]fixed.Fixed) {
	texp := globalGain - 210 - scf*scaleMul - 8*subblockGain8
	q := texp >> 2
	r := texp - 4*q
	if r < 0 {
		r += 4
		q--
	}
	for l := start; l < end; l++ {
		v := is[l]
		neg := v < 0
		if neg {
			v = -v
		}
		if v >= len(pow43) {
			v = len(pow43) - 1
		}
		mant := int64(pow43[v])
		if q >= 0 {
			mant <<= uint(q)
		} else {
			mant >>= uint(-q)
		}
		result := fixed.Saturate(mant)
		result = fixed.Mul(result, rootTable[r])
		if neg {
			result = -result
		}
		out[l] = result
	}
}

// reorder undoes the short-block window interleave within each
// 18-line subband chunk so imdct.Short sees window-major input; long
// blocks and the long portion of mixed blocks pass through unchanged.
func reorder(xr *[576]fixed.Fixed, blockType, windowSwitch, mixedBlock int) [576]fixed.Fixed {
	var out [576]fixed.Fixed
	short := windowSwitch != 0 && blockType == 2
	if !short {
		return *xr
	}
	startSb := 0
	if mixedBlock != 0 {
		startSb = 2
		copy(out[:36], xr[:36])
	}
	for sb := startSb; sb < 32; sb++ {
		base := sb * 18
		for k := 0; k < 6; k++ {
			for w := 0; w < 3; w++ {
				out[base+w*6+k] = xr[base+k*3+w]
			}
		}
	}
	return out
}

func aliasReduce(xr *[576]fixed.Fixed, blockType, windowSwitch, mixedBlock int) {
	short := windowSwitch != 0 && blockType == 2
	if short && mixedBlock == 0 {
		return
	}
	limit := 31
	if short && mixedBlock != 0 {
		limit = 1
	}
	for sb := 0; sb < limit; sb++ {
		for i := 0; i < 8; i++ {
			ai := sb*18 + 17 - i
			bi := (sb+1)*18 + i
			a, b := xr[ai], xr[bi]
			xr[ai] = fixed.Sub(fixed.Mul(a, aliasCs[i]), fixed.Mul(b, aliasCa[i]))
			xr[bi] = fixed.Add(fixed.Mul(b, aliasCs[i]), fixed.Mul(a, aliasCa[i]))
		}
	}
}

func hybrid(xr *[576]fixed.Fixed, blockType, windowSwitch, mixedBlock int,
	overlap *[32][18]fixed.Fixed, sbsample *[2][36][32]fixed.Fixed, ch, gr int) {

	short := windowSwitch != 0 && blockType == 2
	mixed := short && mixedBlock != 0
	rowBase := gr * 18

	for sb := 0; sb < 32; sb++ {
		var in [18]fixed.Fixed
		copy(in[:], xr[sb*18:sb*18+18])

		var out [36]fixed.Fixed
		if short && (!mixed || sb >= 2) {
			out = imdct.Short(&in)
		} else {
			out = imdct.Long(&in, blockType)
		}

		for row := 0; row < 18; row++ {
			v := fixed.Add(out[row], overlap[sb][row])
			if sb%2 == 1 && row%2 == 1 {
				v = -v
			}
			sbsample[ch][rowBase+row][sb] = v
			overlap[sb][row] = out[18+row]
		}
	}
}

func processStereo(md *maindata.MainData, si sideinfo.SideInfo, gr int, h frameheader.FrameHeader, sfreqIdx int, xr *[2][576]fixed.Fixed) error {
	ms := h.UseMSStereo()
	intensity := h.UseIntensityStereo()

	if si.BlockType[gr][0] != si.BlockType[gr][1] && ms {
		return BadStereo{}
	}

	bound := 576
	if intensity {
		bound = intensityBound(xr)
		applyIntensity(md, si, gr, sfreqIdx, h, xr, bound)
	}
	if ms {
		for l := 0; l < bound; l++ {
			m, s := xr[0][l], xr[1][l]
			xr[0][l] = fixed.Mul(fixed.Add(m, s), invSqrt2)
			xr[1][l] = fixed.Mul(fixed.Sub(m, s), invSqrt2)
		}
	}
	return nil
}

// intensityBound finds the last nonzero right-channel line, scanning
// from the top of the spectrum downward; everything above it is
// intensity coded (the right channel of an intensity-coded band
// decodes to exactly zero amplitude).
func intensityBound(xr *[2][576]fixed.Fixed) int {
	for l := 575; l >= 0; l-- {
		if xr[1][l] != 0 {
			return l + 1
		}
	}
	return 0
}

// applyIntensity recombines an intensity-coded band's zeroed right
// channel from the left channel and the scalefactor the encoder
// repurposed as an is_pos index, using whichever of the two tables the
// header calls for: isTable for MPEG-1, lsfIsTable (keyed by the right
// channel's scalefac_compress parity) for LSF.
func applyIntensity(md *maindata.MainData, si sideinfo.SideInfo, gr, sfreqIdx int, h frameheader.FrameHeader, xr *[2][576]fixed.Fixed, bound int) {
	isPos := md.ScalefacL[gr][1]
	bands := consts.SfBandIndexLong[sfreqIdx]
	lsf := h.IsLSF()
	scale := lsfIsTable[si.ScalefacCompress[gr][1]&1]

	for sfb := 0; sfb < len(isPos) && sfb < 22 && sfb+1 < len(bands); sfb++ {
		pos := isPos[sfb]
		lo := bands[sfb]
		hi := bands[sfb+1]
		if lo < bound {
			lo = bound
		}
		if lo >= hi {
			continue
		}
		if lsf {
			applyIntensityLSF(xr, lo, hi, pos, scale)
			continue
		}
		if pos >= 7 {
			continue
		}
		left, right := isTable[pos], isTable[6-pos]
		for l := lo; l < hi; l++ {
			v := xr[0][l]
			xr[0][l] = fixed.Mul(v, left)
			xr[1][l] = fixed.Mul(v, right)
		}
	}
}

// applyIntensityLSF applies the LSF intensity-stereo rule to one band:
// is_pos==0 copies the left channel straight across; an odd position
// scales the left channel and mirrors its original value into the
// right; an even (nonzero) position scales the right channel and
// leaves the left one as decoded.
func applyIntensityLSF(xr *[2][576]fixed.Fixed, lo, hi, pos int, scale [3]fixed.Fixed) {
	if pos == 0 {
		for l := lo; l < hi; l++ {
			xr[1][l] = xr[0][l]
		}
		return
	}
	idx := (pos - 1) / 2
	if idx >= len(scale) {
		idx = len(scale) - 1
	}
	s := scale[idx]
	if pos&1 != 0 {
		for l := lo; l < hi; l++ {
			left := xr[0][l]
			xr[0][l] = fixed.Mul(left, s)
			xr[1][l] = left
		}
		return
	}
	for l := lo; l < hi; l++ {
		xr[1][l] = fixed.Mul(xr[0][l], s)
	}
}
