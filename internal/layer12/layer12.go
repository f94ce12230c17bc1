// Package layer12 decodes MPEG Layer I and Layer II payloads: bit
// allocations, scalefactors and sample requantization into the
// subband sample matrix shared with the synthesis filter.
//
// Both layers share the same requantization shape, s'' = C*(s'''+D),
// a linear rescaling from an unsigned nb-bit code to a signed,
// unit-scaled fixed-point sample; Layer I always reads one sample per
// allocation while Layer II may pack three samples into one codeword
// ("grouping") for the smaller quantization classes.
package layer12

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/frameheader"
)

// BadBitAlloc, BadScalefactor and BadCRC mirror the stream-level error
// taxonomy so callers can translate them without layer12 importing
// the root package.
type BadBitAlloc struct{}
type BadScalefactor struct{}
type BadCRC struct{}

func (BadBitAlloc) Error() string    { return "madgo: reserved bit allocation code" }
func (BadScalefactor) Error() string { return "madgo: reserved scalefactor code" }
func (BadCRC) Error() string         { return "madgo: CRC check failed" }

// CRC describes the header-seeded incremental CRC check covering the
// bit allocations (Layer I) or bit allocations plus scfsi (Layer II).
// Enabled is false for unprotected frames, in which case no check is
// performed regardless of Want.
type CRC struct {
	Enabled bool
	Seed    uint16
	Want    uint16
	Ignore  bool
}

func (c CRC) check(begin bits.Ptr, n int) error {
	if !c.Enabled || c.Ignore {
		return nil
	}
	if bits.CRC16(begin, n, c.Seed) != c.Want {
		return BadCRC{}
	}
	return nil
}

func bound(h frameheader.FrameHeader) int {
	if h.Mode() == consts.ModeJointStereo {
		return 4 * (h.ModeExtension() + 1)
	}
	return 32
}

// sample decodes one nb-bit linearly quantized Layer I/II sample:
// invert the MSB to recenter the unsigned code, scale to Q4.28, then
// apply the (2^nb/(2^nb-1))*(s+2^(1-nb)) correction that makes the
// quantizer's range exactly [-1, 1).
func sample(p *bits.Ptr, nb int) fixed.Fixed {
	code := p.Bits(nb)
	inverted := code ^ (1 << uint(nb-1))
	shifted := int32(inverted) << uint(32-nb)
	requantized := fixed.Fixed(shifted) >> 3
	requantized += fixed.Fixed(0x10000000 >> uint(nb-1))
	return fixed.Mul(requantized, consts.LinearTable[nb-2])
}

// DecodeLayerI fills sbsample[ch][0:12][0:32] from the Layer I
// payload at p. The CRC, when enabled, covers exactly the upcoming bit
// allocation fields and is checked before any of them are read, the
// same order the reference decoder uses.
func DecodeLayerI(p *bits.Ptr, h frameheader.FrameHeader, sbsample *[2][36][32]fixed.Fixed, crc CRC) error {
	nch := h.NumberOfChannels()
	bnd := bound(h)

	if err := crc.check(*p, 4*(bnd*nch+(32-bnd))); err != nil {
		return err
	}

	var allocation [2][32]int
	var scalefactor [2][32]int

	for sb := 0; sb < bnd; sb++ {
		for ch := 0; ch < nch; ch++ {
			nb := int(p.Bits(4))
			if nb == 15 {
				return BadBitAlloc{}
			}
			if nb != 0 {
				nb++
			}
			allocation[ch][sb] = nb
		}
	}
	for sb := bnd; sb < 32; sb++ {
		nb := int(p.Bits(4))
		if nb == 15 {
			return BadBitAlloc{}
		}
		if nb != 0 {
			nb++
		}
		allocation[0][sb] = nb
		allocation[1][sb] = nb
	}

	for sb := 0; sb < 32; sb++ {
		for ch := 0; ch < nch; ch++ {
			if allocation[ch][sb] != 0 {
				sf := int(p.Bits(6))
				if sf == 63 {
					return BadScalefactor{}
				}
				scalefactor[ch][sb] = sf
			}
		}
	}

	for s := 0; s < 12; s++ {
		for sb := 0; sb < bnd; sb++ {
			for ch := 0; ch < nch; ch++ {
				if nb := allocation[ch][sb]; nb != 0 {
					sbsample[ch][s][sb] = fixed.Mul(consts.SfTable[scalefactor[ch][sb]], sample(p, nb))
				} else {
					sbsample[ch][s][sb] = 0
				}
			}
		}
		for sb := bnd; sb < 32; sb++ {
			if nb := allocation[0][sb]; nb != 0 {
				v := sample(p, nb)
				for ch := 0; ch < nch; ch++ {
					sbsample[ch][s][sb] = fixed.Mul(v, consts.SfTable[scalefactor[ch][sb]])
				}
			} else {
				for ch := 0; ch < nch; ch++ {
					sbsample[ch][s][sb] = 0
				}
			}
		}
	}
	return nil
}

// degroup unpacks up to three samples from one grouped codeword and
// requantizes each, matching the quantization class's C, D constants.
func degroup(p *bits.Ptr, qc consts.QuantClass, out *[3]fixed.Fixed) {
	var raw [3]uint32
	nb := qc.Bits
	if qc.Grouped {
		code := p.Bits(qc.Bits)
		nlevels := uint32(qc.Nlevels)
		for s := 0; s < 3; s++ {
			raw[s] = code % nlevels
			code /= nlevels
		}
		nb = 0
		for (uint32(1) << uint(nb)) <= uint32(qc.Nlevels) {
			nb++
		}
	} else {
		for s := 0; s < 3; s++ {
			raw[s] = p.Bits(nb)
		}
	}
	for s := 0; s < 3; s++ {
		inverted := raw[s] ^ (1 << uint(nb-1))
		shifted := int32(inverted) << uint(32-nb)
		requantized := fixed.Fixed(shifted) >> 3
		out[s] = fixed.Mul(qc.C, requantized+qc.D)
	}
}

// DecodeLayerII fills sbsample[ch][0:36][0:32] from the Layer II
// payload at p. The CRC, when enabled, covers the bit allocations plus
// the scfsi fields and is checked immediately after they are read, the
// same order the reference decoder uses, before any scalefactor is
// consumed.
func DecodeLayerII(p *bits.Ptr, h frameheader.FrameHeader, sbsample *[2][36][32]fixed.Fixed, crc CRC) error {
	nch := h.NumberOfChannels()
	bitratePerChannel := h.Bitrate()
	if nch == 2 {
		bitratePerChannel /= 2
	}
	table, sblimit := consts.LayerIITableSelect(bitratePerChannel, h.SamplingFrequencyValue())

	bnd := bound(h)
	if bnd > sblimit {
		bnd = sblimit
	}

	var allocation [2][32]int
	var scfsi [2][32]int
	var scalefactor [2][32][3]int

	start := *p

	for sb := 0; sb < bnd; sb++ {
		nbal := consts.BitallocTable[table][sb][0]
		for ch := 0; ch < nch; ch++ {
			allocation[ch][sb] = int(p.Bits(nbal))
		}
	}
	for sb := bnd; sb < sblimit; sb++ {
		nbal := consts.BitallocTable[table][sb][0]
		v := int(p.Bits(nbal))
		allocation[0][sb] = v
		allocation[1][sb] = v
	}

	for sb := 0; sb < sblimit; sb++ {
		for ch := 0; ch < nch; ch++ {
			if allocation[ch][sb] != 0 {
				scfsi[ch][sb] = int(p.Bits(2))
			}
		}
	}

	if err := crc.check(start, bits.Length(start, *p)); err != nil {
		return err
	}

	for sb := 0; sb < sblimit; sb++ {
		for ch := 0; ch < nch; ch++ {
			if allocation[ch][sb] == 0 {
				continue
			}
			var sf [3]int
			sf[0] = int(p.Bits(6))
			switch scfsi[ch][sb] {
			case 2:
				sf[2], sf[1] = sf[0], sf[0]
			case 0:
				sf[1] = int(p.Bits(6))
				sf[2] = int(p.Bits(6))
			case 1, 3:
				sf[2] = int(p.Bits(6))
			}
			if scfsi[ch][sb]&1 != 0 {
				sf[1] = sf[scfsi[ch][sb]-1]
			}
			if sf[0] == 63 || sf[1] == 63 || sf[2] == 63 {
				return BadScalefactor{}
			}
			scalefactor[ch][sb] = sf
		}
	}

	for gr := 0; gr < 12; gr++ {
		sfIdx := gr / 4
		for sb := 0; sb < bnd; sb++ {
			for ch := 0; ch < nch; ch++ {
				if idx := allocation[ch][sb]; idx != 0 {
					qcIdx := consts.BitallocTable[table][sb][idx]
					var samples [3]fixed.Fixed
					degroup(p, consts.QCTable[qcIdx], &samples)
					for s := 0; s < 3; s++ {
						sbsample[ch][3*gr+s][sb] = fixed.Mul(samples[s], consts.SfTable[scalefactor[ch][sb][sfIdx]])
					}
				} else {
					for s := 0; s < 3; s++ {
						sbsample[ch][3*gr+s][sb] = 0
					}
				}
			}
		}
		for sb := bnd; sb < sblimit; sb++ {
			if idx := allocation[0][sb]; idx != 0 {
				qcIdx := consts.BitallocTable[table][sb][idx]
				var samples [3]fixed.Fixed
				degroup(p, consts.QCTable[qcIdx], &samples)
				for s := 0; s < 3; s++ {
					for ch := 0; ch < nch; ch++ {
						sbsample[ch][3*gr+s][sb] = fixed.Mul(samples[s], consts.SfTable[scalefactor[ch][sb][sfIdx]])
					}
				}
			} else {
				for s := 0; s < 3; s++ {
					for ch := 0; ch < nch; ch++ {
						sbsample[ch][3*gr+s][sb] = 0
					}
				}
			}
		}
		for sb := sblimit; sb < 32; sb++ {
			for s := 0; s < 3; s++ {
				for ch := 0; ch < nch; ch++ {
					sbsample[ch][3*gr+s][sb] = 0
				}
			}
		}
	}
	return nil
}
