package madgo

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/fixed"
	"github.com/madgopher/madgo/internal/frameheader"
	"github.com/madgopher/madgo/internal/huffman"
	"github.com/madgopher/madgo/internal/layer12"
	"github.com/madgopher/madgo/internal/layer3"
	"github.com/madgopher/madgo/internal/maindata"
	"github.com/madgopher/madgo/internal/sideinfo"
)

// translateErr maps an internal package's local error type to the
// numbered Error this package reports through, so Decoder.Run's
// recoverability check (a type assertion to Error) sees every payload
// error, not just the two (BadDataPtr/BadDataLen) that already speak
// Error natively.
func translateErr(err error) error {
	switch err.(type) {
	case layer12.BadBitAlloc:
		return ErrBadBitAlloc
	case layer12.BadScalefactor:
		return ErrBadScalefactor
	case layer12.BadCRC:
		return ErrBadCRC
	case maindata.BadBigValues:
		return ErrBadBigValues
	case huffman.BadHuffTable:
		return ErrBadHuffTable
	case huffman.BadHuffData:
		return ErrBadHuffData
	case layer3.BadStereo:
		return ErrBadStereo
	case sideinfo.BadBlockType:
		return ErrBadBlockType
	default:
		return err
	}
}

// Frame is one decoded frame header plus its subband sample matrix:
// the Layer I/II/III decoders' shared output, ready for the synthesis
// filter.
type Frame struct {
	Header   frameheader.FrameHeader
	Duration Timer
	Bitrate  int
	Private  int

	// IgnoreCRC disables the Layer I/II CRC check: frames decode
	// through a checksum mismatch instead of reporting ErrBadCRC.
	IgnoreCRC bool

	badCRC bool // true if the most recently decoded frame failed CRC

	sbsample [2][36][32]fixed.Fixed
	overlap  [2][32][18]fixed.Fixed
}

// NewFrame returns a silent Frame ready for its first header.
func NewFrame() *Frame {
	f := &Frame{}
	f.Mute()
	return f
}

// Init resets the frame to its zero lifecycle state.
func (f *Frame) Init() {
	*f = Frame{}
}

// Finish is a no-op; Go's allocator owns the overlap buffer's memory.
func (f *Frame) Finish() {}

// Mute zeroes the subband sample matrix so this frame decodes to
// silence, without disturbing the Layer III overlap-add history.
func (f *Frame) Mute() {
	for ch := range f.sbsample {
		for s := range f.sbsample[ch] {
			for sb := range f.sbsample[ch][s] {
				f.sbsample[ch][s][sb] = 0
			}
		}
	}
}

// NSBSamples returns the number of subband sample rows this frame
// carries: 12 for Layer I, 18 for LSF Layer III, 36 otherwise.
func (f *Frame) NSBSamples() int {
	switch {
	case f.Header.Layer() == consts.Layer1:
		return 12
	case f.Header.Layer() == consts.Layer3 && f.Header.IsLSF():
		return 18
	default:
		return 36
	}
}

// SBSample returns the decoded subband sample matrix the synthesis
// filter consumes.
func (f *Frame) SBSample() *[2][36][32]fixed.Fixed {
	return &f.sbsample
}

// ReadHeader locates and parses the next frame header on stream,
// computing this frame's exact duration and resolved bitrate (which
// may come from free-format discovery).
func (f *Frame) ReadHeader(s *Stream) error {
	h, err := s.header()
	if err != nil {
		return err
	}
	f.Header = h
	f.Bitrate = h.Bitrate()
	if f.Bitrate == 0 {
		f.Bitrate = s.freerate
	}
	f.Duration.Set(0, int64(32*f.NSBSamples()), int64(h.SamplingFrequencyValue()))
	return nil
}

// headerCRC seeds a Layer I/II CRC check from the 16 header bits the
// standard folds into the running register before the payload fields
// it actually protects (bitrate_index through emphasis, i.e.
// everything after the protection bit): the reference decoder treats
// the header CRC and the payload CRC as one continuous computation
// rather than two separate checks.
func (f *Frame) headerCRC(s *Stream) layer12.CRC {
	if !f.Header.HasCRC() {
		return layer12.CRC{Ignore: f.IgnoreCRC}
	}
	p := bits.NewAt(s.buffer, s.thisFrame)
	p.Skip(16) // sync(12) + ID(1) + layer(2) + protection_bit(1)
	seed := bits.CRC16(p, 16, 0xffff)
	return layer12.CRC{Enabled: true, Seed: seed, Ignore: f.IgnoreCRC}
}

// conceal applies the default error-recovery policy: a frame following
// one that failed CRC is muted outright, since the reservoir it would
// otherwise draw on is itself suspect; any other decode error instead
// leaves the subband sample matrix as the previous frame decoded it.
// Either way it records whether this frame's own failure was a CRC
// failure, for the next call. Decoder.Run does not pass a frame whose
// Decode failed to the synthesis filter; it moves on to the next
// frame, so the muted or held matrix is not played.
func (f *Frame) conceal(err error) error {
	if f.badCRC {
		f.Mute()
	}
	f.badCRC = err == ErrBadCRC
	return err
}

// Decode reads this frame's payload from stream into the subband
// sample matrix, dispatching to the Layer I/II or Layer III decoder.
// A recoverable error triggers the default concealment policy (see
// conceal); a successful decode always clears the CRC-failure flag.
func (f *Frame) Decode(s *Stream) error {
	startByte := s.thisFrame + 4
	crc := f.headerCRC(s)
	if f.Header.HasCRC() {
		crcPtr := bits.NewAt(s.buffer, startByte)
		crc.Want = uint16(crcPtr.Bits(16))
		startByte += 2
	}

	switch f.Header.Layer() {
	case consts.Layer1:
		p := bits.NewAt(s.buffer, startByte)
		if err := layer12.DecodeLayerI(&p, f.Header, &f.sbsample, crc); err != nil {
			return f.conceal(translateErr(err))
		}
		f.badCRC = false
		return nil

	case consts.Layer2:
		p := bits.NewAt(s.buffer, startByte)
		if err := layer12.DecodeLayerII(&p, f.Header, &f.sbsample, crc); err != nil {
			return f.conceal(translateErr(err))
		}
		f.badCRC = false
		return nil

	case consts.Layer3:
		sideInfoLen := f.Header.SideInfoSize()
		if s.nextFrame-startByte < sideInfoLen {
			s.mainData = s.mainData[:0]
			return f.conceal(ErrBadFrameLen)
		}

		p := bits.NewAt(s.buffer, startByte)
		si, err := sideinfo.Read(&p, f.Header)
		if err != nil {
			return f.conceal(translateErr(err))
		}

		bodyStart := startByte + sideInfoLen
		mainDataBitlen := 0
		for gr := 0; gr < f.Header.Granules(); gr++ {
			for ch := 0; ch < f.Header.NumberOfChannels(); ch++ {
				mainDataBitlen += si.Part2_3Length[gr][ch]
			}
		}

		mdPtr, err := s.mainDataPtr(bodyStart, mainDataBitlen, si.MainDataBegin)
		if err != nil {
			if err == ErrBadDataPtr {
				f.Mute()
			}
			return f.conceal(err)
		}

		md, err := maindata.Read(&mdPtr, f.Header, si)
		if err != nil {
			return f.conceal(translateErr(err))
		}
		if err := layer3.Decode(md, si, f.Header, &f.overlap, &f.sbsample); err != nil {
			return f.conceal(translateErr(err))
		}
		f.badCRC = false
		return nil

	default:
		return ErrBadLayer
	}
}
