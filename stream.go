package madgo

import (
	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/consts"
	"github.com/madgopher/madgo/internal/frameheader"
)

// bufferGuard is the minimum number of trailing bytes a frame header
// scan requires to be sure it isn't reading past a genuine sync word
// truncated at the end of the window.
const bufferGuard = 8

// reservoirCap is the largest main_data back-reference main_data_begin
// can express (9 bits) plus slack; the reservoir never needs to carry
// more than this many bytes between frames.
const reservoirCap = 1935

// Stream holds the caller-owned input buffer window and the state
// that carries across frame boundaries: sync lock, free-format
// bitrate discovery, frame boundaries, and the Layer III main_data
// reservoir.
type Stream struct {
	buffer  []byte
	skiplen int

	sync     bool
	freerate int

	thisFrame int // byte offset into buffer
	nextFrame int // byte offset into buffer

	mainData []byte // reservoir, <=reservoirCap bytes of carried-over main_data

	Err Error
}

// NewStream returns an uninitialized Stream.
func NewStream() *Stream {
	return &Stream{}
}

// Init resets the stream to its zero lifecycle state.
func (s *Stream) Init() {
	*s = Stream{}
}

// Finish releases no resources of its own; it exists to mirror the
// lifecycle pairing every other component exposes.
func (s *Stream) Finish() {}

// Buffer installs buf as the current input window, starting decoding
// from its first byte and clearing sync lock: the caller must search
// for a new sync word.
func (s *Stream) Buffer(buf []byte) {
	s.buffer = buf
	s.thisFrame = 0
	s.nextFrame = 0
	s.sync = false
}

// Skip requests that the next n bytes be discarded before the next
// header is located, e.g. to step past a container tag.
func (s *Stream) Skip(n int) {
	s.skiplen += n
}

// Sync scans forward from the current next_frame position for the
// 12-bit 0xFFE sync pattern (11 set bits plus the MPEG version bit),
// reporting ErrBufLen if none is found before the end of the window.
func (s *Stream) Sync() error {
	buf := s.buffer
	pos := s.nextFrame
	for ; pos+2 <= len(buf); pos++ {
		if buf[pos] == 0xff && (buf[pos+1]&0xe0) == 0xe0 {
			s.nextFrame = pos
			return nil
		}
	}
	s.nextFrame = len(buf)
	return ErrBufLen
}

// frameBytesLeft returns the number of bytes still available in the
// window starting at this_frame.
func (s *Stream) frameBytesLeft() int {
	return len(s.buffer) - s.thisFrame
}

// header locates and parses the next frame header, advancing
// this_frame/next_frame, mirroring the two-phase sync state machine
// (locked vs. unlocked) and free-bitrate discovery described for
// header parsing.
func (s *Stream) header() (frameheader.FrameHeader, error) {
	buf := s.buffer
	ptr := s.nextFrame

	if s.skiplen > 0 {
		if !s.sync {
			ptr = s.thisFrame
		}
		if len(buf)-ptr < s.skiplen {
			s.skiplen -= len(buf) - ptr
			s.nextFrame = len(buf)
			s.Err = ErrBufLen
			s.sync = false
			return 0, ErrBufLen
		}
		ptr += s.skiplen
		s.skiplen = 0
		s.sync = true
	}

sync:
	if s.sync {
		if len(buf)-ptr < bufferGuard {
			s.nextFrame = ptr
			s.Err = ErrBufLen
			s.sync = false
			return 0, ErrBufLen
		}
		if !(buf[ptr] == 0xff && (buf[ptr+1]&0xf0) == 0xf0) {
			s.thisFrame = ptr
			s.nextFrame = ptr + 1
			s.Err = ErrLostSync
			s.sync = false
			return 0, ErrLostSync
		}
	} else {
		s.nextFrame = ptr
		if err := s.Sync(); err != nil {
			if len(buf)-s.nextFrame >= bufferGuard {
				s.nextFrame = len(buf) - bufferGuard
			}
			s.Err = ErrBufLen
			return 0, ErrBufLen
		}
		ptr = s.nextFrame
	}

	s.thisFrame = ptr
	s.nextFrame = ptr + 1

	h, ok := frameheader.ParseAt(buf, ptr)
	if !ok || !h.IsValid() {
		s.sync = false
		if !h.IsValid() {
			s.Err = headerValidityError(h)
			return 0, s.Err
		}
		s.Err = ErrBufLen
		return 0, ErrBufLen
	}

	bitrate := h.Bitrate()
	if bitrate == 0 {
		if !s.sync || s.freerate == 0 {
			rate := frameheader.DiscoverFreeBitrate(buf, h, s.thisFrame)
			if rate == 0 {
				s.Err = ErrLostSync
				s.sync = false
				return 0, ErrLostSync
			}
			s.freerate = rate
		}
		bitrate = s.freerate
	}

	n := h.BytesPerFrame(bitrate)
	if n+bufferGuard > len(buf)-s.thisFrame {
		s.nextFrame = s.thisFrame
		s.Err = ErrBufLen
		s.sync = false
		return 0, ErrBufLen
	}
	s.nextFrame = s.thisFrame + n

	if !s.sync {
		if !frameheader.ConfirmNextSync(buf, h, s.thisFrame, n) {
			ptr = s.thisFrame + 1
			s.nextFrame = ptr
			goto sync
		}
		s.sync = true
	}

	return h, nil
}

// mainDataPtr resolves frame's main_data back-reference against the
// reservoir and returns a bit pointer over the assembled bytes ready
// for maindata.Read, refilling the reservoir from this frame's tail
// for the next back-reference afterward. bodyStart is the byte offset
// where this frame's main_data would begin if main_data_begin were 0
// (immediately after side info); mainDataBitlen is the summed
// part2_3_length across every granule/channel.
func (s *Stream) mainDataPtr(bodyStart, mainDataBitlen, mainDataBegin int) (bits.Ptr, error) {
	frameSpace := s.nextFrame - bodyStart
	mainDataLength := (mainDataBitlen + 7) / 8
	body := s.buffer[bodyStart:s.nextFrame]

	var assembled []byte
	var frameUsed int
	var postLen int
	var postReservoir []byte
	var rerr error

	switch {
	case mainDataBegin == 0:
		assembled = body
		frameUsed = mainDataLength
		postLen = 0
		postReservoir = nil

	case mainDataBegin > len(s.mainData):
		rerr = ErrBadDataPtr
		frameUsed = 0
		postLen = len(s.mainData)
		postReservoir = s.mainData

	default:
		start := len(s.mainData) - mainDataBegin
		tail := s.mainData[start:]
		switch {
		case mainDataLength > mainDataBegin:
			extra := mainDataLength - mainDataBegin
			if extra > frameSpace {
				rerr = ErrBadDataLen
				frameUsed = 0
				postLen = len(s.mainData)
				postReservoir = s.mainData
			} else {
				assembled = append(append([]byte{}, tail...), body[:extra]...)
				frameUsed = extra
				postReservoir = append(append([]byte{}, s.mainData...), body[:extra]...)
				postLen = len(postReservoir)
			}
		default:
			assembled = tail
			frameUsed = 0
			postLen = len(s.mainData)
			postReservoir = s.mainData
		}
	}

	frameFree := frameSpace - frameUsed
	if frameFree < 0 {
		frameFree = 0
	}

	switch {
	case frameFree >= 511:
		from := s.nextFrame - 511
		s.mainData = append([]byte{}, s.buffer[from:s.nextFrame]...)
	case mainDataLength < mainDataBegin:
		extra := mainDataBegin - mainDataLength
		if extra+frameFree > 511 {
			extra = 511 - frameFree
		}
		keepStart := postLen - extra
		if keepStart < 0 {
			keepStart = 0
		}
		kept := append([]byte{}, postReservoir[keepStart:postLen]...)
		kept = append(kept, s.buffer[s.nextFrame-frameFree:s.nextFrame]...)
		s.mainData = kept
	default:
		s.mainData = append([]byte{}, s.buffer[s.nextFrame-frameFree:s.nextFrame]...)
	}

	if len(s.mainData) > reservoirCap {
		s.mainData = s.mainData[len(s.mainData)-reservoirCap:]
	}

	if rerr != nil {
		return bits.Ptr{}, rerr
	}
	return bits.New(assembled), nil
}

func headerValidityError(h frameheader.FrameHeader) Error {
	switch {
	case h.Layer() == consts.LayerReserved:
		return ErrBadLayer
	case h.BitrateIndex() == 15:
		return ErrBadBitrate
	case int(h.SamplingFrequency()) == 3:
		return ErrBadSampleFreq
	case h.Emphasis() == 2:
		return ErrBadEmphasis
	default:
		return ErrBadLayer
	}
}
