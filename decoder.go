package madgo

// InputFunc supplies more data to decode. It receives the stream so it
// can call Stream.Buffer (and Stream.Skip, for container framing) and
// returns a Flow code: FlowContinue to proceed, FlowStop/FlowBreak to
// end the run, or FlowIgnore to be called again immediately.
type InputFunc func(userData interface{}, s *Stream) Flow

// HeaderFunc previews a frame's header before its payload is decoded.
// Returning FlowIgnore skips decoding this frame's payload entirely.
type HeaderFunc func(userData interface{}, h *Frame) Flow

// FilterFunc runs after a frame's payload is decoded but before
// synthesis, with the opportunity to modify its subband samples in
// place.
type FilterFunc func(userData interface{}, f *Frame) Flow

// OutputFunc delivers one frame's synthesized PCM.
type OutputFunc func(userData interface{}, header *Frame, pcm *PCM) Flow

// ErrorFunc is notified of a decoding error after Frame.Decode has
// already applied its default concealment (see Frame.conceal).
// Returning FlowStop or FlowBreak ends the run; FlowContinue and
// FlowIgnore behave alike, moving on to the next frame when the error
// is recoverable and back to the input callback otherwise.
type ErrorFunc func(userData interface{}, stream *Stream, frame *Frame, err error) Flow

// Options bundles the callbacks and option flags a Decoder runs with.
// Any nil callback is treated as one that always returns FlowContinue
// (except Input, which is required).
type Options struct {
	Input  InputFunc
	Header HeaderFunc
	Filter FilterFunc
	Output OutputFunc
	Error  ErrorFunc

	UserData interface{}

	// IgnoreCRC disables the Layer I/II CRC check entirely, decoding
	// through checksum failures instead of reporting ErrBadCRC.
	IgnoreCRC bool
}

// Decoder drives the Stream/Frame/Synth triple through the
// input → header → filter → synth → output control flow described for
// a single decoding run.
type Decoder struct {
	opts Options

	stream *Stream
	frame  *Frame
	synth  *Synth
}

// NewDecoder constructs a Decoder with its own stream, frame and synth
// state, ready for Run.
func NewDecoder(opts Options) *Decoder {
	frame := NewFrame()
	frame.IgnoreCRC = opts.IgnoreCRC
	return &Decoder{
		opts:   opts,
		stream: NewStream(),
		frame:  frame,
		synth:  NewSynth(),
	}
}

func (d *Decoder) callError(err error) Flow {
	if d.opts.Error == nil {
		return FlowContinue
	}
	return d.opts.Error(d.opts.UserData, d.stream, d.frame, err)
}

// Run executes the full decode loop until the input callback signals
// FlowStop (normal exit) or FlowBreak (abnormal exit), a callback
// returns FlowStop or FlowBreak, or an unrecoverable error other than
// ErrBufLen is hit (ErrBufLen hands control back to the input
// callback). It returns nil on FlowStop, and an error otherwise.
func (d *Decoder) Run() error {
	defer func() {
		d.synth.Finish()
		d.frame.Finish()
		d.stream.Finish()
	}()

loop:
	for {
		switch d.opts.Input(d.opts.UserData, d.stream) {
		case FlowStop:
			return nil
		case FlowBreak:
			return d.stream.Err
		case FlowIgnore:
			continue loop
		}

		for {
			err := d.decodeOneFrame()
			if err != nil {
				merr, recoverable := err.(Error)
				flow := d.callError(err)
				if flow == FlowIgnore {
					if recoverable && merr.Recoverable() {
						continue
					}
					break
				}
				if flow == FlowBreak {
					return err
				}
				if flow == FlowStop {
					return nil
				}
				if !recoverable || !merr.Recoverable() {
					break
				}
				continue
			}

			if d.opts.Filter != nil {
				switch d.opts.Filter(d.opts.UserData, d.frame) {
				case FlowStop:
					return nil
				case FlowBreak:
					return d.stream.Err
				case FlowIgnore:
					continue
				}
			}

			d.synth.Frame(d.frame)

			if d.opts.Output != nil {
				switch d.opts.Output(d.opts.UserData, d.frame, &d.synth.PCM) {
				case FlowStop:
					return nil
				case FlowBreak:
					return d.stream.Err
				}
			}
		}

		if d.stream.Err == ErrBufLen {
			continue loop
		}
		return d.stream.Err
	}
}

// decodeOneFrame reads the next header and, unless the header callback
// requested it be skipped, decodes its payload.
func (d *Decoder) decodeOneFrame() error {
	if err := d.frame.ReadHeader(d.stream); err != nil {
		return err
	}

	if d.opts.Header != nil {
		if d.opts.Header(d.opts.UserData, d.frame) == FlowIgnore {
			return nil
		}
	}

	return d.frame.Decode(d.stream)
}
