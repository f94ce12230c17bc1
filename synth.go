package madgo

import (
	"github.com/madgopher/madgo/internal/synth"
)

// Synth is the polyphase synthesis filter stage: per-channel
// filterbank history plus the PCM output of the most recent Frame
// call.
type Synth struct {
	filter *synth.Synth
	PCM    PCM
}

// NewSynth returns a Synth with silenced filter history.
func NewSynth() *Synth {
	return &Synth{filter: synth.New()}
}

// Init resets the synthesis state, clearing filter history and PCM
// output.
func (s *Synth) Init() {
	s.filter = synth.New()
	s.PCM = PCM{}
}

// Finish is a no-op; Go's allocator owns the filter history.
func (s *Synth) Finish() {}

// Mute clears the polyphase filter history, as required after a sync
// loss before resuming on a cold stream.
func (s *Synth) Mute() {
	s.filter.Mute()
}

// Frame runs the synthesis filter over f's subband sample matrix,
// filling s.PCM with the reconstructed samples for every channel the
// frame carries.
func (s *Synth) Frame(f *Frame) {
	nch := f.Header.NumberOfChannels()
	nrows := f.NSBSamples()
	sb := f.SBSample()

	s.PCM.NChannels = nch
	s.PCM.SampleRate = f.Header.SamplingFrequencyValue()
	s.PCM.Length = nrows * 32

	for ch := 0; ch < nch; ch++ {
		out := s.PCM.Samples[ch][:nrows*32]
		s.filter.Frame(ch, &sb[ch], nrows, out)
	}
}
