package madgo

import "github.com/madgopher/madgo/internal/fixed"

// PCM holds the reconstructed time-domain samples produced by one
// call to Synth.Frame: up to 1152 samples per channel, with Length
// indicating how many of them are valid.
type PCM struct {
	Samples    [2][1152]fixed.Fixed
	Length     int
	NChannels  int
	SampleRate int
}
