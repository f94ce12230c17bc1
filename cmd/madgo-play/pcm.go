package main

import (
	"github.com/madgopher/madgo"
	"github.com/madgopher/madgo/internal/fixed"
)

// toInt16 rescales a Q4.28 sample (range [-8, +8)) to a signed 16-bit
// PCM sample, clamping the rare out-of-range value instead of
// wrapping.
func toInt16(x fixed.Fixed) int16 {
	v := int64(x) >> 13 // Q4.28 -> Q4.15; clamped to 16 bits below
	const max = int64(1<<15 - 1)
	const min = -int64(1 << 15)
	if v > max {
		return int16(max)
	}
	if v < min {
		return int16(min)
	}
	return int16(v)
}

// pcmBuffer accumulates interleaved little-endian 16-bit PCM bytes,
// always two channels (mono frames are duplicated to both), across
// every decoded frame: ready for a WAV encoder or an oto player.
type pcmBuffer struct {
	data []byte
}

func (b *pcmBuffer) appendPCM(pcm *madgo.PCM) {
	for i := 0; i < pcm.Length; i++ {
		left := toInt16(pcm.Samples[0][i])
		right := left
		if pcm.NChannels == 2 {
			right = toInt16(pcm.Samples[1][i])
		}
		b.data = append(b.data, byte(left), byte(left>>8), byte(right), byte(right>>8))
	}
}
