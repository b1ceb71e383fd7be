package audio

import (
	"context"
	"encoding/binary"

	"github.com/scribelabs/meetscribe/internal/media"
)

// Interleave pairs one microphone frame with one speaker frame into a single
// stereo frame, microphone left, speaker right. Uneven inputs are padded
// with silence so the output stays sample aligned.
func Interleave(mic, spk []int16) []int16 {
	n := len(mic)
	if len(spk) > n {
		n = len(spk)
	}
	stereo := make([]int16, 2*n)
	for i := 0; i < n; i++ {
		if i < len(mic) {
			stereo[2*i] = mic[i]
		}
		if i < len(spk) {
			stereo[2*i+1] = spk[i]
		}
	}
	return stereo
}

// PCMBytes encodes samples as little-endian 16-bit PCM.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Mixer pairs mono frames from the two capture channels into stereo PCM.
type Mixer struct {
	mic <-chan media.Frame
	spk <-chan media.Frame
}

func NewMixer(mic, spk <-chan media.Frame) *Mixer {
	return &Mixer{mic: mic, spk: spk}
}

// Run pairs the k-th microphone frame with the k-th speaker frame and
// invokes emit once per pair, so the stereo frame count equals the
// per-channel input frame count. It returns when ctx ends, when either
// input closes, or when emit fails.
func (m *Mixer) Run(ctx context.Context, emit func(stereo []byte) error) error {
	for {
		var mic, spk media.Frame
		var ok bool

		select {
		case mic, ok = <-m.mic:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return nil
		}

		select {
		case spk, ok = <-m.spk:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return nil
		}

		if err := emit(PCMBytes(Interleave(mic.PCM, spk.PCM))); err != nil {
			return err
		}
	}
}
