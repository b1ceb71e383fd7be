package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/scribelabs/meetscribe/internal/media"
)

func TestInterleave(t *testing.T) {
	stereo := Interleave([]int16{1, 2, 3}, []int16{4, 5, 6})
	want := []int16{1, 4, 2, 5, 3, 6}
	if len(stereo) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(stereo))
	}
	for i := range want {
		if stereo[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], stereo[i])
		}
	}
}

func TestInterleavePadsUnevenFrames(t *testing.T) {
	stereo := Interleave([]int16{7}, []int16{8, 9})
	want := []int16{7, 8, 0, 9}
	if len(stereo) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(stereo))
	}
	for i := range want {
		if stereo[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], stereo[i])
		}
	}
}

func TestPCMBytesLittleEndian(t *testing.T) {
	out := PCMBytes([]int16{258, -2})
	want := []byte{0x02, 0x01, 0xFE, 0xFF}
	if len(out) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x", i, want[i], out[i])
		}
	}
}

func TestMixerEmitsOnePairPerInputFrame(t *testing.T) {
	const frames = 5
	const samples = 160

	mic := make(chan media.Frame, frames)
	spk := make(chan media.Frame, frames)
	for i := 0; i < frames; i++ {
		mic <- media.Frame{Channel: media.ChannelMicrophone, Sequence: uint64(i), PCM: make([]int16, samples)}
		spk <- media.Frame{Channel: media.ChannelSpeaker, Sequence: uint64(i), PCM: make([]int16, samples)}
	}
	close(mic)
	close(spk)

	var emitted int
	err := NewMixer(mic, spk).Run(context.Background(), func(stereo []byte) error {
		if len(stereo) != 2*samples*2 {
			t.Fatalf("expected %d stereo bytes, got %d", 2*samples*2, len(stereo))
		}
		emitted++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emitted != frames {
		t.Fatalf("expected %d stereo frames, got %d", frames, emitted)
	}
}

func TestMixerInterleavesPairs(t *testing.T) {
	mic := make(chan media.Frame, 1)
	spk := make(chan media.Frame, 1)
	mic <- media.Frame{Channel: media.ChannelMicrophone, PCM: []int16{1, 2}}
	spk <- media.Frame{Channel: media.ChannelSpeaker, PCM: []int16{3, 4}}
	close(mic)
	close(spk)

	var got []byte
	if err := NewMixer(mic, spk).Run(context.Background(), func(stereo []byte) error {
		got = stereo
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := PCMBytes([]int16{1, 3, 2, 4})
	if string(got) != string(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMixerStopsOnEmitError(t *testing.T) {
	mic := make(chan media.Frame, 2)
	spk := make(chan media.Frame, 2)
	for i := 0; i < 2; i++ {
		mic <- media.Frame{PCM: []int16{0}}
		spk <- media.Frame{PCM: []int16{0}}
	}
	close(mic)
	close(spk)

	boom := errors.New("sink failed")
	err := NewMixer(mic, spk).Run(context.Background(), func([]byte) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected emit error, got %v", err)
	}
}
