package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scribelabs/meetscribe/internal/media"
)

func TestCaptureFramesSequencesScript(t *testing.T) {
	dev := NewMockDevice([]int16{1, 1}, []int16{2, 2})
	out := make(chan media.Frame, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- CaptureFrames(ctx, dev, media.ChannelMicrophone, 2, out) }()

	first := <-out
	second := <-out
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Sequence != 0 || second.Sequence != 1 {
		t.Fatalf("expected sequences 0,1, got %d,%d", first.Sequence, second.Sequence)
	}
	if first.Channel != media.ChannelMicrophone {
		t.Fatalf("expected microphone channel, got %s", first.Channel)
	}
	if first.PCM[0] != 1 || second.PCM[0] != 2 {
		t.Fatalf("expected scripted payloads, got %v then %v", first.PCM, second.PCM)
	}
}

func TestCaptureFramesReportsDeviceFailure(t *testing.T) {
	dev := NewMockDevice()
	_ = dev.Close()
	out := make(chan media.Frame, 1)
	err := CaptureFrames(context.Background(), dev, media.ChannelSpeaker, 2, out)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected device failure, got %v", err)
	}
}

func TestCaptureFramesStopsOnCancel(t *testing.T) {
	dev := NewMockDevice()
	out := make(chan media.Frame) // unbuffered: capture blocks on send
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- CaptureFrames(ctx, dev, media.ChannelMicrophone, 2, out) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop did not stop after cancel")
	}
}

func TestSilenceFramesAreZeroed(t *testing.T) {
	out := make(chan media.Frame, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- SilenceFrames(ctx, media.ChannelSpeaker, 4, time.Millisecond, out) }()

	first := <-out
	second := <-out
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Sequence != 0 || second.Sequence != 1 {
		t.Fatalf("expected sequences 0,1, got %d,%d", first.Sequence, second.Sequence)
	}
	for i, s := range first.PCM {
		if s != 0 {
			t.Fatalf("sample %d: expected silence, got %d", i, s)
		}
	}
	if len(first.PCM) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(first.PCM))
	}
}
