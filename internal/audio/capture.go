package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/scribelabs/meetscribe/internal/media"
)

// CaptureFrames reads fixed-size frames from dev and delivers them on out
// until ctx is done. Each frame carries a monotonic sequence number. A read
// failure is returned as-is; cancellation is not an error.
func CaptureFrames(ctx context.Context, dev Device, channel media.Channel, frameSamples int, out chan<- media.Frame) error {
	buf := make([]int16, frameSamples)
	var seq uint64
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := dev.Read(buf); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("capture %s: %w", channel, err)
		}
		pcm := make([]int16, len(buf))
		copy(pcm, buf)
		select {
		case out <- media.Frame{Channel: channel, Sequence: seq, PCM: pcm}:
			seq++
		case <-ctx.Done():
			return nil
		}
	}
}

// SilenceFrames produces zero-valued frames at the capture cadence. It
// stands in for a disabled channel so the stereo stream stays sample
// aligned.
func SilenceFrames(ctx context.Context, channel media.Channel, frameSamples int, frameDuration time.Duration, out chan<- media.Frame) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		select {
		case out <- media.Frame{Channel: channel, Sequence: seq, PCM: make([]int16, frameSamples)}:
			seq++
		case <-ctx.Done():
			return nil
		}
	}
}
