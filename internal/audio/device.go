package audio

import (
	"errors"

	"github.com/scribelabs/meetscribe/internal/media"
)

// ErrDeviceUnavailable marks capture failures that cannot be recovered by
// retrying: missing devices, unsupported formats, a backend that refuses to
// open. Sessions treat it as fatal.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Device is a mono 16-bit capture source. Read blocks until it has filled
// buf with one frame of samples.
type Device interface {
	Read(buf []int16) error
	Close() error
}

// Host opens capture devices on the local machine. The speaker channel is
// served by a loopback (monitor) input exposing what the machine plays.
type Host interface {
	Inputs() ([]string, error)
	Open(channel media.Channel, name string) (Device, error)
	Close() error
}

// FrameSamples returns the per-channel sample count of one capture frame.
func FrameSamples(sampleRate, frameDurationMS int) int {
	return sampleRate * frameDurationMS / 1000
}
