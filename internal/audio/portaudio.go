package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/scribelabs/meetscribe/internal/media"
)

// Substrings that identify a loopback capture device across the common
// desktop audio stacks (PulseAudio/PipeWire monitors, WASAPI loopback,
// older Windows "Stereo Mix" inputs).
var loopbackHints = []string{"monitor", "loopback", "stereo mix", "what u hear"}

type portaudioHost struct {
	sampleRate   int
	frameSamples int
}

// NewHost initializes the PortAudio backend. Close must be called to release
// it.
func NewHost(sampleRate, frameSamples int) (Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize portaudio: %v", ErrDeviceUnavailable, err)
	}
	return &portaudioHost{sampleRate: sampleRate, frameSamples: frameSamples}, nil
}

func (h *portaudioHost) Close() error {
	return portaudio.Terminate()
}

func (h *portaudioHost) Inputs() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	var names []string
	for _, dev := range devices {
		if dev.MaxInputChannels > 0 {
			names = append(names, dev.Name)
		}
	}
	return names, nil
}

func (h *portaudioHost) Open(channel media.Channel, name string) (Device, error) {
	info, err := h.lookup(channel, name)
	if err != nil {
		return nil, err
	}

	buf := make([]int16, h.frameSamples)
	var stream *portaudio.Stream
	if info == nil {
		stream, err = portaudio.OpenDefaultStream(1, 0, float64(h.sampleRate), len(buf), buf)
	} else {
		params := portaudio.HighLatencyParameters(info, nil)
		params.Input.Channels = 1
		params.SampleRate = float64(h.sampleRate)
		params.FramesPerBuffer = len(buf)
		stream, err = portaudio.OpenStream(params, buf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s stream: %v", ErrDeviceUnavailable, channel, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: start %s stream: %v", ErrDeviceUnavailable, channel, err)
	}
	return &portaudioDevice{stream: stream, buf: buf}, nil
}

// lookup resolves the capture device for a channel. A nil result means the
// system default input.
func (h *portaudioHost) lookup(channel media.Channel, name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: list audio devices: %v", ErrDeviceUnavailable, err)
	}

	if name != "" {
		needle := strings.ToLower(name)
		for _, dev := range devices {
			if dev.MaxInputChannels > 0 && strings.Contains(strings.ToLower(dev.Name), needle) {
				return dev, nil
			}
		}
		return nil, fmt.Errorf("%w: no input device matching %q", ErrDeviceUnavailable, name)
	}

	if channel == media.ChannelSpeaker {
		for _, dev := range devices {
			if dev.MaxInputChannels == 0 {
				continue
			}
			lower := strings.ToLower(dev.Name)
			for _, hint := range loopbackHints {
				if strings.Contains(lower, hint) {
					return dev, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: no loopback capture device found; set audio.speaker_device", ErrDeviceUnavailable)
	}

	return nil, nil
}

type portaudioDevice struct {
	stream *portaudio.Stream
	buf    []int16
}

func (d *portaudioDevice) Read(buf []int16) error {
	if err := d.stream.Read(); err != nil {
		return fmt.Errorf("%w: read frame: %v", ErrDeviceUnavailable, err)
	}
	copy(buf, d.buf)
	return nil
}

func (d *portaudioDevice) Close() error {
	_ = d.stream.Stop()
	return d.stream.Close()
}
