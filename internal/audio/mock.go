package audio

import (
	"sync"
	"time"

	"github.com/scribelabs/meetscribe/internal/media"
)

type mockDevice struct {
	mu     sync.Mutex
	script [][]int16
	idx    int
	closed bool
}

// NewMockDevice returns a Device that plays the script frames in order and
// then produces silence at a throttled pace. Read fails once the device is
// closed.
func NewMockDevice(script ...[]int16) Device {
	return &mockDevice{script: script}
}

func (d *mockDevice) Read(buf []int16) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDeviceUnavailable
	}
	var frame []int16
	if d.idx < len(d.script) {
		frame = d.script[d.idx]
		d.idx++
	}
	d.mu.Unlock()

	for i := range buf {
		buf[i] = 0
	}
	if frame == nil {
		time.Sleep(time.Millisecond)
		return nil
	}
	copy(buf, frame)
	return nil
}

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// MockHost hands out pre-built devices, one per Open call per channel, in
// order. A nil slot or an open past the end of the queue fails as an
// unavailable device.
type MockHost struct {
	mu      sync.Mutex
	devices map[media.Channel][]Device
}

func NewMockHost(mic, spk Device) *MockHost {
	h := &MockHost{devices: map[media.Channel][]Device{}}
	h.Add(mic, spk)
	return h
}

// Add queues another mic and speaker pair for sessions that reopen devices.
func (h *MockHost) Add(mic, spk Device) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.devices[media.ChannelMicrophone] = append(h.devices[media.ChannelMicrophone], mic)
	h.devices[media.ChannelSpeaker] = append(h.devices[media.ChannelSpeaker], spk)
}

func (h *MockHost) Inputs() ([]string, error) {
	return []string{"mock microphone", "mock monitor"}, nil
}

func (h *MockHost) Open(channel media.Channel, _ string) (Device, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	queue := h.devices[channel]
	if len(queue) == 0 {
		return nil, ErrDeviceUnavailable
	}
	dev := queue[0]
	h.devices[channel] = queue[1:]
	if dev == nil {
		return nil, ErrDeviceUnavailable
	}
	return dev, nil
}

func (h *MockHost) Close() error {
	return nil
}
