package media

import "time"

// Channel identifies which capture path audio or text came from.
type Channel string

const (
	ChannelMicrophone Channel = "microphone"
	ChannelSpeaker    Channel = "speaker"
)

// Wire identifiers assigned by the transcription service when channel
// identification is enabled. The microphone is always streamed as the first
// (left) channel and the speaker loopback as the second (right).
const (
	WireChannelMicrophone = "ch_0"
	WireChannelSpeaker    = "ch_1"
)

// ChannelFromWire maps a remote channel id back to the capture channel.
func ChannelFromWire(id string) (Channel, bool) {
	switch id {
	case WireChannelMicrophone:
		return ChannelMicrophone, true
	case WireChannelSpeaker:
		return ChannelSpeaker, true
	default:
		return "", false
	}
}

// Frame carries one fixed-duration block of mono PCM from a capture device.
// Frames are immutable once captured; Sequence is monotonic per channel.
type Frame struct {
	Channel  Channel
	Sequence uint64
	PCM      []int16
}

// Segment is one recognized utterance fragment. Partial segments are
// provisional and are superseded by the final segment covering the same
// audio; only finals reach the transcript file.
type Segment struct {
	Channel    Channel
	Text       string
	Partial    bool
	Start      time.Duration
	End        time.Duration
	ReceivedAt time.Time
}

// Line renders the transcript file form of a final segment.
func (s Segment) Line() string {
	return string(s.Channel) + ": " + s.Text + "\n"
}
