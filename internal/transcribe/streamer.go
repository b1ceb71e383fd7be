package transcribe

import (
	"context"
	"time"
)

// Result is one transcription hypothesis delivered by the remote service.
// Partial results are revisions of in-flight speech; a final result settles
// the covered audio.
type Result struct {
	ChannelID string
	Text      string
	Partial   bool
	Start     time.Duration
	End       time.Duration
}

// StreamConfig carries the per-session parameters of a transcription
// stream. The audio format is always interleaved stereo 16-bit PCM with
// channel identification enabled.
type StreamConfig struct {
	LanguageCode   string
	SampleRate     int
	VocabularyName string // empty disables the custom vocabulary
}

// Stream is one live duplex connection to the transcription service.
// Results is closed when the remote side finishes or fails; Err reports the
// terminal failure afterwards, nil on a clean shutdown.
type Stream interface {
	Send(ctx context.Context, pcm []byte) error
	Results() <-chan Result
	Err() error
	Close() error
}

// Streamer opens transcription streams. Implementations hold no per-session
// state so one Streamer serves consecutive sessions.
type Streamer interface {
	Open(ctx context.Context, cfg StreamConfig) (Stream, error)
}
