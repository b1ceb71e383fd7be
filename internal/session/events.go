package session

import "github.com/scribelabs/meetscribe/internal/media"

// EventSink receives user-visible session events. Calls happen on pipeline
// goroutines, so implementations must not block for long.
type EventSink interface {
	SessionStarted(name, transcriptPath string)
	SegmentFinal(seg media.Segment)
	SessionError(err error)
	SummaryWritten(path string)
	SessionStopped(name string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) SessionStarted(string, string) {}
func (NopSink) SegmentFinal(media.Segment)    {}
func (NopSink) SessionError(error)            {}
func (NopSink) SummaryWritten(string)         {}
func (NopSink) SessionStopped(string)         {}
