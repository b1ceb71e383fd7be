package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/scribelabs/meetscribe/internal/audio"
	"github.com/scribelabs/meetscribe/internal/media"
	"github.com/scribelabs/meetscribe/internal/summary"
	"github.com/scribelabs/meetscribe/internal/transcribe"
	"github.com/scribelabs/meetscribe/internal/transcript"
)

// Session is one recording: two capture loops feeding a mixer, the relay to
// the transcription service, the transcript sink, the optional WAV sink, and
// the optional summary on stop. It is the only shared mutable state of a
// running capture; everything else communicates over channels.
type Session struct {
	ID   string
	Name string

	transcriptPath string
	summaryPath    string

	mic audio.Device
	spk audio.Device

	frameSamples  int
	frameDuration time.Duration

	relay      *transcribe.Relay
	sink       *transcript.Sink
	wav        *audio.WavSink
	summarySvc *summary.Service

	events EventSink
	logger *slog.Logger

	frames metric.Int64Counter

	active   atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
	err      error
}

// Active reports whether the pipeline is still meant to run.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Stop flips the active flag and cancels the pipeline context. Loops finish
// their current blocking call and wind down; pending finals are flushed
// before the transcript closes. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.active.Store(false)
		s.cancel()
	})
}

// Done is closed once the session has fully wound down, summary included.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err reports the terminal pipeline error, nil after a clean stop.
func (s *Session) Err() error {
	<-s.done
	return s.err
}

// TranscriptPath returns the transcript file location.
func (s *Session) TranscriptPath() string {
	return s.transcriptPath
}

func (s *Session) run() {
	defer close(s.done)
	defer s.active.Store(false)

	s.err = s.pipeline()

	if s.wav != nil {
		if err := s.wav.Close(); err != nil {
			s.logger.Warn("wav close failed", slogError(err))
			s.events.SessionError(fmt.Errorf("save audio: %w", err))
		}
	}
	if err := s.sink.Close(); err != nil {
		s.logger.Warn("transcript close failed", slogError(err))
	}
	if s.err != nil {
		s.logger.Error("session ended with error", slogError(s.err))
		s.events.SessionError(s.err)
	}

	s.maybeSummarize()

	s.logger.Info("session stopped", slog.Int("finals", len(s.sink.Segments())))
	s.events.SessionStopped(s.Name)
}

func (s *Session) pipeline() error {
	micCh := make(chan media.Frame, 8)
	spkCh := make(chan media.Frame, 8)
	pcm := make(chan []byte, 32)
	segments := make(chan media.Segment, 32)

	g, gctx := errgroup.WithContext(s.ctx)

	g.Go(func() error {
		defer close(micCh)
		if s.mic == nil {
			return audio.SilenceFrames(gctx, media.ChannelMicrophone, s.frameSamples, s.frameDuration, micCh)
		}
		return audio.CaptureFrames(gctx, s.mic, media.ChannelMicrophone, s.frameSamples, micCh)
	})

	g.Go(func() error {
		defer close(spkCh)
		if s.spk == nil {
			return audio.SilenceFrames(gctx, media.ChannelSpeaker, s.frameSamples, s.frameDuration, spkCh)
		}
		return audio.CaptureFrames(gctx, s.spk, media.ChannelSpeaker, s.frameSamples, spkCh)
	})

	var wavErrNotified bool
	g.Go(func() error {
		defer close(pcm)
		mixer := audio.NewMixer(micCh, spkCh)
		return mixer.Run(gctx, func(stereo []byte) error {
			if s.wav != nil {
				if err := s.wav.Write(stereo); err != nil {
					s.logger.Warn("wav write failed", slogError(err))
					if !wavErrNotified {
						wavErrNotified = true
						s.events.SessionError(fmt.Errorf("save audio: %w", err))
					}
				}
			}
			if s.frames != nil {
				s.frames.Add(gctx, 1)
			}
			select {
			case pcm <- stereo:
			case <-gctx.Done():
			}
			return nil
		})
	})

	g.Go(func() error {
		return s.relay.Run(gctx, pcm, segments)
	})

	g.Go(func() error {
		s.drainSegments(segments)
		return nil
	})

	err := g.Wait()

	if s.mic != nil {
		_ = s.mic.Close()
	}
	if s.spk != nil {
		_ = s.spk.Close()
	}
	return err
}

// drainSegments appends relay output until the channel closes, so no
// finalized segment is lost even while the rest of the pipeline is winding
// down. A failing transcript file raises one event, not one per segment.
func (s *Session) drainSegments(segments <-chan media.Segment) {
	var notified bool
	for seg := range segments {
		if err := s.sink.Append(seg); err != nil {
			s.logger.Warn("transcript write failed", slogError(err))
			if !notified {
				notified = true
				s.events.SessionError(err)
			}
		}
	}
}

// maybeSummarize runs after the pipeline is fully down. It deliberately uses
// a fresh context: the session context is already cancelled by then.
func (s *Session) maybeSummarize() {
	if s.summarySvc == nil {
		return
	}
	text := s.sink.Text()
	if strings.TrimSpace(text) == "" {
		s.logger.Info("transcript empty, skipping summary")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.summarySvc.WriteFile(ctx, text, s.summaryPath); err != nil {
		s.logger.Warn("summary failed", slogError(err))
		s.events.SessionError(fmt.Errorf("summary: %w", err))
		return
	}
	s.events.SummaryWritten(s.summaryPath)
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
