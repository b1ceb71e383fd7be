package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/scribelabs/meetscribe/internal/media"
)

// Sink is the permanent record of one session. Finalized segments are
// appended, in arrival order, to the transcript file and an in-memory log;
// partials never reach either. The file is created up front so a session
// stopped immediately still leaves a well-formed empty transcript.
type Sink struct {
	mu       sync.Mutex
	out      io.WriteCloser
	path     string
	segments []media.Segment
	failures int
	notify   func(media.Segment)
	logger   *slog.Logger

	meter     metric.Meter
	finals    metric.Int64Counter
	writeErrs metric.Int64Counter
}

// NewSink creates (or truncates) the transcript file at path. notify, when
// non-nil, is invoked for every appended final after it is recorded.
func NewSink(path string, notify func(media.Segment), logger *slog.Logger) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transcript file: %w", err)
	}
	s := newSink(file, notify, logger)
	s.path = path
	return s, nil
}

func newSink(out io.WriteCloser, notify func(media.Segment), logger *slog.Logger) *Sink {
	s := &Sink{
		out:    out,
		notify: notify,
		logger: logger.With(slog.String("component", "transcript-sink")),
		meter:  otel.Meter("github.com/scribelabs/meetscribe/transcript"),
	}
	if err := s.initMetrics(); err != nil {
		s.logger.Warn("failed to initialize metrics", slog.String("error", err.Error()))
	}
	return s
}

func (s *Sink) initMetrics() error {
	finals, err := s.meter.Int64Counter("meetscribe.transcript.finals",
		metric.WithDescription("Finalized segments appended to the transcript"))
	if err != nil {
		return err
	}
	writeErrs, err := s.meter.Int64Counter("meetscribe.transcript.write_errors",
		metric.WithDescription("Transcript file write failures"))
	if err != nil {
		return err
	}
	s.finals = finals
	s.writeErrs = writeErrs
	return nil
}

// Append records a segment. Partials are dropped. A file write failure is
// returned so the caller can surface it, but the segment stays in the
// in-memory log and later appends keep going.
func (s *Sink) Append(seg media.Segment) error {
	if seg.Partial {
		return nil
	}

	s.mu.Lock()
	s.segments = append(s.segments, seg)
	_, err := io.WriteString(s.out, seg.Line())
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if s.finals != nil {
		s.finals.Add(context.Background(), 1)
	}
	if s.notify != nil {
		s.notify(seg)
	}
	if err != nil {
		if s.writeErrs != nil {
			s.writeErrs.Add(context.Background(), 1)
		}
		return fmt.Errorf("append transcript line: %w", err)
	}
	return nil
}

// Text returns the transcript so far: the concatenation of appended final
// lines in arrival order.
func (s *Sink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, seg := range s.segments {
		b.WriteString(seg.Line())
	}
	return b.String()
}

// Segments returns a copy of the finalized segment log.
func (s *Sink) Segments() []media.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]media.Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// WriteFailures reports how many file writes failed so far.
func (s *Sink) WriteFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Path returns the transcript file location, empty for writer-backed sinks.
func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.out.Close(); err != nil {
		return fmt.Errorf("close transcript file: %w", err)
	}
	return nil
}
