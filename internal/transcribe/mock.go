package transcribe

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockStreamer hands out pre-built streams, one per Open call, in order.
// Opening past the end fails, which doubles as a reconnect-failure script.
type MockStreamer struct {
	mu      sync.Mutex
	streams []*MockStream
	opens   int
}

func NewMockStreamer(streams ...*MockStream) *MockStreamer {
	return &MockStreamer{streams: streams}
}

func (m *MockStreamer) Open(_ context.Context, _ StreamConfig) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opens >= len(m.streams) {
		return nil, errors.New("no streams scripted")
	}
	st := m.streams[m.opens]
	m.opens++
	return st, nil
}

// Opens reports how many streams were handed out.
func (m *MockStreamer) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// MockStream releases one scripted result per Send call. A positive
// failOnSend makes that Send call (1-based) fail as a broken connection,
// dropping the unreleased remainder of the script. A normal Close flushes
// the remainder, the way the real service flushes finals.
type MockStream struct {
	mu         sync.Mutex
	script     []Result
	failOnSend int
	sends      int
	results    chan Result
	closed     bool
	err        error
}

func NewMockStream(script []Result, failOnSend int) *MockStream {
	return &MockStream{
		script:     script,
		failOnSend: failOnSend,
		results:    make(chan Result, 64),
	}
}

func (s *MockStream) Send(_ context.Context, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("stream closed")
	}
	s.sends++
	if s.failOnSend > 0 && s.sends >= s.failOnSend {
		s.err = fmt.Errorf("connection reset by peer")
		s.script = nil
		s.closeLocked()
		return s.err
	}
	if len(s.script) > 0 {
		s.results <- s.script[0]
		s.script = s.script[1:]
	}
	return nil
}

func (s *MockStream) Results() <-chan Result {
	return s.results
}

func (s *MockStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *MockStream) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	for _, r := range s.script {
		s.results <- r
	}
	s.script = nil
	close(s.results)
}
