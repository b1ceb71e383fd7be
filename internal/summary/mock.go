package summary

import (
	"context"
	"sync"
)

// MockSummarizer returns a canned reply and records what it was asked to
// summarize.
type MockSummarizer struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	prompts []string
	inputs  []string
}

func NewMockSummarizer(reply string) *MockSummarizer {
	return &MockSummarizer{Reply: reply}
}

func (m *MockSummarizer) Summarize(_ context.Context, systemPrompt, transcript string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.prompts = append(m.prompts, systemPrompt)
	m.inputs = append(m.inputs, transcript)
	return m.Reply, nil
}

// Inputs returns the transcripts passed to Summarize, in call order.
func (m *MockSummarizer) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// Prompts returns the system prompts passed to Summarize, in call order.
func (m *MockSummarizer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
