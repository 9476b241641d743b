package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. Set Content for a structured reply,
// Text for a plain one, or Err to fail the call.
type MockResponse struct {
	Content json.RawMessage
	Text    string
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every request
// with the purpose it was sent for. It backs the "mock" provider setting
// and the generator, diagnosis and tutor tests.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	Calls    []Request
	Purposes []Purpose
}

// NewMockProvider creates a MockProvider with the given scripted replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{script: replies}
}

// Generate returns the next scripted reply. An empty script fails with
// ErrProviderUnavailable, the same as a provider that cannot be reached.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, PurposeFrom(ctx))

	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	content := next.Content
	if next.Text != "" {
		content = textContent(next.Text)
	}
	return &Response{
		Content:    content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
