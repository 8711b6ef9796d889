package provider

import (
	"context"
	"sync"
)

// Mock is a scriptable Provider for tests. Responses are consumed in
// order; the last one repeats once the script runs out.
type Mock struct {
	ProviderName string

	mu        sync.Mutex
	calls     int
	responses []MockResponse
}

type MockResponse struct {
	Text string
	Err  error
}

func NewMock(name string, responses ...MockResponse) *Mock {
	return &Mock{ProviderName: name, responses: responses}
}

func (m *Mock) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *Mock) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.responses) == 0 {
		return text, nil
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx].Text, m.responses[idx].Err
}

// Calls reports how many times Translate was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
