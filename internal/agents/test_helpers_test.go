package agents

import (
	"context"
	"strings"
	"sync"
)

// mockClient implements llm.Client with scripted responses for tests.
type mockClient struct {
	mu      sync.Mutex
	calls   int
	respond func(call int, prompt string) (string, error)
}

func (m *mockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.respond(call, prompt)
}

func (m *mockClient) Close() error { return nil }

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// routingClient dispatches canned responses by prompt content, emulating the
// four distinct agents behind one client.
type routingClient struct {
	mu     sync.Mutex
	counts map[string]int
	routes map[string]string // prompt marker -> response
}

func newRoutingClient(routes map[string]string) *routingClient {
	return &routingClient{
		counts: make(map[string]int),
		routes: routes,
	}
}

func (r *routingClient) Generate(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for marker, response := range r.routes {
		if strings.Contains(prompt, marker) {
			r.counts[marker]++
			return response, nil
		}
	}
	return "I have no idea what you are asking.", nil
}

func (r *routingClient) Close() error { return nil }
