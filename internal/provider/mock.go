package provider

import (
	"context"
	"sync"
)

// MockProvider is a Provider backed by fixed data, for tests and handlers
// that need a provider without the remote API.
type MockProvider struct {
	ServiceList    []ServiceRecord
	TechnicianList []Technician
	FetchErr       error
	Loading        bool

	mu         sync.Mutex
	fetchCalls int
}

// Services returns the fixed service list
func (m *MockProvider) Services() []ServiceRecord {
	return m.ServiceList
}

// Technicians returns the fixed technician roster
func (m *MockProvider) Technicians() []Technician {
	return m.TechnicianList
}

// FetchServices counts the call and returns the configured error
func (m *MockProvider) FetchServices(ctx context.Context) error {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	return m.FetchErr
}

// FetchCount reports how many times FetchServices has been called
func (m *MockProvider) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// IsLoading returns the configured loading flag
func (m *MockProvider) IsLoading() bool {
	return m.Loading
}
