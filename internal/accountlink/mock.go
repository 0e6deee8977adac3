package accountlink

import (
	"context"
	"sync"
)

// MockOpener records Open calls and lets tests control the outcome.
type MockOpener struct {
	OpenFn func(ctx context.Context, request OpenRequest) (*Launch, error)

	mu        sync.Mutex
	OpenCalls []OpenRequest
}

func NewMockOpener() *MockOpener {
	return &MockOpener{OpenCalls: []OpenRequest{}}
}

func (m *MockOpener) Open(ctx context.Context, request OpenRequest) (*Launch, error) {
	m.mu.Lock()
	m.OpenCalls = append(m.OpenCalls, request)
	m.mu.Unlock()

	if m.OpenFn != nil {
		return m.OpenFn(ctx, request)
	}
	return &Launch{
		Options: OpenOptions{
			SessionID:   request.Session.SessionID,
			ClientID:    request.ClientID,
			Environment: request.Environment,
			Product:     request.Product,
			MerchantIDs: request.MerchantIDs,
			EntryPoint:  request.EntryPoint,
		},
	}, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockOpener) Calls() []OpenRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OpenRequest(nil), m.OpenCalls...)
}

var _ Opener = (*MockOpener)(nil)
var _ Opener = (*ScriptOpener)(nil)
