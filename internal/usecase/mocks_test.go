//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/domain/ports/adapter"
)

// memMappingRepo is a small in-memory mapping store used by unit tests.
type memMappingRepo struct {
	mu        sync.RWMutex
	store     map[string]string
	lookupErr error // used by tests to simulate store failures
}

func newMemMappingRepo() *memMappingRepo {
	return &memMappingRepo{store: make(map[string]string)}
}

func (m *memMappingRepo) Record(ctx context.Context, operationID, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[operationID] = callbackID
	return nil
}

func (m *memMappingRepo) Lookup(ctx context.Context, operationID string) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cb, ok := m.store[operationID]
	return cb, ok, nil
}

// mockGateway records every FetchStatus call and answers via hooks.
type mockGateway struct {
	mu              sync.Mutex
	fetched         []string
	CreateQRFunc    func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error)
	FetchStatusFunc func(ctx context.Context, id string) (int, error)
}

func (m *mockGateway) CreateQR(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
	if m.CreateQRFunc != nil {
		return m.CreateQRFunc(ctx, amountMinor, purpose, notificationURL)
	}
	return adapter.QROperation{OperationID: "op-1", QRImage: "https://qr.example/img.png"}, nil
}

func (m *mockGateway) FetchStatus(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, id)
	m.mu.Unlock()
	if m.FetchStatusFunc != nil {
		return m.FetchStatusFunc(ctx, id)
	}
	return 0, nil
}

func (m *mockGateway) fetchedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// mockRenderer returns a fixed page so tests don't depend on markup.
type mockRenderer struct {
	last model.PaymentPage
}

func (m *mockRenderer) Render(p model.PaymentPage) (string, error) {
	m.last = p
	return "<html>payment page</html>", nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
