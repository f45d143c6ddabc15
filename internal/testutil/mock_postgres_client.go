package testutil

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/postgres"
)

// MockPostgresClient runs transactional closures directly. The in-memory
// stores have no rollback, tests assert on the surrounding cleanup instead.
type MockPostgresClient struct{}

var _ postgres.IClient = (*MockPostgresClient)(nil)

func NewMockPostgresClient() *MockPostgresClient {
	return &MockPostgresClient{}
}

func (m *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
