package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// Snapshotter is a store whose contents can be restored when a transaction fails.
type Snapshotter interface {
	Snapshot() func()
}

// MockPostgresClient is a mock implementation of postgres client for testing
type MockPostgresClient struct {
	logger *logger.Logger

	mu      sync.Mutex
	stores  []Snapshotter
	depth   int
	commits atomic.Int64
	pingErr error
}

// NewMockPostgresClient creates a new mock postgres client. A failed outermost WithTx
// restores every store in stores to its state before the transaction began.
func NewMockPostgresClient(logger *logger.Logger, stores ...Snapshotter) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
		stores: stores,
	}
}

// WithTx runs fn and rolls the tracked stores back when it fails. Nested calls join the
// outer transaction. Commits counts outermost transactions that succeeded.
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.mu.Lock()
	outer := c.depth == 0
	c.depth++
	var restores []func()
	if outer {
		for _, st := range c.stores {
			restores = append(restores, st.Snapshot())
		}
	}
	c.mu.Unlock()

	err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth--
	if !outer {
		return err
	}
	if err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	c.commits.Add(1)
	return nil
}

func (c *MockPostgresClient) Commits() int {
	return int(c.commits.Load())
}

func (c *MockPostgresClient) Ping(ctx context.Context) error {
	return c.pingErr
}

// FailPing makes Ping return err.
func (c *MockPostgresClient) FailPing(err error) {
	c.pingErr = err
}
