// Package tx defines the transaction boundary the pricing services depend
// on. A bulk-update run, a lock cascade or a margin-rule application writes
// a whole family of item-outlet rows; each service takes a Manager so those
// writes land atomically while the postgres TxManager stays behind the
// interface.
package tx

import (
	"context"
)

// Manager runs a function inside a single database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is
// committed. Nested calls join the caller's transaction through the context.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager for consistent multi-query reads, such as
// loading an item family together with all its outlet instances.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

