// Package tx is the transaction boundary domain services depend on. The
// PostgreSQL implementation lives in infrastructure/storage/postgres.
package tx

import "context"

// Manager runs fn in a transaction carried by ctx. A nested call joins the
// outer transaction; an error from fn rolls the outermost one back.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager also runs read-only transactions, used where several
// queries must see the same snapshot.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
