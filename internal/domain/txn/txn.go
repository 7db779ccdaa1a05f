// Package txn defines the unit-of-work boundary shared by domain services.
package txn

import "context"

// Transactor runs fn with exclusive access to the store. Repository calls made
// from fn observe and produce a consistent view: no other transaction
// interleaves with them.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
