package ports

import "context"

// Port: the per-user attraction cart. Keyed by the opaque owner id the
// identity provider hands us; adding an id already in the cart is a
// no-op.
type CartRepository interface {
	Add(ctx context.Context, userID string, attractionID int64) error
	Remove(ctx context.Context, userID string, attractionID int64) error
	List(ctx context.Context, userID string) ([]int64, error)
	Clear(ctx context.Context, userID string) error
}
