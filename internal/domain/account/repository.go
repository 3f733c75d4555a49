package account

import "context"

// Repository persists account snapshots.
//
// ReplaceAll clears the whole collection and writes one document per
// identity. The clear+insert pair is not transactional: a concurrent
// reader may observe an empty collection between the two steps. The
// store is not assumed to support multi-document transactions, so the
// gap is accepted and documented here rather than papered over.
type Repository interface {
	ReplaceAll(ctx context.Context, snapshots []Snapshot) error

	// FindByIdentity returns the stored snapshot for one identity,
	// or nil when none exists.
	FindByIdentity(ctx context.Context, identity string) (*Snapshot, error)

	// All returns every stored snapshot.
	All(ctx context.Context) ([]Snapshot, error)
}
