package favorites

import "context"

// Store persists favorites per owner and site together with per-post totals.
// Add and Remove report whether they changed anything; totals move only on a
// change.
type Store interface {
	Add(ctx context.Context, owner string, fav Favorite) (bool, error)
	Remove(ctx context.Context, owner string, fav Favorite) (bool, error)
	// List returns post ids keyed by site id.
	List(ctx context.Context, owner string) (map[int64][]int64, error)
	// Clear removes every favorite of owner on siteID.
	Clear(ctx context.Context, owner string, siteID int64) error
	Count(ctx context.Context, fav Favorite) (int64, error)
}
