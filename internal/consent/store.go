package consent

import "context"

// Store keeps the latest answer per owner. Find returns sentinel.ErrNotFound
// for owners that never answered.
type Store interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, owner string) (Record, error)
}
