package audit

import "context"

// Store is the append-only audit log. Entries are never updated; Clear is the
// single explicit destruction path.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}
