package notification

import (
	"context"
	"time"
)

// Store holds the scheduled notification set. The scheduler itself is pure;
// the admin service lists the current set, runs the pure transformations, and
// applies the resulting deltas through this interface.
type Store interface {
	// Merge upserts notifications by their deterministic ID. An existing entry
	// that has already been sent is never overwritten by an unsent
	// regeneration of the same ID. Returns how many entries were added.
	Merge(ctx context.Context, notifications []Scheduled) (int, error)

	List(ctx context.Context) ([]Scheduled, error)

	// MarkSent flags the given IDs as sent at the provided instant. Entries
	// already sent keep their original SentAt. Unknown IDs are ignored.
	MarkSent(ctx context.Context, ids []string, at time.Time) error

	// Delete removes the given IDs. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error
}
