package access

import "context"

// GrantStore holds the active grant set. Implementations must be safe for
// concurrent use; the admin service serializes mutations per access ID.
type GrantStore interface {
	Save(ctx context.Context, grant Grant) error
	Get(ctx context.Context, id string) (*Grant, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Grant, error)
}

// NoticeStore holds pending revocation notices keyed by the grant they cover.
type NoticeStore interface {
	Save(ctx context.Context, notice RevocationNotice) error
	GetByAccessID(ctx context.Context, accessID string) (*RevocationNotice, error)
	DeleteByAccessID(ctx context.Context, accessID string) error
	List(ctx context.Context) ([]RevocationNotice, error)
}

// RequestStore holds pending access requests awaiting an admin decision.
type RequestStore interface {
	Save(ctx context.Context, request Request) error
	Get(ctx context.Context, id string) (*Request, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Request, error)
}
