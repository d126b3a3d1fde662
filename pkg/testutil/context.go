package testutil

import (
	"net/http"
	"time"

	"datacatalog/pkg/requestcontext"
)

// WithAdmin puts an administrator identity on the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithAdmin(req *http.Request, id, name, emailAddr string) *http.Request {
	ctx := requestcontext.WithAdmin(req.Context(), requestcontext.Admin{
		ID:    id,
		Name:  name,
		Email: emailAddr,
	})
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped clock so handlers under test see a
// deterministic time.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
