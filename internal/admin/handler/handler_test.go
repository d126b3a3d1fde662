package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/internal/access"
	"datacatalog/internal/audit"
	"datacatalog/internal/notification/scheduler"
	dErrors "datacatalog/pkg/domain-errors"
	"datacatalog/pkg/testutil"
)

type stubService struct {
	approveFn            func(ctx context.Context, requestID, comment string) (*access.Grant, error)
	declineFn            func(ctx context.Context, requestID, comment string) error
	renewFn              func(ctx context.Context, accessID string) (*access.Grant, error)
	bulkRenewFn          func(ctx context.Context, accessIDs []string) ([]access.Grant, error)
	scheduleRevocationFn func(ctx context.Context, accessID string) (*access.Grant, error)
	forceRevokeFn        func(ctx context.Context, accessID, reason string) error
	regenerateFn         func(ctx context.Context) (int, error)
	processDueFn         func(ctx context.Context) (scheduler.ProcessResult, error)
	statsFn              func(ctx context.Context) (scheduler.Stats, error)
	auditEntriesFn       func(ctx context.Context, f audit.Filters) ([]audit.Entry, error)
	auditReportFn        func(ctx context.Context, f audit.Filters, title, exportFormat string) (audit.Report, error)
	exportCSVFn          func(ctx context.Context, f audit.Filters) (string, error)
}

func (s stubService) Approve(ctx context.Context, requestID, comment string) (*access.Grant, error) {
	return s.approveFn(ctx, requestID, comment)
}

func (s stubService) Decline(ctx context.Context, requestID, comment string) error {
	return s.declineFn(ctx, requestID, comment)
}

func (s stubService) Renew(ctx context.Context, accessID string) (*access.Grant, error) {
	return s.renewFn(ctx, accessID)
}

func (s stubService) BulkRenew(ctx context.Context, accessIDs []string) ([]access.Grant, error) {
	return s.bulkRenewFn(ctx, accessIDs)
}

func (s stubService) ScheduleRevocation(ctx context.Context, accessID string) (*access.Grant, error) {
	return s.scheduleRevocationFn(ctx, accessID)
}

func (s stubService) ForceRevoke(ctx context.Context, accessID, reason string) error {
	return s.forceRevokeFn(ctx, accessID, reason)
}

func (s stubService) RegenerateSchedule(ctx context.Context) (int, error) {
	return s.regenerateFn(ctx)
}

func (s stubService) ProcessDue(ctx context.Context) (scheduler.ProcessResult, error) {
	return s.processDueFn(ctx)
}

func (s stubService) NotificationStats(ctx context.Context) (scheduler.Stats, error) {
	return s.statsFn(ctx)
}

func (s stubService) AuditEntries(ctx context.Context, f audit.Filters) ([]audit.Entry, error) {
	return s.auditEntriesFn(ctx, f)
}

func (s stubService) AuditReport(ctx context.Context, f audit.Filters, title, exportFormat string) (audit.Report, error) {
	return s.auditReportFn(ctx, f, title, exportFormat)
}

func (s stubService) ExportAuditCSV(ctx context.Context, f audit.Filters) (string, error) {
	return s.exportCSVFn(ctx, f)
}

func newTestRouter(t *testing.T, svc Service) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func TestHandleApprove(t *testing.T) {
	t.Run("returns the created grant", func(t *testing.T) {
		grant := &access.Grant{ID: "acc-1", UserName: "John Doe", Status: access.StatusActive}
		router := newTestRouter(t, stubService{
			approveFn: func(_ context.Context, requestID, comment string) (*access.Grant, error) {
				assert.Equal(t, "req-1", requestID)
				assert.Equal(t, "looks good", comment)
				return grant, nil
			},
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/requests/req-1/approve",
			map[string]string{"comment": "looks good"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]any
		testutil.DecodeJSON(t, w, &resp)
		assert.Equal(t, "acc-1", resp["id"])
	})

	t.Run("maps not found to 404", func(t *testing.T) {
		router := newTestRouter(t, stubService{
			approveFn: func(context.Context, string, string) (*access.Grant, error) {
				return nil, dErrors.New(dErrors.CodeNotFound, "access request not found")
			},
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/requests/ghost/approve", map[string]string{})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp map[string]string
		testutil.DecodeJSON(t, w, &resp)
		assert.Equal(t, "not_found", resp["error"])
		assert.Equal(t, "access request not found", resp["message"])
	})
}

func TestHandleDecline(t *testing.T) {
	t.Run("missing comment maps to 400", func(t *testing.T) {
		router := newTestRouter(t, stubService{
			declineFn: func(context.Context, string, string) error {
				return dErrors.New(dErrors.CodeInvalidInput, "a decline comment is required")
			},
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/requests/req-1/decline", map[string]string{})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success is 204", func(t *testing.T) {
		router := newTestRouter(t, stubService{
			declineFn: func(_ context.Context, requestID, comment string) error {
				assert.Equal(t, "req-1", requestID)
				assert.Equal(t, "no clearance", comment)
				return nil
			},
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/requests/req-1/decline",
			map[string]string{"comment": "no clearance"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHandleBulkRenew(t *testing.T) {
	router := newTestRouter(t, stubService{
		bulkRenewFn: func(_ context.Context, accessIDs []string) ([]access.Grant, error) {
			assert.Equal(t, []string{"acc-1", "acc-2", "ghost"}, accessIDs)
			return []access.Grant{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/access/renew",
		map[string][]string{"accessIds": {"acc-1", "acc-2", "ghost"}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, float64(3), resp["requested"])
	assert.Len(t, resp["renewed"], 2)
}

func TestHandleForceRevoke(t *testing.T) {
	var gotReason string
	router := newTestRouter(t, stubService{
		forceRevokeFn: func(_ context.Context, accessID, reason string) error {
			assert.Equal(t, "acc-1", accessID)
			gotReason = reason
			return nil
		},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/access/acc-1/revoke",
		map[string]string{"reason": "security_incident"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "security_incident", gotReason)
}

func TestHandleAuditEntries(t *testing.T) {
	t.Run("parses query filters", func(t *testing.T) {
		var gotFilters audit.Filters
		router := newTestRouter(t, stubService{
			auditEntriesFn: func(_ context.Context, f audit.Filters) ([]audit.Entry, error) {
				gotFilters = f
				return []audit.Entry{{ID: "e-1"}}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet,
			"/admin/audit?action=approve,renew&productId=product-1&from=2024-01-01T00:00:00Z", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []audit.Action{audit.ActionApprove, audit.ActionRenew}, gotFilters.Actions)
		assert.Equal(t, []string{"product-1"}, gotFilters.ProductIDs)
		require.NotNil(t, gotFilters.DateRange)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), gotFilters.DateRange.From)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		router := newTestRouter(t, stubService{})
		req := httptest.NewRequest(http.MethodGet, "/admin/audit?action=destroy", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleAuditExport(t *testing.T) {
	router := newTestRouter(t, stubService{
		exportCSVFn: func(context.Context, audit.Filters) (string, error) {
			return `"Timestamp","Administrator"`, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/audit/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "audit-export.csv")
	assert.Contains(t, w.Body.String(), `"Timestamp"`)
}

func TestHandleProcessNotifications(t *testing.T) {
	router := newTestRouter(t, stubService{
		regenerateFn: func(context.Context) (int, error) { return 4, nil },
		processDueFn: func(context.Context) (scheduler.ProcessResult, error) {
			return scheduler.ProcessResult{ProcessedIDs: []string{"a", "b"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/notifications/process", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, float64(4), resp["scheduled"])
	assert.Equal(t, float64(2), resp["processed"])
}

func TestHandleNotificationStats(t *testing.T) {
	router := newTestRouter(t, stubService{
		statsFn: func(context.Context) (scheduler.Stats, error) {
			return scheduler.Stats{Total: 5, Pending: 3, Sent: 2}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/notifications/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, float64(5), resp["total"])
}
