// Package handler exposes the administrative lifecycle operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"datacatalog/internal/access"
	"datacatalog/internal/audit"
	"datacatalog/internal/notification/scheduler"
	dErrors "datacatalog/pkg/domain-errors"
	"datacatalog/pkg/requestcontext"
)

// Service defines the interface for administrative lifecycle operations.
type Service interface {
	Approve(ctx context.Context, requestID, comment string) (*access.Grant, error)
	Decline(ctx context.Context, requestID, comment string) error
	Renew(ctx context.Context, accessID string) (*access.Grant, error)
	BulkRenew(ctx context.Context, accessIDs []string) ([]access.Grant, error)
	ScheduleRevocation(ctx context.Context, accessID string) (*access.Grant, error)
	ForceRevoke(ctx context.Context, accessID, reason string) error
	RegenerateSchedule(ctx context.Context) (int, error)
	ProcessDue(ctx context.Context) (scheduler.ProcessResult, error)
	NotificationStats(ctx context.Context) (scheduler.Stats, error)
	AuditEntries(ctx context.Context, f audit.Filters) ([]audit.Entry, error)
	AuditReport(ctx context.Context, f audit.Filters, title, exportFormat string) (audit.Report, error)
	ExportAuditCSV(ctx context.Context, f audit.Filters) (string, error)
}

// Handler handles administrative lifecycle endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new admin Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the admin routes with the chi router. Authentication and
// request middleware are applied by the caller on the parent router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/requests/{id}/approve", h.handleApprove)
		r.Post("/requests/{id}/decline", h.handleDecline)
		r.Post("/access/{id}/renew", h.handleRenew)
		r.Post("/access/renew", h.handleBulkRenew)
		r.Post("/access/{id}/schedule-revocation", h.handleScheduleRevocation)
		r.Post("/access/{id}/revoke", h.handleForceRevoke)
		r.Get("/audit", h.handleAuditEntries)
		r.Post("/audit/report", h.handleAuditReport)
		r.Get("/audit/export", h.handleAuditExport)
		r.Get("/notifications/stats", h.handleNotificationStats)
		r.Post("/notifications/process", h.handleProcessNotifications)
	})
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type bulkRenewRequest struct {
	AccessIDs []string `json:"accessIds"`
}

type revokeRequest struct {
	Reason string `json:"reason"`
}

type reportRequest struct {
	Title        string        `json:"title"`
	ExportFormat string        `json:"exportFormat"`
	Filters      filterRequest `json:"filters"`
}

// filterRequest carries audit filter criteria from either a JSON body or the
// equivalent comma-separated query parameters.
type filterRequest struct {
	AdministratorIDs []string   `json:"administratorIds"`
	TargetUserIDs    []string   `json:"targetUserIds"`
	ProductIDs       []string   `json:"productIds"`
	Actions          []string   `json:"actions"`
	From             *time.Time `json:"from"`
	To               *time.Time `json:"to"`
}

func (f filterRequest) toFilters() (audit.Filters, error) {
	out := audit.Filters{
		AdministratorIDs: f.AdministratorIDs,
		TargetUserIDs:    f.TargetUserIDs,
		ProductIDs:       f.ProductIDs,
	}
	for _, raw := range f.Actions {
		action := audit.Action(raw)
		if !action.IsValid() {
			return audit.Filters{}, dErrors.New(dErrors.CodeInvalidInput, "unknown audit action: "+raw)
		}
		out.Actions = append(out.Actions, action)
	}
	if f.From != nil || f.To != nil {
		dr := audit.DateRange{}
		if f.From != nil {
			dr.From = *f.From
		}
		if f.To != nil {
			dr.To = *f.To
		}
		out.DateRange = &dr
	}
	return out, nil
}

func filtersFromQuery(r *http.Request) (audit.Filters, error) {
	q := r.URL.Query()
	f := filterRequest{
		AdministratorIDs: splitParam(q.Get("administratorId")),
		TargetUserIDs:    splitParam(q.Get("targetUserId")),
		ProductIDs:       splitParam(q.Get("productId")),
		Actions:          splitParam(q.Get("action")),
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filters{}, dErrors.New(dErrors.CodeInvalidInput, "invalid from date, expected RFC 3339")
		}
		f.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filters{}, dErrors.New(dErrors.CodeInvalidInput, "invalid to date, expected RFC 3339")
		}
		f.To = &to
	}
	return f.toFilters()
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	grant, err := h.service.Approve(ctx, chi.URLParam(r, "id"), req.Comment)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

func (h *Handler) handleDecline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	if err := h.service.Decline(ctx, chi.URLParam(r, "id"), req.Comment); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	grant, err := h.service.Renew(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *Handler) handleBulkRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req bulkRenewRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	renewed, err := h.service.BulkRenew(ctx, req.AccessIDs)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"renewed":   renewed,
		"requested": len(req.AccessIDs),
	})
}

func (h *Handler) handleScheduleRevocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	grant, err := h.service.ScheduleRevocation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *Handler) handleForceRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req revokeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	if err := h.service.ForceRevoke(ctx, chi.URLParam(r, "id"), req.Reason); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAuditEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filters, err := filtersFromQuery(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	entries, err := h.service.AuditEntries(ctx, filters)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

func (h *Handler) handleAuditReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reportRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	filters, err := req.Filters.toFilters()
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	report, err := h.service.AuditReport(ctx, filters, req.Title, req.ExportFormat)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filters, err := filtersFromQuery(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	csv, err := h.service.ExportAuditCSV(ctx, filters)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func (h *Handler) handleNotificationStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.NotificationStats(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleProcessNotifications regenerates the schedule and dispatches whatever
// is due, the same pass the background worker runs on its interval.
func (h *Handler) handleProcessNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scheduled, err := h.service.RegenerateSchedule(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	result, err := h.service.ProcessDue(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scheduled": scheduled,
		"processed": len(result.ProcessedIDs),
	})
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "admin request failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
		return
	}

	var de *dErrors.DomainError
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Message
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
