// Package admin coordinates the access-lifecycle actions: it owns the
// mutable state handle (grant, notice, request, notification, and audit
// stores), runs the pure scheduler and audit constructors against explicit
// snapshots, and applies the returned deltas. Audit append and notification
// merge are independent side effects of one logical action: a delivery
// failure never rolls back an already-recorded audit entry.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"datacatalog/internal/access"
	"datacatalog/internal/audit"
	"datacatalog/internal/notification"
	"datacatalog/internal/notification/catalog"
	"datacatalog/internal/notification/scheduler"
	"datacatalog/internal/platform/config"
	"datacatalog/internal/platform/metrics"
	dErrors "datacatalog/pkg/domain-errors"
	"datacatalog/pkg/email"
	"datacatalog/pkg/requestcontext"
)

// Delivery hands rendered notification payloads to the outbound mechanism
// (notification center, email bridge, websocket). The core only produces
// payloads; it never performs delivery itself.
type Delivery interface {
	Deliver(ctx context.Context, payload catalog.Rendered) error
}

type Service struct {
	grants        access.GrantStore
	notices       access.NoticeStore
	requests      access.RequestStore
	notifications notification.Store
	auditLog      audit.Store

	schedulerCfg notification.SchedulerConfig
	delivery     Delivery
	logger       *slog.Logger
	metrics      *metrics.Metrics
	locks        *keyedMutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithDelivery(d Delivery) Option {
	return func(s *Service) { s.delivery = d }
}

func WithSchedulerConfig(cfg notification.SchedulerConfig) Option {
	return func(s *Service) { s.schedulerCfg = cfg }
}

func New(
	grants access.GrantStore,
	notices access.NoticeStore,
	requests access.RequestStore,
	notifications notification.Store,
	auditLog audit.Store,
	opts ...Option,
) (*Service, error) {
	if grants == nil || notices == nil || requests == nil {
		return nil, fmt.Errorf("access stores are required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification store is required")
	}
	if auditLog == nil {
		return nil, fmt.Errorf("audit store is required")
	}

	svc := &Service{
		grants:        grants,
		notices:       notices,
		requests:      requests,
		notifications: notifications,
		auditLog:      auditLog,
		schedulerCfg:  notification.DefaultSchedulerConfig(),
		logger:        slog.Default(),
		locks:         newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	if result := scheduler.ValidateConfig(svc.schedulerCfg); !result.IsValid {
		return nil, fmt.Errorf("invalid scheduler config: %v", result.Errors)
	}
	return svc, nil
}

// entryParams assembles the audit constructor context from the request
// context plus the affected user and product.
func (s *Service) entryParams(ctx context.Context, target audit.Target, product audit.Product, accessID, requestID string) audit.EntryParams {
	actor, _ := requestcontext.AdminFrom(ctx)
	return audit.EntryParams{
		Actor:     audit.Actor{ID: actor.ID, Name: actor.Name, Email: actor.Email},
		Target:    target,
		Product:   product,
		AccessID:  accessID,
		RequestID: requestID,
		IPAddress: requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	}
}

// appendAudit validates and appends one entry. Validation reports rather
// than blocks: an incomplete entry is still recorded, with a warning, since
// losing the trail would be worse than an imperfect row.
func (s *Service) appendAudit(ctx context.Context, entry audit.Entry) error {
	if errs := audit.ValidateEntry(entry); len(errs) > 0 {
		s.logger.WarnContext(ctx, "audit entry incomplete",
			"action", entry.Action,
			"problems", errs,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if err := s.auditLog.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}
	if s.metrics != nil {
		s.metrics.AuditEntriesAppended.Inc()
	}
	return nil
}

// Approve converts a pending request into an active grant expiring one
// renewal period out, records the approval, and schedules its expiration
// reminders.
func (s *Service) Approve(ctx context.Context, requestID, comment string) (*access.Grant, error) {
	request, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access request")
	}
	if request == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "access request not found")
	}

	now := requestcontext.Now(ctx)
	actor, _ := requestcontext.AdminFrom(ctx)

	// Upstream request feeds sometimes omit the requester's name. The audit
	// target and the grant both need one.
	if request.UserName == "" {
		request.UserName = email.DisplayName(request.UserEmail)
	}

	grant := access.Grant{
		ID:          uuid.NewString(),
		UserID:      request.UserID,
		UserName:    request.UserName,
		UserEmail:   request.UserEmail,
		ProductID:   request.ProductID,
		ProductName: request.ProductName,
		GrantedAt:   now,
		ExpiresAt:   now.Add(config.RenewalPeriod),
		GrantedBy:   actor.Name,
		AccessLevel: request.AccessLevel,
		Status:      access.StatusActive,
	}
	if err := grant.Validate(); err != nil {
		return nil, err
	}
	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save grant")
	}
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove approved request")
	}

	entry := audit.NewApprovalEntry(
		s.entryParams(ctx, targetOf(request), productOf(request), grant.ID, requestID),
		comment,
		map[string]any{
			"businessJustification": request.BusinessJustification,
			"bdac":                  request.BDAC,
			"priority":              request.Priority,
			"daysWaiting":           request.DaysWaiting(now),
		},
		now,
	)
	if err := s.appendAudit(ctx, entry); err != nil {
		return nil, err
	}
	s.recordAction(audit.ActionApprove)

	s.mergeGenerated(ctx, scheduler.GenerateExpirationReminders([]access.Grant{grant}, s.schedulerCfg, now))
	return &grant, nil
}

// Decline closes a pending request with a mandatory reason.
func (s *Service) Decline(ctx context.Context, requestID, comment string) error {
	if comment == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "a decline comment is required")
	}

	request, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access request")
	}
	if request == nil {
		return dErrors.New(dErrors.CodeNotFound, "access request not found")
	}

	now := requestcontext.Now(ctx)
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove declined request")
	}

	entry := audit.NewDeclineEntry(
		s.entryParams(ctx, targetOf(request), productOf(request), "", requestID),
		comment,
		"",
		map[string]any{
			"businessJustification": request.BusinessJustification,
			"bdac":                  request.BDAC,
			"priority":              request.Priority,
			"daysWaiting":           request.DaysWaiting(now),
		},
		now,
	)
	if err := s.appendAudit(ctx, entry); err != nil {
		return err
	}
	s.recordAction(audit.ActionDecline)
	return nil
}

// Renew extends a grant by one renewal period, resets it to active, and
// cancels any scheduled revocation along with its pending notifications.
func (s *Service) Renew(ctx context.Context, accessID string) (*access.Grant, error) {
	unlock := s.locks.lock(accessID)
	defer unlock()

	grant, err := s.grants.Get(ctx, accessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load grant")
	}
	if grant == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "access grant not found")
	}

	now := requestcontext.Now(ctx)
	renewed, entry, err := s.renewOne(ctx, *grant, now)
	if err != nil {
		return nil, err
	}
	if err := s.appendAudit(ctx, entry); err != nil {
		return nil, err
	}
	s.recordAction(audit.ActionRenew)

	s.mergeGenerated(ctx, scheduler.GenerateExpirationReminders([]access.Grant{*renewed}, s.schedulerCfg, now))
	s.deliverConfirmation(ctx, *renewed)
	return renewed, nil
}

// renewOne applies the renewal state transition to one grant and builds the
// plain renew audit entry. Bulk renewals reuse the transition but construct
// their own entries.
func (s *Service) renewOne(ctx context.Context, grant access.Grant, now time.Time) (*access.Grant, audit.Entry, error) {
	previousExpiration := grant.ExpiresAt
	previousStatus := grant.Status

	grant.ExpiresAt = now.Add(config.RenewalPeriod)
	grant.Status = access.StatusActive
	grant.RevocationScheduledAt = nil
	grant.RevocationNotificationSent = false

	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, audit.Entry{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save renewed grant")
	}
	if previousStatus == access.StatusScheduledForRevocation {
		if err := s.notices.DeleteByAccessID(ctx, grant.ID); err != nil {
			return nil, audit.Entry{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel revocation notice")
		}
		s.dropPendingNotifications(ctx, grant.ID, notification.TypeRevocationNotice, notification.TypeRevocationReminder)
	}

	entry := audit.NewRenewalEntry(
		s.entryParams(ctx, targetOfGrant(grant), productOfGrant(grant), grant.ID, ""),
		previousExpiration,
		map[string]any{
			"accessLevel":    string(grant.AccessLevel),
			"previousStatus": string(previousStatus),
			"grantedBy":      grant.GrantedBy,
			"grantedAt":      grant.GrantedAt,
		},
		now,
	)
	return &grant, entry, nil
}

// BulkRenew renews several grants in one pass. Unknown IDs are logged and
// skipped rather than failing the batch; every resulting audit entry carries
// the total batch size.
func (s *Service) BulkRenew(ctx context.Context, accessIDs []string) ([]access.Grant, error) {
	if len(accessIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one access id is required")
	}

	now := requestcontext.Now(ctx)
	var (
		renewed []access.Grant
		items   []audit.BulkRenewalItem
	)

	for _, accessID := range accessIDs {
		unlock := s.locks.lock(accessID)

		grant, err := s.grants.Get(ctx, accessID)
		if err != nil {
			unlock()
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load grant")
		}
		if grant == nil {
			unlock()
			s.logger.WarnContext(ctx, "bulk renew skipping unknown grant",
				"access_id", accessID,
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}

		previousExpiration := grant.ExpiresAt
		previousStatus := grant.Status
		updated, _, err := s.renewOne(ctx, *grant, now)
		unlock()
		if err != nil {
			return nil, err
		}

		renewed = append(renewed, *updated)
		items = append(items, audit.BulkRenewalItem{
			Params:             s.entryParams(ctx, targetOfGrant(*updated), productOfGrant(*updated), updated.ID, ""),
			PreviousExpiration: previousExpiration,
			Context: map[string]any{
				"accessLevel":    string(updated.AccessLevel),
				"previousStatus": string(previousStatus),
				"grantedBy":      updated.GrantedBy,
				"grantedAt":      updated.GrantedAt,
			},
		})
	}

	for _, entry := range audit.NewBulkRenewalEntries(items, now) {
		if err := s.appendAudit(ctx, entry); err != nil {
			return nil, err
		}
	}
	s.recordAction(audit.ActionBulkRenew)

	s.mergeGenerated(ctx, scheduler.GenerateExpirationReminders(renewed, s.schedulerCfg, now))
	return renewed, nil
}

// ScheduleRevocation puts a grant on the 30-day revocation path: status
// change, a revocation notice, an audit entry, and the notice/reminder
// notifications.
func (s *Service) ScheduleRevocation(ctx context.Context, accessID string) (*access.Grant, error) {
	unlock := s.locks.lock(accessID)
	defer unlock()

	grant, err := s.grants.Get(ctx, accessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load grant")
	}
	if grant == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "access grant not found")
	}
	if grant.Status == access.StatusScheduledForRevocation {
		return nil, dErrors.New(dErrors.CodeConflict, "grant is already scheduled for revocation")
	}

	now := requestcontext.Now(ctx)
	previousExpiration := grant.ExpiresAt
	revocationAt := now.Add(config.RevocationNoticePeriod)

	grant.Status = access.StatusScheduledForRevocation
	grant.RevocationScheduledAt = &revocationAt
	if err := s.grants.Save(ctx, *grant); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save grant")
	}

	notice := access.RevocationNotice{
		ID:                      uuid.NewString(),
		AccessID:                grant.ID,
		UserID:                  grant.UserID,
		ScheduledRevocationDate: revocationAt,
		NotificationDate:        now,
		CreatedAt:               now,
	}
	if err := s.notices.Save(ctx, notice); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save revocation notice")
	}

	// Expiration reminders would now conflict with revocation messaging.
	s.dropPendingNotifications(ctx, grant.ID, notification.TypeExpirationReminder)

	entry := audit.NewScheduledRevocationEntry(
		s.entryParams(ctx, targetOfGrant(*grant), productOfGrant(*grant), grant.ID, ""),
		revocationAt,
		previousExpiration,
		map[string]any{
			"accessLevel": string(grant.AccessLevel),
			"grantedBy":   grant.GrantedBy,
		},
		now,
	)
	if err := s.appendAudit(ctx, entry); err != nil {
		return nil, err
	}
	s.recordAction(audit.ActionScheduleRevocation)

	s.mergeGenerated(ctx, scheduler.GenerateRevocationNotices(
		[]access.RevocationNotice{notice}, []access.Grant{*grant}, s.schedulerCfg, now))
	return grant, nil
}

// ForceRevoke removes a grant immediately, cancels everything scheduled for
// it, records the revocation, and hands the revocation payload to delivery.
func (s *Service) ForceRevoke(ctx context.Context, accessID, reason string) error {
	unlock := s.locks.lock(accessID)
	defer unlock()

	grant, err := s.grants.Get(ctx, accessID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load grant")
	}
	if grant == nil {
		return dErrors.New(dErrors.CodeNotFound, "access grant not found")
	}

	now := requestcontext.Now(ctx)
	previousExpiration := grant.ExpiresAt

	if err := s.grants.Delete(ctx, accessID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove grant")
	}
	if err := s.notices.DeleteByAccessID(ctx, accessID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove revocation notice")
	}
	s.dropPendingNotifications(ctx, accessID,
		notification.TypeExpirationReminder,
		notification.TypeRevocationNotice,
		notification.TypeRevocationReminder,
	)

	entry := audit.NewForceRevocationEntry(
		s.entryParams(ctx, targetOfGrant(*grant), productOfGrant(*grant), accessID, ""),
		reason,
		previousExpiration,
		map[string]any{
			"accessLevel": string(grant.AccessLevel),
			"grantedBy":   grant.GrantedBy,
		},
		now,
	)
	if err := s.appendAudit(ctx, entry); err != nil {
		return err
	}
	s.recordAction(audit.ActionForceRevoke)

	tmpl := catalog.ForceRevocationTemplateFor(reason)
	title, message := catalog.Populate(*tmpl, map[string]string{"productName": grant.ProductName})
	s.deliver(ctx, catalog.Rendered{
		UserID:       grant.UserID,
		UserName:     grant.UserName,
		UserEmail:    grant.UserEmail,
		ProductID:    grant.ProductID,
		ProductName:  grant.ProductName,
		Title:        title,
		Message:      message,
		UrgencyLevel: tmpl.UrgencyLevel,
		Type:         tmpl.Type,
	})
	return nil
}

// RegenerateSchedule recomputes the full notification schedule from current
// grants and notices and merges it into the pending set. Deterministic IDs
// make repeated regeneration idempotent.
func (s *Service) RegenerateSchedule(ctx context.Context) (int, error) {
	grants, err := s.grants.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list grants")
	}
	notices, err := s.notices.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list revocation notices")
	}

	now := requestcontext.Now(ctx)
	generated := scheduler.GenerateExpirationReminders(grants, s.schedulerCfg, now)
	generated = append(generated, scheduler.GenerateRevocationNotices(notices, grants, s.schedulerCfg, now)...)

	added, err := s.notifications.Merge(ctx, generated)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to merge generated notifications")
	}
	if s.metrics != nil && added > 0 {
		s.metrics.NotificationsScheduled.Add(float64(added))
	}
	return added, nil
}

// ProcessDue renders and dispatches every due notification, then marks them
// sent. Items whose target date already passed have no template tier left;
// they are logged, skipped, and still marked sent so they stop resurfacing.
func (s *Service) ProcessDue(ctx context.Context) (scheduler.ProcessResult, error) {
	scheduled, err := s.notifications.List(ctx)
	if err != nil {
		return scheduler.ProcessResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}

	now := requestcontext.Now(ctx)
	result := scheduler.ProcessDueNotifications(scheduled, s.schedulerCfg, now)

	items := append(append([]scheduler.DeliveryItem{}, result.ExpirationReminders...), result.RevocationNotices...)
	if s.schedulerCfg.EnableBatchProcessing && len(items) > s.schedulerCfg.MaxBatchSize {
		s.logger.WarnContext(ctx, "due notification batch exceeds configured size",
			"due", len(items),
			"max_batch_size", s.schedulerCfg.MaxBatchSize,
		)
	}

	var requests []catalog.BatchRequest
	for _, item := range items {
		if item.DaysUntilTarget < 1 {
			s.logger.WarnContext(ctx, "skipping overdue notification with passed target date",
				"notification_id", item.NotificationID,
				"target_date", item.TargetDate,
			)
			continue
		}
		requests = append(requests, catalog.BatchRequest{
			UserID:          item.UserID,
			UserName:        item.UserName,
			UserEmail:       item.UserEmail,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Type:            item.Type,
			DaysUntilTarget: item.DaysUntilTarget,
			TargetDate:      item.TargetDate,
		})
	}

	rendered, err := catalog.ProcessBatch(requests)
	if err != nil {
		return scheduler.ProcessResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render notification batch")
	}
	for _, payload := range rendered {
		s.deliver(ctx, payload)
		if s.metrics != nil {
			s.metrics.RecordSent(string(payload.Type))
		}
	}

	if err := s.notifications.MarkSent(ctx, result.ProcessedIDs, now); err != nil {
		return scheduler.ProcessResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notifications sent")
	}
	return result, nil
}

// CleanupNotifications drops sent notifications older than the retention
// window and reports how many were removed.
func (s *Service) CleanupNotifications(ctx context.Context, retentionDays int) (int, error) {
	scheduled, err := s.notifications.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}

	now := requestcontext.Now(ctx)
	kept := scheduler.CleanupOldNotifications(scheduled, retentionDays, now)

	keptIDs := make(map[string]struct{}, len(kept))
	for _, n := range kept {
		keptIDs[n.ID] = struct{}{}
	}
	var removed []string
	for _, n := range scheduled {
		if _, ok := keptIDs[n.ID]; !ok {
			removed = append(removed, n.ID)
		}
	}

	if err := s.notifications.Delete(ctx, removed); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete old notifications")
	}
	return len(removed), nil
}

// NotificationStats summarizes the current schedule.
func (s *Service) NotificationStats(ctx context.Context) (scheduler.Stats, error) {
	scheduled, err := s.notifications.List(ctx)
	if err != nil {
		return scheduler.Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return scheduler.ComputeStats(scheduled, requestcontext.Now(ctx)), nil
}

// AuditEntries returns the raw filtered, newest-first log.
func (s *Service) AuditEntries(ctx context.Context, f audit.Filters) ([]audit.Entry, error) {
	entries, err := s.auditLog.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return audit.Sort(audit.Filter(entries, f), "desc"), nil
}

// AuditReport builds a point-in-time snapshot of the filtered log.
func (s *Service) AuditReport(ctx context.Context, f audit.Filters, title, exportFormat string) (audit.Report, error) {
	entries, err := s.auditLog.List(ctx)
	if err != nil {
		return audit.Report{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	actor, _ := requestcontext.AdminFrom(ctx)
	return audit.CreateReport(entries, f, actor.Email, title, exportFormat, requestcontext.Now(ctx)), nil
}

// ExportAuditCSV renders the filtered log as CSV.
func (s *Service) ExportAuditCSV(ctx context.Context, f audit.Filters) (string, error) {
	report, err := s.AuditReport(ctx, f, "", "csv")
	if err != nil {
		return "", err
	}
	return audit.ExportCSV(report), nil
}

// ClearAuditLog is the explicit administrative destruction path for the log.
func (s *Service) ClearAuditLog(ctx context.Context) error {
	if err := s.auditLog.Clear(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear audit log")
	}
	s.logger.InfoContext(ctx, "audit log cleared",
		"admin_id", requestcontext.AdminID(ctx),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	return nil
}

// mergeGenerated merges freshly generated notifications, logging rather than
// failing the action: scheduling is recoverable by the next regenerate pass.
func (s *Service) mergeGenerated(ctx context.Context, generated []notification.Scheduled) {
	added, err := s.notifications.Merge(ctx, generated)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to merge generated notifications",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	if s.metrics != nil && added > 0 {
		s.metrics.NotificationsScheduled.Add(float64(added))
	}
}

// dropPendingNotifications deletes unsent notifications of the given types
// for one grant. Sent entries stay for the record.
func (s *Service) dropPendingNotifications(ctx context.Context, accessID string, types ...notification.Type) {
	scheduled, err := s.notifications.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list notifications for cancellation",
			"error", err,
			"access_id", accessID,
		)
		return
	}

	typeSet := make(map[notification.Type]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}
	var ids []string
	for _, n := range scheduled {
		if n.AccessID != accessID || n.Sent {
			continue
		}
		if _, match := typeSet[n.Type]; match {
			ids = append(ids, n.ID)
		}
	}
	if err := s.notifications.Delete(ctx, ids); err != nil {
		s.logger.ErrorContext(ctx, "failed to cancel pending notifications",
			"error", err,
			"access_id", accessID,
		)
	}
}

// deliverConfirmation sends the renewal confirmation payload.
func (s *Service) deliverConfirmation(ctx context.Context, grant access.Grant) {
	tmpl := catalog.ByID("renewal-confirmation")
	if tmpl == nil {
		return
	}
	title, message := catalog.Populate(*tmpl, map[string]string{
		"productName":       grant.ProductName,
		"newExpirationDate": grant.ExpiresAt.Format("January 2, 2006"),
	})
	s.deliver(ctx, catalog.Rendered{
		UserID:       grant.UserID,
		UserName:     grant.UserName,
		UserEmail:    grant.UserEmail,
		ProductID:    grant.ProductID,
		ProductName:  grant.ProductName,
		Title:        title,
		Message:      message,
		UrgencyLevel: tmpl.UrgencyLevel,
		Type:         tmpl.Type,
	})
}

// deliver hands a payload to the delivery mechanism. Failures are surfaced in
// the log only: delivery is a downstream side effect and must not corrupt the
// already-applied core state.
func (s *Service) deliver(ctx context.Context, payload catalog.Rendered) {
	if s.delivery == nil {
		return
	}
	if err := s.delivery.Deliver(ctx, payload); err != nil {
		s.logger.ErrorContext(ctx, "notification delivery failed",
			"error", err,
			"user_id", payload.UserID,
			"type", payload.Type,
		)
	}
}

func (s *Service) recordAction(action audit.Action) {
	if s.metrics != nil {
		s.metrics.RecordAction(string(action))
	}
}

func targetOf(r *access.Request) audit.Target {
	return audit.Target{ID: r.UserID, Name: r.UserName, Email: r.UserEmail}
}

func productOf(r *access.Request) audit.Product {
	return audit.Product{ID: r.ProductID, Name: r.ProductName}
}

func targetOfGrant(g access.Grant) audit.Target {
	return audit.Target{ID: g.UserID, Name: g.UserName, Email: g.UserEmail}
}

func productOfGrant(g access.Grant) audit.Product {
	return audit.Product{ID: g.ProductID, Name: g.ProductName}
}
