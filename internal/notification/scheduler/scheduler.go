// Package scheduler computes the access-lifecycle notification schedule.
//
// Every function here is a pure transformation over explicit inputs: the
// admin service owns the mutable stores, lists current state, runs these
// functions, and applies the returned deltas. Generation is idempotent
// because notification identity derives from (access ID, type, offset), and
// future-only: offsets whose reminder date already passed are never created
// retroactively. A separate periodic regenerate pass picks up new grants.
package scheduler

import (
	"fmt"
	"time"

	"datacatalog/internal/access"
	"datacatalog/internal/notification"
)

const day = 24 * time.Hour

// ExpirationReminderID builds the deterministic ID for an expiration reminder.
func ExpirationReminderID(accessID string, daysBefore int) string {
	return fmt.Sprintf("exp-reminder-%s-%dd", accessID, daysBefore)
}

// RevocationNoticeID builds the deterministic ID for the initial revocation notice.
func RevocationNoticeID(accessID string) string {
	return fmt.Sprintf("revocation-notice-%s", accessID)
}

// RevocationReminderID builds the deterministic ID for a revocation reminder.
func RevocationReminderID(accessID string, daysBefore int) string {
	return fmt.Sprintf("revocation-reminder-%s-%dd", accessID, daysBefore)
}

// GenerateExpirationReminders emits one reminder per configured offset for
// every grant not under revocation scheduling. Grants scheduled for
// revocation use the revocation notice path instead, so the same grant never
// receives conflicting messaging. Reminders whose date is not strictly in the
// future are skipped.
func GenerateExpirationReminders(grants []access.Grant, cfg notification.SchedulerConfig, now time.Time) []notification.Scheduled {
	var out []notification.Scheduled
	for _, grant := range grants {
		if grant.Status == access.StatusScheduledForRevocation {
			continue
		}
		for _, offset := range cfg.ExpirationReminderDays {
			reminderDate := grant.ExpiresAt.Add(-time.Duration(offset) * day)
			if !reminderDate.After(now) {
				continue
			}
			out = append(out, notification.Scheduled{
				ID:               ExpirationReminderID(grant.ID, offset),
				AccessID:         grant.ID,
				UserID:           grant.UserID,
				UserName:         grant.UserName,
				UserEmail:        grant.UserEmail,
				ProductID:        grant.ProductID,
				ProductName:      grant.ProductName,
				Type:             notification.TypeExpirationReminder,
				ScheduledDate:    reminderDate,
				TargetDate:       grant.ExpiresAt,
				DaysBeforeTarget: offset,
				CreatedAt:        now,
			})
		}
	}
	return out
}

// revocationNoticeLeadDays is the fixed lead time of the initial notice.
const revocationNoticeLeadDays = 30

// GenerateRevocationNotices emits the initial 30-day notice for every
// revocation notice not yet sent, plus future-dated reminders at the
// configured offsets. Notices referencing no known grant are skipped.
func GenerateRevocationNotices(notices []access.RevocationNotice, grants []access.Grant, cfg notification.SchedulerConfig, now time.Time) []notification.Scheduled {
	byID := make(map[string]access.Grant, len(grants))
	for _, grant := range grants {
		byID[grant.ID] = grant
	}

	var out []notification.Scheduled
	for _, notice := range notices {
		grant, exists := byID[notice.AccessID]
		if !exists {
			// Orphaned notice: the grant was force-revoked or expired out
			// from under it. Nothing to notify about.
			continue
		}

		if !notice.NotificationSent {
			out = append(out, notification.Scheduled{
				ID:               RevocationNoticeID(notice.AccessID),
				AccessID:         notice.AccessID,
				UserID:           grant.UserID,
				UserName:         grant.UserName,
				UserEmail:        grant.UserEmail,
				ProductID:        grant.ProductID,
				ProductName:      grant.ProductName,
				Type:             notification.TypeRevocationNotice,
				ScheduledDate:    notice.NotificationDate,
				TargetDate:       notice.ScheduledRevocationDate,
				DaysBeforeTarget: revocationNoticeLeadDays,
				CreatedAt:        now,
			})
		}

		for _, offset := range cfg.RevocationReminderDays {
			reminderDate := notice.ScheduledRevocationDate.Add(-time.Duration(offset) * day)
			if !reminderDate.After(now) {
				continue
			}
			out = append(out, notification.Scheduled{
				ID:               RevocationReminderID(notice.AccessID, offset),
				AccessID:         notice.AccessID,
				UserID:           grant.UserID,
				UserName:         grant.UserName,
				UserEmail:        grant.UserEmail,
				ProductID:        grant.ProductID,
				ProductName:      grant.ProductName,
				Type:             notification.TypeRevocationReminder,
				ScheduledDate:    reminderDate,
				TargetDate:       notice.ScheduledRevocationDate,
				DaysBeforeTarget: offset,
				CreatedAt:        now,
			})
		}
	}
	return out
}

// GetDueNotifications returns the unsent entries whose scheduled date has
// arrived.
func GetDueNotifications(scheduled []notification.Scheduled, now time.Time) []notification.Scheduled {
	var due []notification.Scheduled
	for _, n := range scheduled {
		if !n.Sent && !n.ScheduledDate.After(now) {
			due = append(due, n)
		}
	}
	return due
}

// GroupByType buckets notifications by their type.
func GroupByType(notifications []notification.Scheduled) map[notification.Type][]notification.Scheduled {
	groups := make(map[notification.Type][]notification.Scheduled)
	for _, n := range notifications {
		groups[n.Type] = append(groups[n.Type], n)
	}
	return groups
}

// DeliveryItem is the minimal payload handed to the delivery layer for one
// due notification.
type DeliveryItem struct {
	NotificationID string
	AccessID       string
	UserID         string
	UserName       string
	UserEmail      string
	ProductID      string
	ProductName    string
	Type           notification.Type
	TargetDate     time.Time

	// DaysUntilTarget is recomputed live at processing time rather than
	// trusting the stored offset, since processing may run later than the
	// exact scheduled instant.
	DaysUntilTarget int
}

// ProcessResult carries the projected due notifications and the IDs the
// caller must mark sent once delivery is handed off.
type ProcessResult struct {
	ExpirationReminders []DeliveryItem
	RevocationNotices   []DeliveryItem
	ProcessedIDs        []string
}

// ProcessDueNotifications projects the currently due notifications into
/// delivery payloads. It is a pure read over its input: calling it repeatedly
// before the mark-as-sent step completes yields the same result. Revocation
// notices and revocation reminders merge into one output list.
func ProcessDueNotifications(scheduled []notification.Scheduled, _ notification.SchedulerConfig, now time.Time) ProcessResult {
	due := GetDueNotifications(scheduled, now)
	groups := GroupByType(due)

	var result ProcessResult
	for _, n := range groups[notification.TypeExpirationReminder] {
		result.ExpirationReminders = append(result.ExpirationReminders, toDeliveryItem(n, now))
	}
	for _, n := range groups[notification.TypeRevocationNotice] {
		result.RevocationNotices = append(result.RevocationNotices, toDeliveryItem(n, now))
	}
	for _, n := range groups[notification.TypeRevocationReminder] {
		result.RevocationNotices = append(result.RevocationNotices, toDeliveryItem(n, now))
	}
	for _, n := range due {
		result.ProcessedIDs = append(result.ProcessedIDs, n.ID)
	}
	return result
}

func toDeliveryItem(n notification.Scheduled, now time.Time) DeliveryItem {
	return DeliveryItem{
		NotificationID:  n.ID,
		AccessID:        n.AccessID,
		UserID:          n.UserID,
		UserName:        n.UserName,
		UserEmail:       n.UserEmail,
		ProductID:       n.ProductID,
		ProductName:     n.ProductName,
		Type:            n.Type,
		TargetDate:      n.TargetDate,
		DaysUntilTarget: daysUntil(n.TargetDate, now),
	}
}

// daysUntil returns ceil((target - now) / 1 day).
func daysUntil(target, now time.Time) int {
	remaining := target.Sub(now)
	days := int(remaining / day)
	if remaining%day > 0 {
		days++
	}
	return days
}

// MarkAsSent returns a new list with the matching entries flagged sent at the
// given instant. Entries already sent keep their original SentAt; everything
// else is untouched.
func MarkAsSent(scheduled []notification.Scheduled, ids []string, now time.Time) []notification.Scheduled {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	out := make([]notification.Scheduled, len(scheduled))
	for i, n := range scheduled {
		if _, match := idSet[n.ID]; match && !n.Sent {
			n.Sent = true
			sentAt := now
			n.SentAt = &sentAt
		}
		out[i] = n
	}
	return out
}

// CleanupOldNotifications drops sent entries older than the retention window,
// measured from SentAt (falling back to CreatedAt). Unsent entries are kept
// indefinitely regardless of age: they still need to fire.
func CleanupOldNotifications(scheduled []notification.Scheduled, retentionDays int, now time.Time) []notification.Scheduled {
	cutoff := now.Add(-time.Duration(retentionDays) * day)
	var kept []notification.Scheduled
	for _, n := range scheduled {
		if n.Sent {
			reference := n.CreatedAt
			if n.SentAt != nil {
				reference = *n.SentAt
			}
			if reference.Before(cutoff) {
				continue
			}
		}
		kept = append(kept, n)
	}
	return kept
}

// TypeStats breaks down counts for one notification type.
type TypeStats struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Pending int `json:"pending"`
}

// Stats summarizes the scheduled notification set.
type Stats struct {
	Total   int                             `json:"total"`
	Sent    int                             `json:"sent"`
	Pending int                             `json:"pending"`
	Overdue int                             `json:"overdue"`
	ByType  map[notification.Type]TypeStats `json:"byType"`
}

// ComputeStats tallies the schedule. Overdue means unsent with a scheduled
// date already in the past; pending means unsent and not yet due.
func ComputeStats(scheduled []notification.Scheduled, now time.Time) Stats {
	stats := Stats{ByType: make(map[notification.Type]TypeStats)}
	for _, n := range scheduled {
		stats.Total++
		byType := stats.ByType[n.Type]
		byType.Total++
		if n.Sent {
			stats.Sent++
			byType.Sent++
		} else {
			byType.Pending++
			if n.ScheduledDate.Before(now) {
				stats.Overdue++
			} else {
				stats.Pending++
			}
		}
		stats.ByType[n.Type] = byType
	}
	return stats
}

// ConfigValidation reports configuration problems as human-readable messages.
type ConfigValidation struct {
	IsValid bool
	Errors  []string
}

// ValidateConfig checks the day-offset arrays and batch settings. Expiration
// offsets may reach a year out; revocation offsets are capped at the 30 day
// notice window.
func ValidateConfig(cfg notification.SchedulerConfig) ConfigValidation {
	var errs []string

	if len(cfg.ExpirationReminderDays) == 0 {
		errs = append(errs, "expirationReminderDays must be a non-empty array")
	}
	for _, offset := range cfg.ExpirationReminderDays {
		if offset < 1 || offset > 365 {
			errs = append(errs, fmt.Sprintf("expirationReminderDays value %d must be between 1 and 365", offset))
		}
	}

	if len(cfg.RevocationReminderDays) == 0 {
		errs = append(errs, "revocationReminderDays must be a non-empty array")
	}
	for _, offset := range cfg.RevocationReminderDays {
		if offset < 1 || offset > 30 {
			errs = append(errs, fmt.Sprintf("revocationReminderDays value %d must be between 1 and 30", offset))
		}
	}

	if cfg.MaxBatchSize <= 0 {
		errs = append(errs, "maxBatchSize must be a positive number")
	}

	return ConfigValidation{IsValid: len(errs) == 0, Errors: errs}
}
