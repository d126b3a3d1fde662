package audit

import (
	"time"

	"github.com/google/uuid"

	"datacatalog/internal/platform/config"
)

// EntryParams carries the shared context every constructor needs: who acted,
// on whom, against which product, and the request forensics.
type EntryParams struct {
	Actor     Actor
	Target    Target
	Product   Product
	AccessID  string
	RequestID string
	IPAddress string
	UserAgent string
}

// NewEntry is the core primitive: a fresh entry with a random unique ID and
// the given timestamp. Audit IDs need uniqueness only; scheduled
// notifications use deterministic IDs instead because they need idempotent
// identity. That asymmetry is deliberate.
func NewEntry(action Action, p EntryParams, details Details, now time.Time) Entry {
	return Entry{
		ID:                 uuid.NewString(),
		Timestamp:          now,
		AdministratorID:    p.Actor.ID,
		AdministratorName:  p.Actor.Name,
		AdministratorEmail: p.Actor.Email,
		Action:             action,
		TargetUserID:       p.Target.ID,
		TargetUserName:     p.Target.Name,
		TargetUserEmail:    p.Target.Email,
		ProductID:          p.Product.ID,
		ProductName:        p.Product.Name,
		AccessID:           p.AccessID,
		RequestID:          p.RequestID,
		Details:            details,
		IPAddress:          p.IPAddress,
		UserAgent:          p.UserAgent,
	}
}

// NewApprovalEntry records an access request approval. The new expiration is
// always one renewal period out from the approval instant.
func NewApprovalEntry(p EntryParams, comment string, context map[string]any, now time.Time) Entry {
	newExpiration := now.Add(config.RenewalPeriod)
	return NewEntry(ActionApprove, p, Details{
		Comment:           comment,
		NewExpirationDate: &newExpiration,
		AdditionalContext: context,
	}, now)
}

// NewDeclineEntry records an access request decline. The comment doubles as
// the reason; templateUsed names the decline message template, when one was
// picked.
func NewDeclineEntry(p EntryParams, comment, templateUsed string, context map[string]any, now time.Time) Entry {
	return NewEntry(ActionDecline, p, Details{
		Reason:            comment,
		Comment:           comment,
		TemplateUsed:      templateUsed,
		AdditionalContext: context,
	}, now)
}

// NewRenewalEntry records a single-grant renewal.
func NewRenewalEntry(p EntryParams, previousExpiration time.Time, context map[string]any, now time.Time) Entry {
	newExpiration := now.Add(config.RenewalPeriod)
	return NewEntry(ActionRenew, p, Details{
		PreviousExpirationDate: &previousExpiration,
		NewExpirationDate:      &newExpiration,
		AdditionalContext:      context,
	}, now)
}

// BulkRenewalItem is one grant inside a bulk renewal.
type BulkRenewalItem struct {
	Params             EntryParams
	PreviousExpiration time.Time
	Context            map[string]any
}

// NewBulkRenewalEntries fans a bulk renewal out into one entry per grant.
// Every entry carries the total batch size so a reader of any single entry
// can tell it was part of a bulk operation.
func NewBulkRenewalEntries(items []BulkRenewalItem, now time.Time) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		newExpiration := now.Add(config.RenewalPeriod)
		previous := item.PreviousExpiration
		entries = append(entries, NewEntry(ActionBulkRenew, item.Params, Details{
			PreviousExpirationDate: &previous,
			NewExpirationDate:      &newExpiration,
			BulkOperationCount:     len(items),
			AdditionalContext:      item.Context,
		}, now))
	}
	return entries
}

// NewScheduledRevocationEntry records that a grant was put on the 30-day
// revocation path.
func NewScheduledRevocationEntry(p EntryParams, revocationScheduledDate, previousExpiration time.Time, context map[string]any, now time.Time) Entry {
	if context == nil {
		context = make(map[string]any)
	}
	context["notificationPeriod"] = "30 days"
	return NewEntry(ActionScheduleRevocation, p, Details{
		RevocationScheduledDate: &revocationScheduledDate,
		PreviousExpirationDate:  &previousExpiration,
		AdditionalContext:       context,
	}, now)
}

// NewForceRevocationEntry records an immediate revocation.
func NewForceRevocationEntry(p EntryParams, reason string, previousExpiration time.Time, context map[string]any, now time.Time) Entry {
	if context == nil {
		context = make(map[string]any)
	}
	context["immediateRevocation"] = true
	return NewEntry(ActionForceRevoke, p, Details{
		Reason:                 reason,
		PreviousExpirationDate: &previousExpiration,
		AdditionalContext:      context,
	}, now)
}

// ValidateEntry reports which required identity fields are missing, one
// human-readable message per field. It reports rather than rejects: the
// caller decides whether to block the action.
func ValidateEntry(e Entry) []string {
	var errs []string
	if e.AdministratorID == "" {
		errs = append(errs, "administrator id is required")
	}
	if e.AdministratorName == "" {
		errs = append(errs, "administrator name is required")
	}
	if e.AdministratorEmail == "" {
		errs = append(errs, "administrator email is required")
	}
	if !e.Action.IsValid() {
		errs = append(errs, "action is required")
	}
	if e.TargetUserID == "" {
		errs = append(errs, "target user id is required")
	}
	if e.TargetUserName == "" {
		errs = append(errs, "target user name is required")
	}
	if e.TargetUserEmail == "" {
		errs = append(errs, "target user email is required")
	}
	if e.ProductID == "" {
		errs = append(errs, "product id is required")
	}
	if e.ProductName == "" {
		errs = append(errs, "product name is required")
	}
	return errs
}
