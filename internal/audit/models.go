package audit

import "time"

// Action identifies the administrative operation an entry records.
type Action string

const (
	ActionApprove            Action = "approve"
	ActionDecline            Action = "decline"
	ActionRenew              Action = "renew"
	ActionBulkRenew          Action = "bulk_renew"
	ActionScheduleRevocation Action = "schedule_revocation"
	ActionForceRevoke        Action = "force_revoke"
	ActionRevoke             Action = "revoke"
)

// AllActions lists every action kind. Summaries zero-fill over this set so
// downstream charts always see all seven keys.
func AllActions() []Action {
	return []Action{
		ActionApprove,
		ActionDecline,
		ActionRenew,
		ActionBulkRenew,
		ActionScheduleRevocation,
		ActionForceRevoke,
		ActionRevoke,
	}
}

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}
	return false
}

// Actor is the administrator performing an action.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// Target is the user whose access the action affects.
type Target struct {
	ID    string
	Name  string
	Email string
}

// Product is the data product the access pertains to.
type Product struct {
	ID   string
	Name string
}

// Details is the action-typed payload attached to an entry. Which fields are
// populated depends on the action; the typed constructors in entries.go
// guarantee the correct shape per action.
type Details struct {
	Comment                 string         `json:"comment,omitempty"`
	Reason                  string         `json:"reason,omitempty"`
	TemplateUsed            string         `json:"templateUsed,omitempty"`
	PreviousExpirationDate  *time.Time     `json:"previousExpirationDate,omitempty"`
	NewExpirationDate       *time.Time     `json:"newExpirationDate,omitempty"`
	RevocationScheduledDate *time.Time     `json:"revocationScheduledDate,omitempty"`
	BulkOperationCount      int            `json:"bulkOperationCount,omitempty"`
	AdditionalContext       map[string]any `json:"additionalContext,omitempty"`
}

// Entry is an immutable record of one administrative action. Entries are
// append-only: nothing mutates them after creation, and the only destruction
// path is an explicit administrative clear of the whole log.
type Entry struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	AdministratorID    string    `json:"administratorId"`
	AdministratorName  string    `json:"administratorName"`
	AdministratorEmail string    `json:"administratorEmail"`
	Action             Action    `json:"action"`
	TargetUserID       string    `json:"targetUserId"`
	TargetUserName     string    `json:"targetUserName"`
	TargetUserEmail    string    `json:"targetUserEmail"`
	ProductID          string    `json:"productId"`
	ProductName        string    `json:"productName"`
	AccessID           string    `json:"accessId,omitempty"`
	RequestID          string    `json:"requestId,omitempty"`
	Details            Details   `json:"details"`
	IPAddress          string    `json:"ipAddress"`
	UserAgent          string    `json:"userAgent"`
}

// DateRange bounds a time window, inclusive at both ends.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Filters restricts an entry set. Every provided criterion is AND-ed;
// list criteria are membership tests (OR within the field); zero values
// impose no restriction.
type Filters struct {
	AdministratorIDs []string   `json:"administratorIds,omitempty"`
	TargetUserIDs    []string   `json:"targetUserIds,omitempty"`
	ProductIDs       []string   `json:"productIds,omitempty"`
	Actions          []Action   `json:"actions,omitempty"`
	DateRange        *DateRange `json:"dateRange,omitempty"`
}

// Summary aggregates an entry set for reporting.
type Summary struct {
	TotalEntries        int            `json:"totalEntries"`
	ActionCounts        map[Action]int `json:"actionCounts"`
	AdministratorCounts map[string]int `json:"administratorCounts"`
	ProductCounts       map[string]int `json:"productCounts"`
	DateRange           DateRange      `json:"dateRange"`
}

// Report is a derived, point-in-time snapshot of the filtered log.
type Report struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	GeneratedAt  time.Time `json:"generatedAt"`
	GeneratedBy  string    `json:"generatedBy"`
	DateRange    DateRange `json:"dateRange"`
	Filters      Filters   `json:"filters"`
	Entries      []Entry   `json:"entries"`
	Summary      Summary   `json:"summary"`
	ExportFormat string    `json:"exportFormat"`
}
